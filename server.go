// MIT License

// Copyright (c) 2023 wetrycode

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package freshserve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"
	"github.com/wetrycode/freshserve/api"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var serverLog *logrus.Entry = GetLogger("server")

const shutdownTimeout = 5 * time.Second

// Server a static file server over one root directory.
// Instances are independent, several may run in one process.
type Server struct {
	config  *ServerConfig
	fs      afero.Fs
	out     io.Writer
	handler http.Handler
	// root the symlink free root directory, empty when fs was injected
	root string

	mu       sync.Mutex
	listener net.Listener
}

// DefaultServerConfig port 8020 on all interfaces serving the working directory
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:              "",
		Port:              DefaultPort,
		Root:              ".",
		Indexes:           []string{"index.html", "index.htm"},
		Listing:           true,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewServer builds a server from config, nil means DefaultServerConfig.
// config is copied, later changes to it have no effect.
func NewServer(config *ServerConfig, opts ...ServerOption) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	cfg := *config
	cfg.Indexes = append([]string(nil), config.Indexes...)
	s := &Server{
		config: &cfg,
		out:    os.Stdout,
	}
	for _, o := range opts {
		o(s)
	}
	if s.fs == nil {
		s.fs = afero.NewBasePathFs(afero.NewOsFs(), s.config.Root)
		s.root = resolveRoot(s.config.Root)
	}
	s.handler = s.newHandler()
	return s
}

// resolveRoot the absolute root with every symlink evaluated,
// a root that does not exist yet is kept as is
func resolveRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return root
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return real
}

func (s *Server) newHandler() http.Handler {
	files := &fileHandler{
		fs:      s.fs,
		root:    s.root,
		indexes: s.config.Indexes,
		listing: s.config.Listing,
	}
	engine := api.SetUp()
	engine.SetHTMLTemplate(listingTemplate)
	engine.Use(Recovery(), AccessLog())
	engine.GET("/*filepath", files.serve)
	engine.HEAD("/*filepath", files.serve)
	engine.NoRoute(NotImplemented())

	var handler http.Handler = NoCache(engine)
	if s.config.H2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}
	return handler
}

// Handler the complete request pipeline, cache header included
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Listen binds the configured address, a *BindError is returned
// when the port is taken or not allowed
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}
	s.listener = ln
	return nil
}

// Addr the bound address, nil before Listen and after Start returns
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start listens if needed, prints the serving address and serves
// until ctx is done. It returns nil after a shutdown.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	port := s.config.Port
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}
	fmt.Fprintf(s.out, "serving app at http://localhost:%d/\n", port)
	serverLog.Infof("serve %s on %s", s.config.Root, ln.Addr().String())

	errorLog := logger.WriterLevel(logrus.ErrorLevel)
	defer errorLog.Close()
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ErrorLog:          log.New(errorLog, "", 0),
		// OPTIONS * goes through the handler like any other method
		DisableGeneralOptionsHandler: true,
	}

	var serveErr error
	stopped := make(chan struct{})
	var wg conc.WaitGroup
	wg.Go(func() {
		defer close(stopped)
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	})
	wg.Go(func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			serverLog.Errorf("shutdown server error:%s", err.Error())
			srv.Close()
		}
	})
	wg.Wait()
	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()
	serverLog.Infof("server on port %d stopped", port)
	return serveErr
}

// Serve serves root on port until ctx is done
func Serve(ctx context.Context, port int, root string, opts ...ServerOption) error {
	config := DefaultServerConfig()
	config.Port = port
	config.Root = root
	return NewServer(config, opts...).Start(ctx)
}
