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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var fileLog *logrus.Entry = GetLogger("files")

// fileHandler resolves request paths against a root filesystem.
// It keeps no state between requests.
type fileHandler struct {
	fs afero.Fs
	// root set for a directory on disk, resolved paths must stay below it
	root    string
	indexes []string
	listing bool
}

// trackedReader remembers the first read failure,
// http.ServeContent swallows it once the status line is out
type trackedReader struct {
	io.ReadSeeker
	err error
}

func (r *trackedReader) Read(p []byte) (int, error) {
	n, err := r.ReadSeeker.Read(p)
	if err != nil && err != io.EOF && r.err == nil {
		r.err = err
	}
	return n, err
}

// cleanPath makes p rooted and removes every dot segment,
// the result can never climb above "/"
func cleanPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func openError(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return &IOError{Path: name, Err: err}
}

// confine rejects names whose symlinks lead outside the root
func (h *fileHandler) confine(name string) error {
	if h.root == "" {
		return nil
	}
	real, err := filepath.EvalSymlinks(filepath.Join(h.root, filepath.FromSlash(name)))
	if err != nil {
		return openError(name, err)
	}
	rel, err := filepath.Rel(h.root, real)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s resolves outside the root", ErrNotFound, name)
	}
	return nil
}

func (h *fileHandler) open(name string) (afero.File, os.FileInfo, error) {
	if err := h.confine(name); err != nil {
		return nil, nil, err
	}
	f, err := h.fs.Open(name)
	if err != nil {
		return nil, nil, openError(name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, openError(name, err)
	}
	return f, info, nil
}

// openIndex the first configured index file inside dir
func (h *fileHandler) openIndex(dir string) (afero.File, os.FileInfo, string, error) {
	for _, index := range h.indexes {
		name := path.Join(dir, index)
		f, info, err := h.open(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, "", err
		}
		if info.IsDir() {
			f.Close()
			continue
		}
		return f, info, name, nil
	}
	return nil, nil, "", fmt.Errorf("%w: no index in %s", ErrNotFound, dir)
}

func (h *fileHandler) serve(c *gin.Context) {
	upath := c.Request.URL.Path
	name := cleanPath(upath)
	f, info, err := h.open(name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer f.Close()

	if !info.IsDir() {
		// a file never answers for a directory style path
		if strings.HasSuffix(upath, "/") {
			abortWithError(c, fmt.Errorf("%w: %s", ErrNotFound, upath))
			return
		}
		h.serveContent(c, name, f, info)
		return
	}

	if !strings.HasSuffix(upath, "/") {
		location := &url.URL{Path: name + "/", RawQuery: c.Request.URL.RawQuery}
		c.Redirect(http.StatusMovedPermanently, location.String())
		return
	}
	index, indexInfo, indexName, err := h.openIndex(name)
	if err == nil {
		defer index.Close()
		h.serveContent(c, indexName, index, indexInfo)
		return
	}
	if !errors.Is(err, ErrNotFound) || !h.listing {
		abortWithError(c, err)
		return
	}
	displayPath := name
	if displayPath != "/" {
		displayPath += "/"
	}
	h.serveListing(c, displayPath, f)
}

func (h *fileHandler) serveContent(c *gin.Context, name string, f afero.File, info os.FileInfo) {
	content := &trackedReader{ReadSeeker: f}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), content)
	if content.err != nil {
		fileLog.WithFields(logrus.Fields{
			"path": name,
		}).Errorf("read file error:%s", content.err.Error())
		// the status line is already out, only dropping the connection is left
		panic(http.ErrAbortHandler)
	}
}
