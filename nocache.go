package freshserve

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
)

const (
	// CacheControlHeader the header forced on every response
	CacheControlHeader = "Cache-Control"
	// CacheControlValue clients must never reuse a served asset without revalidating
	CacheControlValue = "no-cache, must-revalidate, max-age=0"
)

// noCacheWriter sets the cache header right before the status line goes out,
// whatever the wrapped handler did to the header map before that
type noCacheWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *noCacheWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.ResponseWriter.Header().Set(CacheControlHeader, CacheControlValue)
		// 1xx responses are followed by the real one
		if code >= http.StatusOK {
			w.wroteHeader = true
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *noCacheWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *noCacheWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// ReadFrom keeps the sendfile path of the underlying writer
func (w *noCacheWriter) ReadFrom(r io.Reader) (int64, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return io.Copy(w.ResponseWriter, r)
}

// CloseNotify gin's writer asserts http.CloseNotifier without checking
func (w *noCacheWriter) CloseNotify() <-chan bool {
	if cn, ok := w.ResponseWriter.(http.CloseNotifier); ok { //nolint:staticcheck
		return cn.CloseNotify()
	}
	return make(chan bool)
}

func (w *noCacheWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (w *noCacheWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// NoCache decorates next so that every response it produces,
// errors and redirects included, carries CacheControlValue
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(CacheControlHeader, CacheControlValue)
		next.ServeHTTP(&noCacheWriter{ResponseWriter: w}, r)
	})
}
