package freshserve

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smartystreets/goconvey/convey"
)

func TestNoCache(t *testing.T) {
	convey.Convey("test header survives the wrapped handler", t, func() {
		handlers := []struct {
			name    string
			handler http.HandlerFunc
		}{
			{"overwrite", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Cache-Control", "public, max-age=31536000")
				w.Write([]byte("ok"))
			}},
			{"delete", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Del("Cache-Control")
				w.WriteHeader(http.StatusTeapot)
			}},
			{"error", func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}},
			{"empty", func(w http.ResponseWriter, r *http.Request) {}},
			{"read from", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Del("Cache-Control")
				io.Copy(w, strings.NewReader("copied"))
			}},
			{"flush", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Del("Cache-Control")
				w.(http.Flusher).Flush()
			}},
		}
		for _, tc := range handlers {
			handler := tc.handler
			convey.Convey(tc.name, func() {
				rec := httptest.NewRecorder()
				NoCache(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
				convey.So(rec.Result().Header.Values("Cache-Control"), convey.ShouldResemble, []string{CacheControlValue})
			})
		}
	})

	convey.Convey("test writer keeps the optional interfaces", t, func() {
		rec := httptest.NewRecorder()
		handler := NoCache(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rf, ok := w.(io.ReaderFrom)
			convey.So(ok, convey.ShouldBeTrue)
			n, err := rf.ReadFrom(strings.NewReader("body"))
			convey.So(err, convey.ShouldBeNil)
			convey.So(n, convey.ShouldEqual, 4)
		}))
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		convey.So(rec.Body.String(), convey.ShouldEqual, "body")
		convey.So(rec.Header().Get("Cache-Control"), convey.ShouldEqual, CacheControlValue)
	})

	convey.Convey("test gin close notify through the writer", t, func() {
		engine := gin.New()
		engine.GET("/", func(c *gin.Context) {
			convey.So(c.Writer.CloseNotify(), convey.ShouldNotBeNil)
			c.String(http.StatusOK, "ok")
		})
		rec := httptest.NewRecorder()
		NoCache(engine).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		convey.So(rec.Header().Get("Cache-Control"), convey.ShouldEqual, CacheControlValue)
	})
}
