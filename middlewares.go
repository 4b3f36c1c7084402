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
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/wetrycode/freshserve/api"
)

var accessLog *logrus.Entry = GetLogger("access")

// abortWithError turns a request error into its status code,
// only unexpected errors are logged
func abortWithError(c *gin.Context, err error) {
	appG := api.Gin{Ctx: c}
	var ioErr *IOError
	switch {
	case errors.Is(err, ErrNotFound):
		appG.Error(http.StatusNotFound)
	case errors.Is(err, ErrMethodNotSupported):
		appG.Error(http.StatusNotImplemented)
	case errors.As(err, &ioErr):
		fileLog.WithFields(logrus.Fields{
			"path": ioErr.Path,
		}).Errorf("open file error:%s", ioErr.Err.Error())
		appG.Error(http.StatusInternalServerError)
	default:
		fileLog.Errorf("handle request error:%s", err.Error())
		appG.Error(http.StatusInternalServerError)
	}
}

// Recovery answers 500 for a panicking handler.
// http.ErrAbortHandler is passed on so the server drops the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}
			accessLog.Errorf("handle %s %s panic:%v %s", c.Request.Method, c.Request.URL.Path, p, debug.Stack())
			if c.Writer.Written() {
				c.Abort()
				return
			}
			abortWithError(c, fmt.Errorf("panic: %v", p))
		}()
		c.Next()
	}
}

// AccessLog logs one line per exchange
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := decimal.NewFromFloat(float64(time.Since(start)) / float64(time.Millisecond)).Round(2)
		accessLog.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"client":  c.ClientIP(),
			"latency": latency.InexactFloat64(),
		}).Info("request")
	}
}

// NotImplemented answers every method but GET and HEAD
func NotImplemented() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithError(c, fmt.Errorf("%w: %s", ErrMethodNotSupported, c.Request.Method))
	}
}
