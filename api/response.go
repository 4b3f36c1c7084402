/**
 * Copyright (c) 2023 wetrycode
 *
 * This software is released under the MIT License.
 * https://opensource.org/licenses/MIT
 */

package api

import (
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Response struct {
	APIVersion string      `json:"api"`
	Code       int         `json:"code"`
	Message    string      `json:"msg"`
	Data       interface{} `json:"data"`
}

// Response writes data as json
func (g *Gin) Response(httpCode int, data interface{}) {
	body, err := json.Marshal(Response{
		APIVersion: "v0.0.1",
		Code:       httpCode,
		Message:    GetMsg(httpCode),
		Data:       data,
	})
	if err != nil {
		g.Error(500)
		return
	}
	g.Ctx.Data(httpCode, gin.MIMEJSON+"; charset=utf-8", body)
}

// Error aborts the request with an error page,
// json for clients asking for it and plain text otherwise
func (g *Gin) Error(httpCode int) {
	g.Ctx.Abort()
	switch g.Ctx.NegotiateFormat(gin.MIMEPlain, gin.MIMEJSON) {
	case gin.MIMEJSON:
		g.Response(httpCode, nil)
	default:
		g.Ctx.String(httpCode, "%d %s\n", httpCode, GetMsg(httpCode))
	}
}
