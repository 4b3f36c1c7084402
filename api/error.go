/**
 * Copyright (c) 2023 wetrycode
 *
 * This software is released under the MIT License.
 * https://opensource.org/licenses/MIT
 */

package api

import "net/http"

var MsgFlags = map[int]string{
	http.StatusMovedPermanently:    "moved permanently",
	http.StatusNotModified:         "not modified",
	http.StatusBadRequest:          "bad request",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "file not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusInternalServerError: "internal server error",
	http.StatusNotImplemented:      "unsupported method",
}

// GetMsg get error information based on Code
func GetMsg(code int) string {
	msg, ok := MsgFlags[code]
	if ok {
		return msg
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return MsgFlags[http.StatusInternalServerError]
}
