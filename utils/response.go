package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON body every endpoint returns. Code 0 means success;
// error codes carry the HTTP status class in their leading digits (40xxx
// client faults, 50xxx server faults) so clients can switch on the business
// code without inspecting the HTTP status.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	// CodeOK is the business code of every successful response.
	CodeOK = 0
	// CodeLoginRequired rejects requests whose session cookie did not
	// resolve to a user.
	CodeLoginRequired = 40100
)

// Respond writes an envelope with the given HTTP status.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, Envelope{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success writes a 200 envelope around the payload.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, CodeOK, "success", data)
}

// Error writes an error envelope with no payload.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// NotFound writes a 404 envelope; the code identifies which resource was
// missing.
func NotFound(ctx *gin.Context, code int, message string) {
	Error(ctx, http.StatusNotFound, code, message)
}

// LoginRequired writes the uniform 401 rejection used by every surface that
// needs a resolved user.
func LoginRequired(ctx *gin.Context) {
	Error(ctx, http.StatusUnauthorized, CodeLoginRequired, "login required")
}
