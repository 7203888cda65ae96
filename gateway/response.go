package gateway

import (
	"errors"
	"net/http"

	goCAS "github.com/MrEthical07/goCAS"
	"github.com/gin-gonic/gin"
)

// Result is the JSON envelope of every response.
type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Result{
		Code: http.StatusOK,
		Msg:  "success",
		Data: data,
	})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Result{
		Code: status,
		Msg:  msg,
	})
}

// failErr maps Authority errors to a status and a user-facing message.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, goCAS.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, goCAS.ErrTicketInvalid):
		fail(c, http.StatusUnauthorized, "user ticket invalid")
	case errors.Is(err, goCAS.ErrStoreUnavailable), errors.Is(err, goCAS.ErrAuthenticatorUnavailable):
		fail(c, http.StatusServiceUnavailable, "service unavailable")
	default:
		fail(c, http.StatusInternalServerError, "internal error")
	}
}
