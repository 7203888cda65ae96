package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinGuard adapts Guard to a gin handler chain. Rejected requests abort the
// chain with the response Guard already wrote.
func GinGuard(checker SessionChecker, cookieName string) gin.HandlerFunc {
	guard := Guard(checker, cookieName)

	return func(c *gin.Context) {
		admitted := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admitted = true
			c.Request = r
			c.Next()
		})

		guard(next).ServeHTTP(c.Writer, c.Request)

		if !admitted {
			c.Abort()
		}
	}
}
