package middleware

import (
	"crypto/sha256"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
)

// CSRFKey derives the 32-byte CSRF authentication key from the app secret.
func CSRFKey(secret string) []byte {
	sum := sha256.Sum256([]byte("csrf:" + secret))
	return sum[:]
}

// CSRF protects the entry form. The origin check follows the scheme the
// client actually used: TLS on this process or X-Forwarded-Proto from a
// terminating proxy means https, anything else is checked as plain http.
// trustedOrigins lists extra hosts (host[:port]) allowed in Origin/Referer.
func CSRF(key []byte, secure bool, trustedOrigins []string) echo.MiddlewareFunc {
	protect := echo.WrapMiddleware(csrf.Protect(
		key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
		csrf.TrustedOrigins(trustedOrigins),
	))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := protect(next)
		return func(c echo.Context) error {
			if c.Scheme() != "https" {
				c.SetRequest(csrf.PlaintextHTTPRequest(c.Request()))
			}
			return h(c)
		}
	}
}
