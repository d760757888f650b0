// Package middleware holds the pre-routing request pipeline: bearer token
// authentication, the access policy and the access log.
package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
	"github.com/anik/storefront-api/internal/pkg/metrics"
)

const bearerScheme = "bearer"

// Authenticate verifies an "Authorization: Bearer <token>" header and attaches
// the resulting Principal to the request context. It never rejects a request:
// a missing, malformed, forged or expired token simply leaves the request
// anonymous, and the access policy decides what happens next.
func Authenticate(codec ports.TokenCodec, key domain.SigningKey, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			claims, err := codec.Verify(token, key)
			if err != nil {
				result := verificationResult(err)
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				log.Debug().
					Str("result", result).
					Str("path", c.Request().URL.Path).
					Msg("bearer token rejected")
				return next(c)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), domain.Principal{
				SubjectID: claims.Subject,
				Role:      claims.Role,
			})))
			return next(c)
		}
	}
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively and the token must be non-empty.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func verificationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
