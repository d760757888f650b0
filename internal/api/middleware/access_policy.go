package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/pkg/metrics"
)

// PublicRoute opens a path pattern to anonymous callers. An empty Method
// matches any method. In Pattern, "*" matches exactly one segment and a
// trailing "**" matches any remaining segments, including none.
type PublicRoute struct {
	Method  string
	Pattern string
}

type compiledRoute struct {
	method   string
	segments []string
	anyTail  bool
}

// AccessPolicy decides which requests may proceed without a Principal. It is
// immutable once built.
type AccessPolicy struct {
	routes []compiledRoute
}

// NewAccessPolicy compiles routes into a policy. Every path not covered by
// routes requires an authenticated Principal.
func NewAccessPolicy(routes ...PublicRoute) *AccessPolicy {
	p := &AccessPolicy{routes: make([]compiledRoute, 0, len(routes))}
	for _, r := range routes {
		segs := splitPath(r.Pattern)
		cr := compiledRoute{method: strings.ToUpper(r.Method)}
		if n := len(segs); n > 0 && segs[n-1] == "**" {
			cr.anyTail = true
			segs = segs[:n-1]
		}
		cr.segments = segs
		p.routes = append(p.routes, cr)
	}
	return p
}

// DefaultAccessPolicy is the storefront table: health, auth, catalog reads,
// metrics and API docs are public; everything else needs a token.
func DefaultAccessPolicy() *AccessPolicy {
	return NewAccessPolicy(
		PublicRoute{Pattern: "/api/health/**"},
		PublicRoute{Pattern: "/api/auth/**"},
		PublicRoute{Method: http.MethodGet, Pattern: "/api/products/**"},
		PublicRoute{Method: http.MethodHead, Pattern: "/api/products/**"},
		PublicRoute{Method: http.MethodGet, Pattern: "/api/categories/**"},
		PublicRoute{Method: http.MethodHead, Pattern: "/api/categories/**"},
		PublicRoute{Method: http.MethodGet, Pattern: "/metrics"},
		PublicRoute{Method: http.MethodGet, Pattern: "/swagger/**"},
	)
}

// IsPublic reports whether method and p match a public route. A path that is
// not already in canonical form is never public, since the router matches the
// path as sent.
func (ap *AccessPolicy) IsPublic(method, p string) bool {
	if !isCanonical(p) {
		return false
	}
	segs := splitPath(p)
	for _, r := range ap.routes {
		if r.method != "" && r.method != method {
			continue
		}
		if r.matches(segs) {
			return true
		}
	}
	return false
}

func (r compiledRoute) matches(segs []string) bool {
	if r.anyTail {
		if len(segs) < len(r.segments) {
			return false
		}
	} else if len(segs) != len(r.segments) {
		return false
	}
	for i, want := range r.segments {
		if want != "*" && want != segs[i] {
			return false
		}
	}
	return true
}

// isCanonical allows a single trailing slash but no dot segments or repeated
// slashes.
func isCanonical(p string) bool {
	if p == "/" {
		return true
	}
	return strings.HasPrefix(p, "/") && path.Clean(p) == strings.TrimSuffix(p, "/")
}

func splitPath(p string) []string {
	cleaned := strings.Trim(path.Clean("/"+p), "/")
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, "/")
}

// Authorize enforces policy. It must run after Authenticate. Rejected
// requests end with domain.ErrUnauthorized before any handler is reached.
func Authorize(policy *AccessPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if policy.IsPublic(req.Method, echo.GetPath(req)) {
				metrics.AccessDecisionsTotal.WithLabelValues("public").Inc()
				return next(c)
			}
			if _, ok := domain.PrincipalFrom(req.Context()); ok {
				metrics.AccessDecisionsTotal.WithLabelValues("authenticated").Inc()
				return next(c)
			}
			metrics.AccessDecisionsTotal.WithLabelValues("rejected").Inc()
			return domain.ErrUnauthorized
		}
	}
}
