package identity

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Resolver extracts the caller from an inbound request. The bool is false
// when the request carries no usable credential; resolvers never error.
type Resolver interface {
	Resolve(r *http.Request) (*Identity, bool)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(r *http.Request) (*Identity, bool)

func (f ResolverFunc) Resolve(r *http.Request) (*Identity, bool) { return f(r) }

// Chain tries each resolver in order and returns the first hit.
type Chain []Resolver

func (c Chain) Resolve(r *http.Request) (*Identity, bool) {
	for _, res := range c {
		if res == nil {
			continue
		}
		if id, ok := res.Resolve(r); ok {
			return id, true
		}
	}
	return nil, false
}

// DefaultResolver reads the Authorization header first and falls back to
// a "token" query parameter for clients that cannot set headers.
func DefaultResolver() Resolver {
	return Chain{BearerHeader(), QueryToken("token")}
}

const bearerPrefix = "Bearer "

func BearerHeader() Resolver {
	return ResolverFunc(func(r *http.Request) (*Identity, bool) {
		if r == nil {
			return nil, false
		}
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, bearerPrefix) {
			return nil, false
		}
		return FromToken(strings.TrimPrefix(h, bearerPrefix))
	})
}

func QueryToken(param string) Resolver {
	return ResolverFunc(func(r *http.Request) (*Identity, bool) {
		if r == nil || r.URL == nil {
			return nil, false
		}
		return FromToken(r.URL.Query().Get(param))
	})
}

var unverified = jwt.NewParser()

// FromToken decodes the payload claims of a JWT without checking its signature.
// The gateway in front of this service has already verified it.
func FromToken(raw string) (*Identity, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := unverified.ParseUnverified(raw, claims); err != nil {
		return nil, false
	}
	id := &Identity{
		Sub:    stringClaim(claims, "sub"),
		Email:  stringClaim(claims, "email"),
		Name:   stringClaim(claims, "name"),
		Groups: groupsClaim(claims),
	}
	if id.Email == "" {
		id.Email = stringClaim(claims, "cognito:username")
	}
	if id.Name == "" {
		id.Name = defaultName
	}
	return id, true
}

func stringClaim(c jwt.MapClaims, key string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return ""
}

func groupsClaim(c jwt.MapClaims) []string {
	raw, ok := c["cognito:groups"]
	if !ok {
		raw = c["groups"]
	}
	switch v := raw.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, g := range v {
			if s, ok := g.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	default:
		return []string{}
	}
}
