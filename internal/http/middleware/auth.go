package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/petlabel-backend/internal/platform/identity"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

const ctxKeyIdentity = "identity"

type AuthMiddleware struct {
	log      *logger.Logger
	resolver identity.Resolver
}

func NewAuthMiddleware(log *logger.Logger, resolver identity.Resolver) *AuthMiddleware {
	if resolver == nil {
		resolver = identity.DefaultResolver()
	}
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), resolver: resolver}
}

// AttachIdentity decodes caller claims when present. It never rejects a
// request; role checks belong to the operations that need them.
func (am *AuthMiddleware) AttachIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := am.resolver.Resolve(c.Request)
		if ok && id != nil {
			c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
			c.Set(ctxKeyIdentity, id)
			am.log.Debug("identity attached", "sub", id.Sub, "groups", id.Groups)
		}
		c.Next()
	}
}

// Caller returns the identity attached to the request, or nil.
func Caller(c *gin.Context) *identity.Identity {
	if id, ok := identity.FromContext(c.Request.Context()); ok {
		return id
	}
	return nil
}
