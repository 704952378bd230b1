package app

import (
	httpMW "github.com/yungbote/petlabel-backend/internal/http/middleware"
	"github.com/yungbote/petlabel-backend/internal/platform/identity"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, identity.DefaultResolver()),
	}
}
