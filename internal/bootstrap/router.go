package bootstrap

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/thistracker/thistracker-backend/internal/api/http"
	"github.com/thistracker/thistracker-backend/internal/api/http/middleware"
	"github.com/thistracker/thistracker-backend/internal/auth"
	trackerhttp "github.com/thistracker/thistracker-backend/internal/tracker/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	AuthClient  *fbauth.Client
	Redis       *redis.Client
	Factory     trackerhttp.ServiceFactory
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders,
		"Authorization", "X-Google-Access-Token", "X-User-Id", "X-Request-Id")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())
	api.Use(auth.Principal(dep.AuthClient))

	trackerHandler := trackerhttp.New(dep.Factory)
	trackerHandler.Register(api)

	return r
}
