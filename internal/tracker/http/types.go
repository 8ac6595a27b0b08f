package http

import (
	"github.com/gin-gonic/gin"

	"github.com/thistracker/thistracker-backend/internal/tracker/service"
)

// ServiceFactory builds a DataService scoped to the request's principal.
// Each authenticated user gets their own spreadsheet, so the service cannot
// be shared across requests.
type ServiceFactory func(c *gin.Context) (*service.DataService, error)

// Handler bundles the dependencies for tracker HTTP endpoints.
type Handler struct {
	factory ServiceFactory
}

func New(factory ServiceFactory) *Handler {
	return &Handler{factory: factory}
}
