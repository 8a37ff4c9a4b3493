package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/drawspace/drawspace-backend/internal/api/http"
	"github.com/drawspace/drawspace-backend/internal/api/http/middleware"
	boardhttp "github.com/drawspace/drawspace-backend/internal/board/http"
	"github.com/drawspace/drawspace-backend/internal/board/repository"
	"github.com/drawspace/drawspace-backend/internal/board/service"
	"github.com/drawspace/drawspace-backend/internal/room"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Store       repository.BoardStore
	Registry    *room.Registry
}

// BuildRouter wires the HTTP surface: health, board lifecycle endpoints and
// the websocket upgrade route for the realtime protocol.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	boards := service.NewBoardService(dep.Store)
	boardhttp.NewHandler(boards).RegisterRoutes(api)

	wsHandler := room.NewHandler(dep.Registry)
	wsHandler.RegisterRoutes(r)

	return r
}
