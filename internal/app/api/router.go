package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	apierrors "github.com/Apurer/cat-haven/internal/shared/errors"
)

// RouterDeps carries what NewRouter wires into the route table.
type RouterDeps struct {
	ServiceName string
	Logger      *slog.Logger
	Registry    *DeviceRegistry
	Favorites   FavoritesAPI
	Cats        CatsAPI
	Responder   *apierrors.ChainedResponder
}

// NewRouter builds the gin engine. Every /v1 route needs a device; catalog writes also
// need a signed-in device.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if deps.ServiceName != "" {
		router.Use(otelgin.Middleware(deps.ServiceName))
	}
	if deps.Logger != nil {
		router.Use(RequestLogger(deps.Logger))
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1", DeviceContext(deps.Registry, deps.Responder))
	authed := RequireIdentity(deps.Responder)

	v1.POST("/session", deps.Favorites.SignIn)
	v1.DELETE("/session", deps.Favorites.SignOut)
	v1.GET("/session", deps.Favorites.GetSession)

	v1.GET("/favorites", deps.Favorites.ListFavorites)
	v1.GET("/favorites/cats", deps.Favorites.ListFavoriteCats)
	v1.GET("/favorites/:itemId", deps.Favorites.IsFavorite)
	v1.POST("/favorites/:itemId/toggle", deps.Favorites.Toggle)

	v1.GET("/cats", deps.Cats.ListAdoptable)
	v1.GET("/cats/:catId", deps.Cats.GetCat)
	v1.POST("/cats", authed, deps.Cats.RegisterCat)
	v1.DELETE("/cats/:catId", authed, deps.Cats.DeleteCat)

	router.NoRoute(func(c *gin.Context) {
		deps.Responder.Respond(c, apierrors.ErrNotFound.WithDetail("no route for "+c.Request.URL.Path))
	})
	return router
}
