package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catmapper "github.com/Apurer/cat-haven/internal/domains/cats/adapters/http/mapper"
	catsports "github.com/Apurer/cat-haven/internal/domains/cats/ports"
	apierrors "github.com/Apurer/cat-haven/internal/shared/errors"
)

// CatsAPI wires HTTP transport with the cat catalog service.
type CatsAPI struct {
	service   catsports.Service
	responder *apierrors.ChainedResponder
}

func NewCatsAPI(service catsports.Service, responder *apierrors.ChainedResponder) CatsAPI {
	return CatsAPI{service: service, responder: responder}
}

// Get /v1/cats
// Lists cats open for adoption.
func (api *CatsAPI) ListAdoptable(c *gin.Context) {
	result, err := api.service.ListAdoptable(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catmapper.FromStoredList(result))
}

// Get /v1/cats/:catId
func (api *CatsAPI) GetCat(c *gin.Context) {
	cat, err := api.service.GetByID(c.Request.Context(), c.Param("catId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catmapper.FromStored(cat))
}

// Post /v1/cats
// Registers a cat. Signed-in devices only.
func (api *CatsAPI) RegisterCat(c *gin.Context) {
	var payload catmapper.RegisterCat
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	saved, err := api.service.Register(c.Request.Context(), catmapper.ToRegisterInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catmapper.FromStored(saved))
}

// Delete /v1/cats/:catId
// Signed-in devices only. Favorites that point at the cat are left alone.
func (api *CatsAPI) DeleteCat(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("catId")); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
