package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catmapper "github.com/Apurer/cat-haven/internal/domains/cats/adapters/http/mapper"
	catsports "github.com/Apurer/cat-haven/internal/domains/cats/ports"
	favmapper "github.com/Apurer/cat-haven/internal/domains/favorites/adapters/http/mapper"
	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
	apierrors "github.com/Apurer/cat-haven/internal/shared/errors"
)

// FavoritesAPI exposes a device's session and favorites.
type FavoritesAPI struct {
	cats      catsports.Service
	responder *apierrors.ChainedResponder
}

func NewFavoritesAPI(cats catsports.Service, responder *apierrors.ChainedResponder) FavoritesAPI {
	return FavoritesAPI{cats: cats, responder: responder}
}

// Post /v1/session
// Signs the device in as userId.
func (api *FavoritesAPI) SignIn(c *gin.Context) {
	device, ok := api.device(c)
	if !ok {
		return
	}
	var payload favmapper.SignIn
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		api.responder.ValidationFailed(c, map[string]string{"userId": "must not be blank"})
		return
	}
	device.Identity.SignIn(userID)
	api.session(c, http.StatusOK, device)
}

// Delete /v1/session
// Signs the device out.
func (api *FavoritesAPI) SignOut(c *gin.Context) {
	device, ok := api.device(c)
	if !ok {
		return
	}
	device.Identity.SignOut()
	api.session(c, http.StatusOK, device)
}

// Get /v1/session
func (api *FavoritesAPI) GetSession(c *gin.Context) {
	device, ok := api.device(c)
	if !ok {
		return
	}
	api.session(c, http.StatusOK, device)
}

// Get /v1/favorites
func (api *FavoritesAPI) ListFavorites(c *gin.Context) {
	device, ok := api.device(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, favmapper.FromIDs(device.Favorites.FavoriteIDs()))
}

// Get /v1/favorites/:itemId
func (api *FavoritesAPI) IsFavorite(c *gin.Context) {
	device, ok := api.device(c)
	if !ok {
		return
	}
	id, ok := api.itemID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, favmapper.FromMembership(id, device.Favorites.IsFavorite(id)))
}

// Post /v1/favorites/:itemId/toggle
// Flips membership and returns the new state. Persistence failures never surface here.
func (api *FavoritesAPI) Toggle(c *gin.Context) {
	device, ok := api.device(c)
	if !ok {
		return
	}
	id, ok := api.itemID(c)
	if !ok {
		return
	}
	favorite := device.Favorites.Toggle(c.Request.Context(), id)
	c.JSON(http.StatusOK, favmapper.FromMembership(id, favorite))
}

// Get /v1/favorites/cats
// Lists the catalog records behind the device's favorites, in favorite order.
func (api *FavoritesAPI) ListFavoriteCats(c *gin.Context) {
	device, ok := api.device(c)
	if !ok {
		return
	}
	ids := favmapper.ToStrings(device.Favorites.FavoriteIDs())
	cats, err := api.cats.ResolveFavorites(c.Request.Context(), ids)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catmapper.FromStoredList(cats))
}

func (api *FavoritesAPI) session(c *gin.Context, status int, device *Device) {
	c.JSON(status, favmapper.FromSession(device.Favorites.Session(), device.Favorites.Loading()))
}

func (api *FavoritesAPI) device(c *gin.Context) (*Device, bool) {
	device, ok := deviceFrom(c)
	if !ok {
		api.responder.Respond(c, apierrors.ErrMissingDevice)
	}
	return device, ok
}

func (api *FavoritesAPI) itemID(c *gin.Context) (domain.ItemID, bool) {
	id := domain.ItemID(strings.TrimSpace(c.Param("itemId")))
	if !id.Valid() {
		api.responder.ValidationFailed(c, map[string]string{
			"itemId": fmt.Sprintf("must not be blank and at most %d characters", domain.MaxItemIDLength),
		})
		return "", false
	}
	return id, true
}
