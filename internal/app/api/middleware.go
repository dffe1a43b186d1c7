package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/cat-haven/internal/shared/errors"
)

const deviceContextKey = "cathaven.device"

// DeviceContext resolves the X-Device-ID header into a Device for downstream handlers.
func DeviceContext(registry *DeviceRegistry, responder *apierrors.ChainedResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(DeviceHeader)
		if raw == "" {
			responder.Respond(c, apierrors.ErrMissingDevice.WithDetail("the "+DeviceHeader+" header is required"))
			return
		}
		device, err := registry.Device(raw)
		if err != nil {
			responder.RespondError(c, err)
			return
		}
		c.Set(deviceContextKey, device)
		c.Next()
	}
}

// RequireIdentity rejects requests from devices that are not signed in. It must run
// after DeviceContext.
func RequireIdentity(responder *apierrors.ChainedResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		device, ok := deviceFrom(c)
		if !ok {
			responder.RespondError(c, errors.New("RequireIdentity used without DeviceContext"))
			return
		}
		if identity, _ := device.Identity.Current(); identity == nil {
			responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("sign in to perform this action"))
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request through slog.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func deviceFrom(c *gin.Context) (*Device, bool) {
	value, ok := c.Get(deviceContextKey)
	if !ok {
		return nil, false
	}
	device, ok := value.(*Device)
	return device, ok && device != nil
}
