package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Routes registers the entry form routes on e and installs the page renderer.
func (h *Handler) Routes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	if e.Renderer == nil {
		e.Renderer = NewRenderer()
	}
	e.GET("/", h.Form, mw...)
	e.POST("/", h.Submit, mw...)
	e.GET("/thank-you", h.ThankYou, mw...)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
}
