package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
	"github.com/tuf2go/tuf2go/internal/sensors"
)

func registerSensorEndpoints(rest *echo.Echo, readings *sensors.Readings) {
	group := rest.Group("/sensors")

	group.GET("/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, readings.Snapshot(), indentationChar)
	})
	group.GET("/:"+urlParamId+"/", func(c echo.Context) error {
		id := c.Param(urlParamId)
		data, exists := readings.Get(id)
		if !exists {
			return returnNotFound(c, id)
		}
		return c.JSONPretty(http.StatusOK, reprint.This(data), indentationChar)
	})
}
