package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tuf2go/tuf2go/internal/battery"
	"github.com/tuf2go/tuf2go/internal/fans"
	"github.com/tuf2go/tuf2go/internal/lighting"
	"github.com/tuf2go/tuf2go/internal/sensors"
	"github.com/tuf2go/tuf2go/internal/thermal"
)

const (
	urlParamId       = "id"
	indentationChar  = "  "
	metricsSubsystem = "api"
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// Components are the engines served by the REST api, nil entries are not exposed
type Components struct {
	Fan      *fans.Engine
	Lighting *lighting.Engine
	Thermal  *thermal.Engine
	Battery  *battery.Controller
	Readings *sensors.Readings

	// Registerer enables request metrics and the /metrics endpoint
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func CreateRestService(components Components) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())

	if components.Registerer != nil {
		echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  metricsSubsystem,
			Registerer: components.Registerer,
		}))
		gatherer := components.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		echoRest.GET("/metrics/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: gatherer,
		}))
	}

	echoRest.GET("/alive/", isAlive)

	if components.Fan != nil {
		registerFanEndpoints(echoRest, components.Fan)
	}
	if components.Lighting != nil {
		registerLightingEndpoints(echoRest, components.Lighting)
	}
	if components.Thermal != nil {
		registerCurveEndpoints(echoRest, components.Thermal)
	}
	if components.Battery != nil {
		registerBatteryEndpoints(echoRest, components.Battery)
	}
	if components.Readings != nil {
		registerSensorEndpoints(echoRest, components.Readings)
	}

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

// return a "bad request" message
func returnBadRequest(c echo.Context, message string) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad Request",
		Message: message,
	}, indentationChar)
}

// return a message that the hardware did not accept the request
func returnUnavailable(c echo.Context, message string) (err error) {
	return c.JSONPretty(http.StatusServiceUnavailable, &Result{
		Name:    "Unavailable",
		Message: message,
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}

// bind decodes the request body into target, answering with 400 on failure
func bind(c echo.Context, target any) bool {
	if err := c.Bind(target); err != nil {
		_ = returnBadRequest(c, "Invalid payload: "+err.Error())
		return false
	}
	return true
}
