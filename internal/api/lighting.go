package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tuf2go/tuf2go/internal/lighting"
)

type LightingStatus struct {
	Available  bool           `json:"available"`
	Detected   bool           `json:"detected"`
	Backend    string         `json:"backend"`
	State      lighting.State `json:"state"`
	LastState  lighting.State `json:"lastState"`
	Brightness int            `json:"brightness"`
	Strobing   bool           `json:"strobing"`
}

type lightingRequest struct {
	Mode  string `json:"mode"`
	Color string `json:"color"`
	Speed int    `json:"speed"`
	Level *int   `json:"level"`
}

type lightingHandler struct {
	engine *lighting.Engine
}

func registerLightingEndpoints(rest *echo.Echo, engine *lighting.Engine) {
	h := lightingHandler{engine: engine}
	group := rest.Group("/lighting")

	group.GET("/", h.getLighting)
	group.POST("/static/", h.setStatic)
	group.POST("/breathing/", h.setBreathing)
	group.POST("/rainbow/", h.setRainbow)
	group.POST("/pulsing/", h.setPulsing)
	group.POST("/brightness/", h.setBrightness)
	group.POST("/restore/", h.restore)
}

func (h lightingHandler) status() LightingStatus {
	return LightingStatus{
		Available:  h.engine.IsAvailable(),
		Detected:   h.engine.IsDetected(),
		Backend:    h.engine.Backend().String(),
		State:      h.engine.State(),
		LastState:  h.engine.LastState(),
		Brightness: h.engine.Brightness(),
		Strobing:   h.engine.IsStrobing(),
	}
}

func (h lightingHandler) getLighting(c echo.Context) error {
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}

// apply decodes and validates an effect request and runs fn
func (h lightingHandler) apply(c echo.Context, needsColor bool, fn func(request lightingRequest) bool) error {
	var request lightingRequest
	if !bind(c, &request) {
		return nil
	}
	if needsColor && request.Color == "" {
		return returnBadRequest(c, "color is required")
	}
	if request.Speed == 0 {
		request.Speed = lighting.MinSpeed
	}
	if request.Speed < lighting.MinSpeed || request.Speed > lighting.MaxSpeed {
		return returnBadRequest(c, "speed must be a value between 1 and 3")
	}
	if !fn(request) {
		return returnUnavailable(c, "Keyboard lighting is not available")
	}
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}

func (h lightingHandler) setStatic(c echo.Context) error {
	return h.apply(c, true, func(request lightingRequest) bool {
		return h.engine.SetStatic(request.Color)
	})
}

func (h lightingHandler) setBreathing(c echo.Context) error {
	return h.apply(c, true, func(request lightingRequest) bool {
		return h.engine.SetBreathing(request.Color, request.Speed)
	})
}

func (h lightingHandler) setRainbow(c echo.Context) error {
	return h.apply(c, false, func(request lightingRequest) bool {
		return h.engine.SetRainbow(request.Speed)
	})
}

func (h lightingHandler) setPulsing(c echo.Context) error {
	return h.apply(c, true, func(request lightingRequest) bool {
		return h.engine.SetPulsing(request.Color, request.Speed)
	})
}

func (h lightingHandler) setBrightness(c echo.Context) error {
	var request lightingRequest
	if !bind(c, &request) {
		return nil
	}
	if request.Level == nil || *request.Level < 0 || *request.Level > lighting.MaxBrightness {
		return returnBadRequest(c, "level must be a value between 0 and 3")
	}
	if !h.engine.SetBrightness(*request.Level) {
		return returnUnavailable(c, "Keyboard lighting is not available")
	}
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}

func (h lightingHandler) restore(c echo.Context) error {
	var request lightingRequest
	if !bind(c, &request) {
		return nil
	}
	mode, err := lighting.ParseMode(request.Mode)
	if err != nil {
		return returnBadRequest(c, err.Error())
	}
	if err := h.engine.RestoreServices(c.Request().Context(), mode, request.Color); err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}
