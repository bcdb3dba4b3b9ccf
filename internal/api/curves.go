package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tuf2go/tuf2go/internal/thermal"
)

type CurveStatus struct {
	thermal.Config
	Mode        string           `json:"mode"`
	Temperature float64          `json:"temperature"`
	Available   bool             `json:"available"`
	Presets     []thermal.Preset `json:"presets"`
}

type curveRequest struct {
	Enabled  *bool  `json:"enabled"`
	Silent   *int   `json:"silent"`
	Balanced *int   `json:"balanced"`
	Name     string `json:"name"`
}

type curveHandler struct {
	engine *thermal.Engine
}

func registerCurveEndpoints(rest *echo.Echo, engine *thermal.Engine) {
	h := curveHandler{engine: engine}
	group := rest.Group("/curve")

	group.GET("/", h.getCurve)
	group.POST("/enabled/", h.setEnabled)
	group.POST("/thresholds/", h.setThresholds)
	group.POST("/preset/", h.applyPreset)
}

func (h curveHandler) status() CurveStatus {
	return CurveStatus{
		Config:      h.engine.Config(),
		Mode:        h.engine.CurrentMode(),
		Temperature: h.engine.CurrentTemperature(),
		Available:   h.engine.IsAvailable(),
		Presets:     h.engine.Presets(),
	}
}

func (h curveHandler) getCurve(c echo.Context) error {
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}

func (h curveHandler) setEnabled(c echo.Context) error {
	var request curveRequest
	if !bind(c, &request) {
		return nil
	}
	if request.Enabled == nil {
		return returnBadRequest(c, "enabled is required")
	}
	h.engine.SetEnabled(*request.Enabled)
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}

// setThresholds applies silent before balanced, both values are clamped by the engine
func (h curveHandler) setThresholds(c echo.Context) error {
	var request curveRequest
	if !bind(c, &request) {
		return nil
	}
	if request.Silent == nil && request.Balanced == nil {
		return returnBadRequest(c, "silent or balanced is required")
	}
	if request.Silent != nil {
		h.engine.SetSilentThreshold(*request.Silent)
	}
	if request.Balanced != nil {
		h.engine.SetBalancedThreshold(*request.Balanced)
	}
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}

func (h curveHandler) applyPreset(c echo.Context) error {
	var request curveRequest
	if !bind(c, &request) {
		return nil
	}
	if err := h.engine.ApplyPreset(request.Name); err != nil {
		return returnBadRequest(c, err.Error())
	}
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}
