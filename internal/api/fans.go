package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tuf2go/tuf2go/internal/fans"
)

type FanStatus struct {
	Mode          string          `json:"mode"`
	TargetPercent int             `json:"targetPercent"`
	Policy        string          `json:"policy"`
	Status        string          `json:"status"`
	Backend       string          `json:"backend"`
	StalledTicks  int             `json:"stalledTicks"`
	Capability    fans.Capability `json:"capability"`
	Statistics    fans.Statistics `json:"statistics"`
}

type fanSpeedRequest struct {
	Percent *int `json:"percent"`
}

type fanHandler struct {
	engine *fans.Engine
}

func registerFanEndpoints(rest *echo.Echo, engine *fans.Engine) {
	h := fanHandler{engine: engine}
	group := rest.Group("/fan")

	group.GET("/", h.getFan)
	group.POST("/speed/", h.setSpeed)
	group.POST("/auto/", h.enableAuto)
}

func (h fanHandler) status() FanStatus {
	policy := "Unknown"
	if p, ok := h.engine.ActivePolicy(); ok {
		policy = p.String()
	}
	return FanStatus{
		Mode:          h.engine.Mode().String(),
		TargetPercent: h.engine.TargetPercent(),
		Policy:        policy,
		Status:        h.engine.Status(),
		Backend:       h.engine.Backend().String(),
		StalledTicks:  h.engine.StalledTicks(),
		Capability:    h.engine.Capability(),
		Statistics:    h.engine.Statistics(),
	}
}

func (h fanHandler) getFan(c echo.Context) error {
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}

func (h fanHandler) setSpeed(c echo.Context) error {
	var request fanSpeedRequest
	if !bind(c, &request) {
		return nil
	}
	if request.Percent == nil || *request.Percent < 0 || *request.Percent > 100 {
		return returnBadRequest(c, "percent must be a value between 0 and 100")
	}
	if !h.engine.SetFanSpeed(*request.Percent) {
		return returnUnavailable(c, h.engine.Status())
	}
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}

func (h fanHandler) enableAuto(c echo.Context) error {
	h.engine.EnableAutoMode()
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}
