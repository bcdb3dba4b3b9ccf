package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tuf2go/tuf2go/internal/battery"
)

type BatteryStatus struct {
	Limit       int                `json:"limit"`
	KernelLimit int                `json:"kernelLimit"`
	Pending     bool               `json:"pending"`
	Method      string             `json:"method"`
	Battery     *battery.Status    `json:"battery,omitempty"`
	Statistics  battery.Statistics `json:"statistics"`
}

type batteryLimitRequest struct {
	Limit *int `json:"limit"`
}

type batteryHandler struct {
	controller *battery.Controller
}

func registerBatteryEndpoints(rest *echo.Echo, controller *battery.Controller) {
	h := batteryHandler{controller: controller}
	group := rest.Group("/battery")

	group.GET("/", h.getBattery)
	group.POST("/limit/", h.setLimit)
}

func (h batteryHandler) status() BatteryStatus {
	result := BatteryStatus{
		Limit:       h.controller.Limit(),
		KernelLimit: h.controller.KernelLimit(),
		Pending:     h.controller.HasPending(),
		Method:      h.controller.LastMethod(),
		Statistics:  h.controller.Statistics(),
	}
	if status, ok := h.controller.Status(); ok {
		result.Battery = &status
	}
	return result
}

func (h batteryHandler) getBattery(c echo.Context) error {
	return c.JSONPretty(http.StatusOK, h.status(), indentationChar)
}

// setLimit only schedules the limit, it is applied after the debounce delay
func (h batteryHandler) setLimit(c echo.Context) error {
	var request batteryLimitRequest
	if !bind(c, &request) {
		return nil
	}
	if request.Limit == nil {
		return returnBadRequest(c, "limit is required")
	}
	if !h.controller.IsAvailable() {
		return returnUnavailable(c, "No battery charge threshold available")
	}
	h.controller.SetChargeLimit(*request.Limit)
	return c.JSONPretty(http.StatusAccepted, h.status(), indentationChar)
}
