package handlers

import (
	"net/http"

	"controlling_doze/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterDeviceRequest is the payload for registering a device.
type RegisterDeviceRequest struct {
	// Device serial as reported by `adb devices`
	Serial string `json:"serial" binding:"required" example:"emulator-5554"`
	// Free-form label
	Name string `json:"name,omitempty" example:"pixel-7"`
	// adb (default) or sim
	Transport string `json:"transport,omitempty" example:"adb"`
}

// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, devices"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices [get]
// @Security     BearerAuth
func (h *Handler) listDevices(c *gin.Context) {
	devs, err := h.services.Devices.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to list devices", "devices_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(devs),
		"devices": devs,
	})
}

// @Summary      Register device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body  RegisterDeviceRequest  true  "Device"
// @Success      201  {object}  models.Device
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices [post]
// @Security     BearerAuth
func (h *Handler) registerDevice(c *gin.Context) {
	var req RegisterDeviceRequest
	if !h.bindBody(c, &req, "device_bad_request_body") {
		return
	}
	d, err := h.services.Devices.Register(c.Request.Context(), models.Device{
		Serial:    req.Serial,
		Name:      req.Name,
		Transport: req.Transport,
	})
	if err != nil {
		h.respondServiceError(c, "device_register_failed", err, "serial", req.Serial)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// @Summary      Remove device
// @Tags         devices
// @Produce      json
// @Param        serial  path  string  true  "Device serial"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/devices/{serial} [delete]
// @Security     BearerAuth
func (h *Handler) removeDevice(c *gin.Context) {
	serial := c.Param("serial")
	if err := h.services.Devices.Remove(c.Request.Context(), serial); err != nil {
		h.respondServiceError(c, "device_remove_failed", err, "serial", serial)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed", "serial": serial})
}
