package handlers

import (
	"errors"
	"net/http"

	"controlling_doze/internal/device"
	"controlling_doze/internal/doze"
	"controlling_doze/internal/models"
	"controlling_doze/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errInternal        = "internal error"
	errUnknownDozeType = "unknown doze type; use deep or light"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// statusForError maps service and device errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, doze.ErrUnknownDozeType),
		errors.Is(err, service.ErrInvalidDevice),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidLogFilter):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDeviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDeviceExists), doze.IsVerification(err):
		return http.StatusConflict
	case device.IsTransport(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the mapped status. Internal errors are not echoed.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusForError(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = errInternal
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}

// dozeTypeParam reads the :type path parameter; it writes a 400 and returns
// false when the value is not deep or light.
func dozeTypeParam(c *gin.Context) (models.DozeType, bool) {
	t, ok := models.ParseDozeType(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errUnknownDozeType})
		return "", false
	}
	return t, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Enter doze mode
// @Description  Unplugs the power source, forces the given idle type and verifies the device reports IDLE. Retried up to the configured number of attempts.
// @Tags         doze
// @Produce      json
// @Param        serial  path  string  true  "Device serial"
// @Param        type    path  string  true  "Doze type"  Enums(deep,light)
// @Success      200  {object}  map[string]interface{}  "status, serial, doze_type, snapshot"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string  "device did not reach IDLE"
// @Failure      502  {object}  map[string]string  "command channel failure"
// @Router       /api/v1/devices/{serial}/doze/{type}/enter [post]
// @Security     BearerAuth
func (h *Handler) enterDoze(c *gin.Context) {
	h.transition(c, models.DirectionEnter)
}

// @Summary      Leave doze mode
// @Description  Resets the power source, disables idle and verifies the device reports ACTIVE.
// @Tags         doze
// @Produce      json
// @Param        serial  path  string  true  "Device serial"
// @Param        type    path  string  true  "Doze type"  Enums(deep,light)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/devices/{serial}/doze/{type}/leave [post]
// @Security     BearerAuth
func (h *Handler) leaveDoze(c *gin.Context) {
	h.transition(c, models.DirectionLeave)
}

func (h *Handler) transition(c *gin.Context, dir models.Direction) {
	t, ok := dozeTypeParam(c)
	if !ok {
		return
	}
	serial := c.Param("serial")
	ctx := c.Request.Context()

	var err error
	if dir == models.DirectionEnter {
		err = h.services.Doze.Enter(ctx, serial, t)
	} else {
		err = h.services.Doze.Leave(ctx, serial, t)
	}
	if err != nil {
		h.respondServiceError(c, "doze_"+string(dir)+"_failed", err, "serial", serial, "doze_type", t, "operator_id", operatorID(c))
		return
	}

	resp := gin.H{"status": dir.Target(), "serial": serial, "doze_type": t}
	// Best-effort: include the stored snapshot.
	if snap, err := h.services.Monitoring.LastSnapshot(ctx, serial); err == nil {
		resp["snapshot"] = snap
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Get doze status
// @Description  Reads both doze types from the device and stores the snapshot.
// @Tags         doze
// @Produce      json
// @Param        serial  path  string  true  "Device serial"
// @Success      200  {object}  models.StatusSnapshot
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/devices/{serial}/doze [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	serial := c.Param("serial")
	snap, err := h.services.Monitoring.GetStatus(c.Request.Context(), serial)
	if err != nil {
		h.respondServiceError(c, "doze_get_status_failed", err, "serial", serial)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Get last doze snapshot
// @Tags         doze
// @Produce      json
// @Param        serial  path  string  true  "Device serial"
// @Success      200  {object}  models.StatusSnapshot
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/devices/{serial}/doze/snapshot [get]
// @Security     BearerAuth
func (h *Handler) getSnapshot(c *gin.Context) {
	serial := c.Param("serial")
	snap, err := h.services.Monitoring.LastSnapshot(c.Request.Context(), serial)
	if err != nil {
		h.respondServiceError(c, "doze_get_snapshot_failed", err, "serial", serial)
		return
	}
	c.JSON(http.StatusOK, snap)
}
