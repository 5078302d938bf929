package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"controlling_doze/internal/models"
	"controlling_doze/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

var queryTimeLayouts = []string{time.RFC3339, layoutDateTime, layoutDate}

var (
	errRangeInverted = errors.New("'from' must be <= 'to'")
	errLimitInvalid  = errors.New("'limit' must be a non-negative integer")
)

// queryTime parses the optional query parameter key. A date-only upper bound
// covers the whole day.
func queryTime(c *gin.Context, key string, endOfDay bool) (time.Time, error) {
	qs := strings.TrimSpace(c.Query(key))
	if qs == "" {
		return time.Time{}, nil
	}
	for _, layout := range queryTimeLayouts {
		t, err := time.Parse(layout, qs)
		if err != nil {
			continue
		}
		if endOfDay && layout == layoutDate {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid '%s' time; use RFC3339 or YYYY-MM-DD", key)
}

// logFilterFromQuery builds the event filter from the query string.
func logFilterFromQuery(c *gin.Context) (service.LogFilter, error) {
	from, err := queryTime(c, "from", false)
	if err != nil {
		return service.LogFilter{}, err
	}
	to, err := queryTime(c, "to", true)
	if err != nil {
		return service.LogFilter{}, err
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return service.LogFilter{}, errRangeInverted
	}
	limit := 0
	if qs := c.Query("limit"); qs != "" {
		if limit, err = strconv.Atoi(qs); err != nil || limit < 0 {
			return service.LogFilter{}, errLimitInvalid
		}
	}
	return service.LogFilter{
		From:     from,
		To:       to,
		Type:     strings.ToUpper(strings.TrimSpace(c.Query("type"))),
		Serial:   strings.TrimSpace(c.Query("serial")),
		DozeType: models.DozeType(strings.TrimSpace(c.Query("doze_type"))),
		Limit:    limit,
	}, nil
}

// @Summary      List doze events
// @Description  Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' is inclusive of the whole day.
// @Tags         logs
// @Produce      json
// @Param        from       query  string  false  "Start of range"  example(2025-08-01)
// @Param        to         query  string  false  "End of range"    example(2025-08-31)
// @Param        type       query  string  false  "Event type"  Enums(ENTER,LEAVE,VERIFY_FAILED,TRANSPORT_ERROR)
// @Param        serial     query  string  false  "Device serial"
// @Param        doze_type  query  string  false  "Doze type"  Enums(DEEP,LIGHT)
// @Param        limit      query  int     false  "Newest N events (max 1000)"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	f, err := logFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.respondServiceError(c, "logs_list_failed", err,
			"from", f.From, "to", f.To, "type", f.Type, "serial", f.Serial)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
