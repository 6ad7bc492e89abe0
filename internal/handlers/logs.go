package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"scan_kiosk/internal/models"
	"scan_kiosk/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	maxLogLimit = 1000
)

// logsQuery is the query string of GET /api/v1/logs/.
type logsQuery struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Type  string `form:"type"`
	Limit int    `form:"limit"`
}

// filter converts the raw query into a service filter. A date-only 'to' is
// the end of that day, inclusive.
func (q logsQuery) filter() (service.LogFilter, error) {
	var f service.LogFilter
	if q.From != "" {
		t, err := parseQueryTime(q.From)
		if err != nil {
			return f, fmt.Errorf("invalid 'from': %w", err)
		}
		f.From = t
	}
	if q.To != "" {
		t, err := parseQueryTime(q.To)
		if err != nil {
			return f, fmt.Errorf("invalid 'to': %w", err)
		}
		if !strings.ContainsAny(q.To, "T ") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, fmt.Errorf("'from' must be <= 'to'")
	}
	if q.Limit < 0 || q.Limit > maxLogLimit {
		return f, fmt.Errorf("invalid 'limit': want 0..%d", maxLogLimit)
	}
	f.Type = strings.ToUpper(strings.TrimSpace(q.Type))
	return f, nil
}

// @Summary      List maintenance log
// @Description  Events oldest first. 'from'/'to' accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers the whole day. 'limit' keeps the newest N.
// @Tags         logs
// @Produce      json
// @Param        from   query   string  false  "Start of range"  example(2025-08-01)
// @Param        to     query   string  false  "End of range"    example(2025-08-31)
// @Param        type   query   string  false  "Event type"  Enums(START,STOP,LAMP_TEST,SINK_FAULT,SINK_RECOVERED,AUTH_REJECTED)
// @Param        limit  query   int     false  "Newest N events, 0 for all"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	var q logsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	switch {
	case service.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load logs", "logs_list_failed", err,
			"from", f.From, "to", f.To, "type", f.Type)
		return
	}

	events = newest(events, q.Limit)
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func newest(events []models.KioskEvent, n int) []models.KioskEvent {
	if events == nil {
		return []models.KioskEvent{}
	}
	if n <= 0 || len(events) <= n {
		return events
	}
	return events[len(events)-n:]
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
