package handlers

import (
	"net/http"

	"scan_kiosk/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK       = "ok"
	statusQueued   = "queued"
	statusLampTest = "lamp_set"

	errGetStatus       = "failed to load status"
	errInjectScan      = "failed to queue scan"
	errLampTest        = "failed to record lamp test"
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

// ScanRequest is the body of POST /api/v1/kiosk/scan.
type ScanRequest struct {
	// Raw code as the scanner would deliver it
	Value string `json:"value" binding:"required" example:"QR-123"`
}

// LampRequest is the body of POST /api/v1/kiosk/lamp.
type LampRequest struct {
	// IDLE, SOLID or BLINK
	Mode string `json:"mode" binding:"required" example:"BLINK"`
	// "#rrggbb", required for SOLID and BLINK
	Color string `json:"color,omitempty" example:"#ff0000"`
	// SOLID: 0 holds until replaced. BLINK: must be positive
	Seconds int `json:"seconds,omitempty" example:"3"`
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

// @Summary      Kiosk status
// @Description  Light, screen, dedup table size and outcome counters
// @Tags         kiosk
// @Produce      json
// @Success      200  {object}  models.KioskStatus
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/kiosk/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "kiosk_get_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Inject scan
// @Description  Feeds a code through the normal scan path, dedup included
// @Tags         kiosk
// @Accept       json
// @Produce      json
// @Param        body  body   ScanRequest  true  "Scan payload"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/kiosk/scan [post]
// @Security     BearerAuth
func (h *Handler) injectScan(c *gin.Context) {
	var req ScanRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	err := h.services.Control.InjectScan(c.Request.Context(), req.Value)
	switch {
	case err == nil:
		if h.log != nil {
			h.log.Infow("kiosk_scan_injected", "operator", operatorID(c))
		}
		c.JSON(http.StatusAccepted, gin.H{"status": statusQueued})
	case service.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusServiceUnavailable, errInjectScan, "kiosk_inject_scan_unavailable", err)
	}
}

// @Summary      Lamp test
// @Tags         kiosk
// @Accept       json
// @Produce      json
// @Param        body  body   LampRequest  true  "Lamp payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/kiosk/lamp [post]
// @Security     BearerAuth
func (h *Handler) lampTest(c *gin.Context) {
	var req LampRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	err := h.services.Control.LampTest(c.Request.Context(), service.LampParams{
		Mode:    req.Mode,
		Color:   req.Color,
		Seconds: req.Seconds,
	})
	switch {
	case err == nil:
	case service.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		// the light already changed; only the journal write failed
		h.logAndJSONError(c, http.StatusInternalServerError, errLampTest, "kiosk_lamp_test_journal_failed", err, "mode", req.Mode)
		return
	}
	if h.log != nil {
		h.log.Infow("kiosk_lamp_test", "operator", operatorID(c), "mode", req.Mode)
	}
	c.JSON(http.StatusOK, gin.H{"status": statusLampTest, "mode": req.Mode})
}
