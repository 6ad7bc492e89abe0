package mockvalidator

import (
	"net/http"
	"strings"
	"time"

	"scan_kiosk/internal/logger"

	"github.com/gin-gonic/gin"
)

const ValidatePath = "/api/v1/orders/validate-qr"

type validateRequest struct {
	QRData string `json:"qr_data" binding:"required"`
}

type Server struct {
	fixtures *Fixtures
	log      *logger.Logger
}

func NewServer(f *Fixtures, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{fixtures: f, log: log}
}

// InitRoutes builds the gin router.
func (s *Server) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.POST(ValidatePath, s.requireToken, s.validate)
	return router
}

func (s *Server) requireToken(c *gin.Context) {
	if s.fixtures.Token == "" {
		c.Next()
		return
	}
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != s.fixtures.Token {
		s.log.Infow("mock_rejected_token", "request_id", c.GetHeader("X-Request-ID"))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
		return
	}
	c.Next()
}

func (s *Server) validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	fx, ok := s.fixtures.Codes[req.QRData]
	s.log.Infow("mock_validate", "request_id", c.GetHeader("X-Request-ID"), "known", ok)

	if !s.wait(c, s.fixtures.Delay+fx.Delay) {
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false, "message": "invalid code"})
		return
	}

	status := fx.Status
	if status == 0 {
		status = http.StatusOK
	}
	if fx.Raw != "" {
		c.Data(status, "application/json", []byte(fx.Raw))
		return
	}
	if fx.Body == nil {
		c.Status(status)
		return
	}
	c.JSON(status, fx.Body)
}

// wait reports false when the caller went away first.
func (s *Server) wait(c *gin.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.Request.Context().Done():
		return false
	}
}
