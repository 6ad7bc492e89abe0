package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"scan_kiosk/internal/feedback"
	"scan_kiosk/internal/models"
	"scan_kiosk/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockControl struct {
	injectErr   error
	lampErr     error
	lastScan    string
	lastLamp    service.LampParams
	injectCalls int
	lampCalls   int
}

func (m *mockControl) InjectScan(_ context.Context, value string) error {
	m.injectCalls++
	m.lastScan = value
	return m.injectErr
}
func (m *mockControl) LampTest(_ context.Context, p service.LampParams) error {
	m.lampCalls++
	m.lastLamp = p
	return m.lampErr
}

type mockMonitoring struct {
	status models.KioskStatus
	err    error
}

func (m *mockMonitoring) GetStatus(context.Context) (models.KioskStatus, error) {
	return m.status, m.err
}

type mockEventLog struct {
	resp     []models.KioskEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.KioskEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// recordingLight satisfies service.Light and counts commands.
type recordingLight struct {
	calls int
}

func (l *recordingLight) Current() feedback.Command { return feedback.Command{} }
func (l *recordingLight) LastColor() feedback.Color { return feedback.Off }
func (l *recordingLight) SetIdle() { l.calls++ }
func (l *recordingLight) SetSolid(feedback.Color, time.Duration) { l.calls++ }
func (l *recordingLight) SetBlink(feedback.Color, time.Duration) { l.calls++ }

// mockScreens hands out one subscription channel the test can push into.
type mockScreens struct {
	mu     sync.Mutex
	ch     chan models.ScreenSnapshot
	closed bool
	subbed chan struct{}
}

func newMockScreens() *mockScreens {
	return &mockScreens{ch: make(chan models.ScreenSnapshot, 4), subbed: make(chan struct{})}
}

func (m *mockScreens) Subscribe() (<-chan models.ScreenSnapshot, func()) {
	close(m.subbed)
	return m.ch, func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()
	}
}

func (m *mockScreens) unsubscribed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
