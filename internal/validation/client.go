// Package validation asks the remote order service whether a scanned code
// may be dispensed and classifies the answer into one of four outcomes.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"scan_kiosk/internal/logger"
	"scan_kiosk/internal/models"
)

// DefaultTimeout bounds one validation round trip.
const DefaultTimeout = 5 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Messages attached to results that carry no server message.
const (
	MessageAccessDenied     = "access denied"
	MessageConnectionFailed = "connection failed"
	MessageInvalidCode      = "invalid code"
)

var (
	errEmptyBody = errors.New("validation: empty response body")
	errNotObject = errors.New("validation: response body is not a JSON object")
)

type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

type Request struct {
	ID    string // sent as X-Request-ID
	Value string
}

// Result is the classified answer. Err is only set for transport failures
// and exists for logging.
type Result struct {
	Outcome models.Outcome
	Order   *models.Order
	Message string
	Status  int
	Err     error
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// Validate never returns an error: every failure is folded into the
// TRANSPORT_FAILURE or UNAUTHORIZED outcome.
func (c *Client) Validate(ctx context.Context, req Request) Result {
	body, err := json.Marshal(map[string]string{"qr_data": req.Value})
	if err != nil {
		return transportFailure(0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return transportFailure(0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return transportFailure(0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return transportFailure(resp.StatusCode, err)
	}

	c.log.Debugw("validation_response",
		"request_id", req.ID,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	return classify(resp.StatusCode, raw)
}

func classify(status int, raw []byte) Result {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return Result{
			Outcome: models.OutcomeUnauthorized,
			Message: MessageAccessDenied,
			Status:  status,
		}
	case status < 200 || status > 299:
		return transportFailure(status, fmt.Errorf("validation: unexpected status %d", status))
	}

	p, err := parseResponse(raw)
	if err != nil {
		return transportFailure(status, err)
	}

	if !p.Valid {
		msg := p.Message
		if msg == "" {
			msg = MessageInvalidCode
		}
		return Result{
			Outcome: models.OutcomeRejected,
			Message: msg,
			Status:  status,
		}
	}

	order := p.Order
	if order == nil {
		order = &models.Order{Items: []models.OrderItem{}}
	}
	return Result{
		Outcome: models.OutcomeAccepted,
		Order:   order,
		Message: p.Message,
		Status:  status,
	}
}

func transportFailure(status int, err error) Result {
	return Result{
		Outcome: models.OutcomeTransportFailure,
		Message: MessageConnectionFailed,
		Status:  status,
		Err:     err,
	}
}
