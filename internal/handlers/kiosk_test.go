package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"scan_kiosk/internal/models"
	"scan_kiosk/internal/service"
)

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
}

func TestKioskHandlers_Status(t *testing.T) {
	mon := &mockMonitoring{status: models.KioskStatus{
		KioskID:      "kiosk-1",
		Light:        models.LightSnapshot{Mode: "SOLID", Color: "#00ff00", Shown: "#00ff00"},
		Screen:       models.ScreenSnapshot{Kind: "success", Title: "Please take your items"},
		Stats:        models.KioskStats{ID: 1, Accepted: 3},
		DedupEntries: 2,
	}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Monitoring: mon})

	w := doJSON(t, r, http.MethodGet, "/api/v1/kiosk/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var got models.KioskStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.KioskID != "kiosk-1" || got.Light.Mode != "SOLID" || got.Stats.Accepted != 3 || got.DedupEntries != 2 {
		t.Fatalf("unexpected status: %+v", got)
	}

	mon.err = errors.New("db down")
	w = doJSON(t, r, http.MethodGet, "/api/v1/kiosk/status", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on repo error, got %d", w.Code)
	}
}

func TestKioskHandlers_RequireToken(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Control: &mockControl{}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/kiosk/scan", bytes.NewBufferString(`{"value":"QR"}`)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestKioskHandlers_InjectScan(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		injectErr error
		want      int
		wantCalls int
	}{
		{name: "queued", body: `{"value":"QR-1"}`, want: http.StatusAccepted, wantCalls: 1},
		{name: "missing value", body: `{}`, want: http.StatusBadRequest},
		{name: "source busy", body: `{"value":"QR-1"}`, injectErr: errors.New("scanner: source busy"), want: http.StatusServiceUnavailable, wantCalls: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctl := &mockControl{injectErr: tc.injectErr}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Control: ctl})

			w := doJSON(t, r, http.MethodPost, "/api/v1/kiosk/scan", tc.body)
			if w.Code != tc.want {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.want, w.Body.String())
			}
			if ctl.injectCalls != tc.wantCalls {
				t.Fatalf("InjectScan calls=%d, want %d", ctl.injectCalls, tc.wantCalls)
			}
			if tc.wantCalls > 0 && ctl.lastScan != "QR-1" {
				t.Fatalf("InjectScan got %q", ctl.lastScan)
			}
		})
	}
}

func TestKioskHandlers_InjectScan_BlankValueFromService(t *testing.T) {
	// a whitespace value passes binding and is rejected by the real control service
	svc := service.NewControlService(nil, nil, nil)
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Control: svc})

	w := doJSON(t, r, http.MethodPost, "/api/v1/kiosk/scan", `{"value":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank value, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestKioskHandlers_LampTest(t *testing.T) {
	ctl := &mockControl{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Control: ctl})

	w := doJSON(t, r, http.MethodPost, "/api/v1/kiosk/lamp", `{"mode":"BLINK","color":"#ff0000","seconds":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if ctl.lampCalls != 1 {
		t.Fatalf("LampTest calls=%d", ctl.lampCalls)
	}
	if ctl.lastLamp.Mode != "BLINK" || ctl.lastLamp.Color != "#ff0000" || ctl.lastLamp.Seconds != 3 {
		t.Fatalf("unexpected params: %+v", ctl.lastLamp)
	}

	ctl.lampErr = errors.New("journal locked")
	w = doJSON(t, r, http.MethodPost, "/api/v1/kiosk/lamp", `{"mode":"IDLE"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on journal error, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/kiosk/lamp", `{"color":"#ff0000"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when mode missing, got %d", w.Code)
	}
}

func TestKioskHandlers_LampTest_InvalidParams(t *testing.T) {
	light := &recordingLight{}
	svc := service.NewControlService(light, nil, nil)
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Control: svc})

	for _, body := range []string{
		`{"mode":"HEAT"}`,
		`{"mode":"SOLID","color":"green"}`,
		`{"mode":"BLINK","color":"#ff0000"}`,
	} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/kiosk/lamp", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
	if light.calls != 0 {
		t.Fatalf("light changed on invalid input")
	}
}
