package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"scan_kiosk/internal/service"

	"github.com/gin-gonic/gin"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "", wantErr: errMissingToken},
		{header: "Bearer", wantErr: errMalformedToken},
		{header: "Bearer    ", wantErr: errMalformedToken},
		{header: "Basic b3A6cHc=", wantErr: errMalformedToken},
		{header: "Bearer abc.def", want: "abc.def"},
		{header: "bearer abc.def", want: "abc.def"},
		{header: "Bearer  padded ", want: "padded"},
	}
	for _, tc := range cases {
		got, err := bearerToken(tc.header)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%q: err = %v, want %v", tc.header, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("%q: token = %q, want %q", tc.header, got, tc.want)
		}
	}
}

// operatorEcho serves one protected route that echoes the operator ID.
func operatorEcho(auth *mockAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(&service.Service{Authorization: auth}, nil, nil)
	r := gin.New()
	r.GET("/kiosk-only", h.requireOperator, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": operatorID(c)})
	})
	return r
}

func TestRequireOperator_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		wantMsg  string
		parsed   bool
	}{
		{name: "no header", wantMsg: errNoOperatorToken},
		{name: "basic auth", header: "Basic b3A6cHc=", wantMsg: errBadBearer},
		{name: "empty bearer", header: "Bearer ", wantMsg: errBadBearer},
		{name: "token refused", header: "Bearer stale", parseErr: errors.New("token is expired"), wantMsg: errOperatorSession, parsed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseErr: tc.parseErr}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/kiosk-only", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			operatorEcho(auth).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401 (body=%s)", w.Code, w.Body.String())
			}
			if got := w.Header().Get("WWW-Authenticate"); got == "" {
				t.Fatalf("missing WWW-Authenticate challenge")
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantMsg {
				t.Fatalf("error = %q, want %q", out.Error, tc.wantMsg)
			}
			if parsed := auth.lastParseToken != ""; parsed != tc.parsed {
				t.Fatalf("ParseToken called = %v, want %v", parsed, tc.parsed)
			}
		})
	}
}

func TestRequireOperator_PassesOperatorID(t *testing.T) {
	auth := &mockAuth{parseID: 42}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/kiosk-only", nil)
	req.Header.Set("Authorization", "bearer shift-token")
	operatorEcho(auth).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", w.Code, w.Body.String())
	}
	var out struct {
		Operator int `json:"operator"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Operator != 42 {
		t.Fatalf("operator = %d, want 42", out.Operator)
	}
	if auth.lastParseToken != "shift-token" {
		t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, "shift-token")
	}
}
