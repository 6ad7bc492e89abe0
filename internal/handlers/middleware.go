package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const operatorCtx = "operatorId"

const (
	errNoOperatorToken = "operator token required"
	errBadBearer       = "authorization must be: Bearer <token>"
	errOperatorSession = "operator session invalid or expired"
)

var (
	errMissingToken   = errors.New(errNoOperatorToken)
	errMalformedToken = errors.New(errBadBearer)
)

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errMalformedToken
	}
	return token, nil
}

// requireOperator admits requests carrying a valid operator JWT and stores
// the operator ID under operatorCtx.
func (h *Handler) requireOperator(c *gin.Context) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		h.rejectOperator(c, err.Error())
		return
	}

	operatorID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("operator_token_rejected", "err", err, "path", c.FullPath())
		}
		h.rejectOperator(c, errOperatorSession)
		return
	}

	c.Set(operatorCtx, operatorID)
	c.Next()
}

func (h *Handler) rejectOperator(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="kiosk"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// operatorID returns the ID set by requireOperator, or 0 outside the
// protected group.
func operatorID(c *gin.Context) int {
	return c.GetInt(operatorCtx)
}
