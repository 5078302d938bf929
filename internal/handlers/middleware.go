package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "Bearer"
	operatorCtxKey      = "operatorId"
	accessTokenQuery    = "access_token"
)

// requireOperator rejects requests without a valid bearer token and stores the
// operator id in the gin context.
func (h *Handler) requireOperator(c *gin.Context) { h.authenticate(c, false) }

// requireStreamOperator is requireOperator for the WebSocket handshake, where
// browsers cannot set headers: the token may also come as ?access_token=.
func (h *Handler) requireStreamOperator(c *gin.Context) { h.authenticate(c, true) }

func (h *Handler) authenticate(c *gin.Context, allowQuery bool) {
	token, msg := bearerToken(c, allowQuery)
	if msg != "" {
		h.rejectAuth(c, msg, nil)
		return
	}

	id, err := h.services.ParseToken(token)
	if err != nil {
		h.rejectAuth(c, "invalid or expired token", err)
		return
	}

	c.Set(operatorCtxKey, id)
	c.Next()
}

// bearerToken returns the token, or a rejection message when there is none.
func bearerToken(c *gin.Context, allowQuery bool) (string, string) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		if t := strings.TrimSpace(c.Query(accessTokenQuery)); allowQuery && t != "" {
			return t, ""
		}
		return "", "missing Authorization header"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerScheme || strings.TrimSpace(parts[1]) == "" {
		return "", "invalid Authorization header format"
	}
	return parts[1], ""
}

func (h *Handler) rejectAuth(c *gin.Context, msg string, err error) {
	if h.log != nil {
		h.log.Debugw("auth_rejected", "path", c.FullPath(), "reason", msg, "err", err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// operatorID returns the id set by requireOperator, or 0 on public routes.
func operatorID(c *gin.Context) int {
	v, ok := c.Get(operatorCtxKey)
	if !ok {
		return 0
	}
	id, _ := v.(int)
	return id
}

// requestLogger writes one structured line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"operator_id", operatorID(c),
	)
}
