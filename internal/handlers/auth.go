package handlers

import (
	"errors"
	"net/http"

	"controlling_doze/internal/service"

	"github.com/gin-gonic/gin"
)

// operatorCredentials is the body of sign-up and sign-in.
type operatorCredentials struct {
	Username string `json:"username" binding:"required" example:"lab-operator"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

// bindBody decodes the JSON body into dst, writing a 400 on failure.
func (h *Handler) bindBody(c *gin.Context, dst any, logKey string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow(logKey, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Sign up
// @Description  Creates an operator account for the doze API.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  operatorCredentials  true  "Credentials"
// @Success      200  {object}  map[string]int
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var in operatorCredentials
	if !h.bindBody(c, &in, "auth_bad_request_body") {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), in.Username, in.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"id": id})
	case errors.Is(err, service.ErrUsernameTaken):
		h.logAndJSONError(c, http.StatusConflict, err.Error(), "auth_sign_up_failed", err, "username", in.Username)
	default:
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "auth_sign_up_failed", err, "username", in.Username)
	}
}

// @Summary      Sign in
// @Description  Exchanges operator credentials for a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  operatorCredentials  true  "Credentials"
// @Success      200  {object}  map[string]string  "token"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var in operatorCredentials
	if !h.bindBody(c, &in, "auth_bad_request_body") {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		h.logAndJSONError(c, http.StatusUnauthorized, "invalid credentials", "auth_sign_in_failed", err, "username", in.Username)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
