package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stocks-simulator/apperr"
	"stocks-simulator/trading"
)

// LoginForm forgets any current user and shows the login page.
func (h *Handler) LoginForm(c *gin.Context) {
	h.endSession(c)
	h.render(c, http.StatusOK, "login.html", "Log In", nil)
}

func (h *Handler) Login(c *gin.Context) {
	h.endSession(c)

	var form loginForm
	if err := bind(c, &form); err != nil {
		h.apology(c, err)
		return
	}
	user, err := h.trading.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		h.apology(c, err)
		return
	}
	if err := h.sessions.Begin(c, user.ID); err != nil {
		h.logger.Error("begin session", zap.Uint("user_id", user.ID), zap.Error(err))
		h.apology(c, apperr.InternalErr(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	h.endSession(c)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", "Register", nil)
}

func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if err := bind(c, &form); err != nil {
		h.apology(c, err)
		return
	}
	user, err := h.trading.Register(c.Request.Context(), trading.RegisterInput{
		Username:     form.Username,
		Password:     form.Password,
		Confirmation: form.Confirmation,
	})
	if err != nil {
		h.apology(c, err)
		return
	}
	h.render(c, http.StatusOK, "registered.html", "Registered", gin.H{"Username": user.Username})
}

func (h *Handler) endSession(c *gin.Context) {
	if err := h.sessions.End(c); err != nil {
		h.logger.Warn("end session", zap.Error(err))
	}
}
