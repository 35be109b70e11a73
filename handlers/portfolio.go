package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stocks-simulator/apperr"
	"stocks-simulator/middleware"
)

// userID returns the logged-in user, rendering an apology when the route was
// reached without the login guard.
func (h *Handler) userID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		h.apology(c, apperr.Unauthorized("login required"))
	}
	return id, ok
}

// Index shows the user's holdings valued at current prices.
func (h *Handler) Index(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	p, err := h.trading.Portfolio(c.Request.Context(), userID)
	if err != nil {
		h.apology(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", "Portfolio", gin.H{"Portfolio": p})
}

func (h *Handler) BuyForm(c *gin.Context) {
	h.render(c, http.StatusOK, "buy.html", "Buy", nil)
}

func (h *Handler) Buy(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var form tradeForm
	if err := bind(c, &form); err != nil {
		h.apology(c, err)
		return
	}
	if _, err := h.trading.Buy(c.Request.Context(), userID, form.Symbol, form.Shares); err != nil {
		h.apology(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// SellForm lists only the symbols the user currently holds.
func (h *Handler) SellForm(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	symbols, err := h.trading.HeldSymbols(c.Request.Context(), userID)
	if err != nil {
		h.apology(c, err)
		return
	}
	h.render(c, http.StatusOK, "sell.html", "Sell", gin.H{"Symbols": symbols})
}

func (h *Handler) Sell(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var form tradeForm
	if err := bind(c, &form); err != nil {
		h.apology(c, err)
		return
	}
	if _, err := h.trading.Sell(c.Request.Context(), userID, form.Symbol, form.Shares); err != nil {
		h.apology(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) History(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	entries, err := h.trading.History(c.Request.Context(), userID)
	if err != nil {
		h.apology(c, err)
		return
	}
	h.render(c, http.StatusOK, "history.html", "History", gin.H{"History": entries})
}
