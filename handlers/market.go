package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) QuoteForm(c *gin.Context) {
	h.render(c, http.StatusOK, "quote.html", "Quote", nil)
}

// Quote looks up the posted symbol and shows its current price.
func (h *Handler) Quote(c *gin.Context) {
	var form quoteForm
	if err := bind(c, &form); err != nil {
		h.apology(c, err)
		return
	}
	q, err := h.trading.Quote(c.Request.Context(), form.Symbol)
	if err != nil {
		h.apology(c, err)
		return
	}
	h.render(c, http.StatusOK, "quoted.html", "Quoted", gin.H{"Quote": q})
}
