package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"stocks-simulator/apperr"
)

// apology renders the error page for err with the status its kind maps to.
func (h *Handler) apology(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	h.render(c, status, "apology.html", "Apology", gin.H{
		"Code":    status,
		"Message": apperr.Message(err),
	})
}

func (h *Handler) notFound(c *gin.Context) {
	h.apology(c, apperr.Missing(http.StatusText(http.StatusNotFound)))
}

func (h *Handler) methodNotAllowed(c *gin.Context) {
	h.apology(c, apperr.NotAllowed(http.StatusText(http.StatusMethodNotAllowed)))
}

func (h *Handler) recovered(c *gin.Context, rec any) {
	h.logger.Error("panic recovered", zap.Any("panic", rec), zap.String("path", c.Request.URL.Path))
	h.apology(c, apperr.InternalErr(errors.New("panic")))
	c.Abort()
}

// field.tag -> message shown when form binding fails
var bindMessages = map[string]string{
	"Username.required":     "must provide username",
	"Password.required":     "must provide password",
	"Confirmation.required": "must confirm password",
	"Confirmation.eqfield":  "passwords don't match",
	"Symbol.required":       "missing symbol",
	"Shares.required":       "missing shares",
	"Shares.min":            "shares must be a positive integer",
}

// bind decodes the posted form into dst and translates binding failures into
// validation errors.
func bind(c *gin.Context, dst any) error {
	err := c.ShouldBind(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := bindMessages[fe.Field()+"."+fe.Tag()]; ok {
			return apperr.Wrap(apperr.Validation, msg, err)
		}
		return apperr.Wrap(apperr.Validation, "invalid "+fe.Field(), err)
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return apperr.Wrap(apperr.Validation, "shares must be a positive integer", err)
	}
	return apperr.Wrap(apperr.Validation, "invalid form", err)
}
