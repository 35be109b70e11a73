// Package handlers serves the HTML pages of the simulator.
package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stocks-simulator/config"
	"stocks-simulator/middleware"
	"stocks-simulator/session"
	"stocks-simulator/trading"
	"stocks-simulator/web"
)

type Handler struct {
	trading  *trading.Service
	sessions *session.Manager
	logger   *zap.Logger
	db       *gorm.DB
	rdb      *redis.Client
}

func New(app *config.App) *Handler {
	return &Handler{
		trading:  app.Trading,
		sessions: app.Sessions,
		logger:   app.Logger,
		db:       app.DB,
		rdb:      app.Redis,
	}
}

// NewRouter builds the gin engine with every route and middleware attached.
func NewRouter(app *config.App) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	h := New(app)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.Logger(app.Logger),
		gin.CustomRecoveryWithWriter(io.Discard, h.recovered),
		middleware.NoCache(),
		middleware.Metrics(app.Metrics),
	)
	r.NoRoute(h.notFound)
	r.NoMethod(h.methodNotAllowed)

	r.GET("/health", h.Health)
	if app.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})))
	}

	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)

	authed := r.Group("/")
	authed.Use(middleware.RequireLogin(app.Sessions, app.Logger))
	{
		authed.GET("/", h.Index)
		authed.GET("/buy", h.BuyForm)
		authed.POST("/buy", h.Buy)
		authed.GET("/sell", h.SellForm)
		authed.POST("/sell", h.Sell)
		authed.GET("/quote", h.QuoteForm)
		authed.POST("/quote", h.Quote)
		authed.GET("/history", h.History)
	}
	return r, nil
}

// render executes a page template with the layout fields filled in.
func (h *Handler) render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	_, loggedIn := middleware.UserID(c)
	data["Title"] = title
	data["LoggedIn"] = loggedIn
	c.HTML(status, page, data)
}

// Health reports whether the backing services answer.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	if h.db != nil {
		checks["database"] = "ok"
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			h.logger.Warn("health: database", zap.Error(err))
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.rdb != nil {
		checks["redis"] = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.logger.Warn("health: redis", zap.Error(err))
			checks["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}
