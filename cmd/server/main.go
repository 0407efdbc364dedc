package main

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"time"
	"whoishistory/internal/config"
	"whoishistory/internal/handler"
	"whoishistory/internal/service"
	"whoishistory/internal/storage"
	"whoishistory/internal/utils"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewServer wires the read-only history frontend: Postgres store, optional
// redis cache, templates, and the single page route.
func NewServer(cfg *config.Config) (*echo.Echo, error) {
	store, err := storage.NewStore(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var cache *storage.Cache
	if cfg.CacheEnabled {
		cache = storage.NewCache(cfg.RedisHost, cfg.RedisPort, cfg.CacheTTL)
	}

	h := handler.NewHandler(service.NewHistoryService(store, cache))

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))

	// Templates
	e.Renderer = &utils.TemplateRegistry{
		Templates: template.Must(template.New("").Funcs(template.FuncMap{
			"FormatTime": utils.FormatTime,
		}).ParseGlob("templates/*.html")),
	}

	// Static
	e.Static("/static", "static")

	// Custom HTTP Error Handler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}

		errorData := map[string]interface{}{
			"Code":    code,
			"Message": http.StatusText(code),
		}

		if renderErr := c.Render(code, "error.html", errorData); renderErr != nil {
			c.Logger().Error(renderErr)
		}
	}

	// Routes
	e.GET("/", h.Index)

	return e, nil
}

func main() {
	_ = godotenv.Load()

	utils.InitLogger()
	defer func() { _ = utils.Log.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.Log.Fatal("invalid configuration", utils.Field("error", err.Error()))
	}

	e, err := NewServer(cfg)
	if err != nil {
		utils.Log.Fatal("failed to open database", utils.Field("error", err.Error()))
	}

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
