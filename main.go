package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/ForeO4/teeth/cache"
	"github.com/ForeO4/teeth/config"
	"github.com/ForeO4/teeth/db"
	"github.com/ForeO4/teeth/handlers"
	applog "github.com/ForeO4/teeth/logger"
	mw "github.com/ForeO4/teeth/middleware"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	rdb := cache.New(cfg.RedisAddr)
	if rdb != nil {
		defer rdb.Close()
	}

	h := handlers.New(bdb, rdb, cfg.JWTKey())

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.POST("/api/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(cfg.JWTKey()))
	api.GET("/players", h.SearchPlayers)
	api.GET("/events", h.Events)
	api.POST("/events", h.CreateEvent)
	api.GET("/events/:id/roster", h.Roster)
	api.POST("/events/:id/roster", h.SaveRoster)
	api.GET("/events/:id/ledger", h.EventLedger)
	api.GET("/events/:id/settlements", h.EventSettlements)
	api.GET("/events/:id/press-policy", h.GetPressPolicy)
	api.PUT("/events/:id/press-policy", h.PutPressPolicy)
	api.POST("/rounds", h.CreateRound)
	api.GET("/scores", h.GetScorecard)
	api.POST("/scores", h.UpsertScore)
	api.GET("/games", h.Games)
	api.POST("/games", h.CreateGame)
	api.GET("/games/:id", h.GameState)
	api.POST("/games/:id/press", h.CreatePress)
	api.POST("/games/:id/settle", h.Settle)
	api.PUT("/settlements/:id/paid", h.MarkSettlementPaid)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
