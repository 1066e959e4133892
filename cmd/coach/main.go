package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tahcohcat/coach-pro/config"
	"github.com/tahcohcat/coach-pro/internal/api"
	"github.com/tahcohcat/coach-pro/internal/coach"
	"github.com/tahcohcat/coach-pro/internal/database"
	"github.com/tahcohcat/coach-pro/internal/llm"
	"github.com/tahcohcat/coach-pro/internal/logger"
	"github.com/tahcohcat/coach-pro/internal/scheduler"
	"github.com/tahcohcat/coach-pro/internal/services"
	"github.com/tahcohcat/coach-pro/internal/transport"
	"github.com/tahcohcat/coach-pro/internal/transport/telegram"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("Failed to load config")
		os.Exit(1)
	}

	loc := time.Local
	if cfg.Coach.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Coach.Timezone)
		if err != nil {
			log.WithError(err).Errorf("Invalid timezone %q", cfg.Coach.Timezone)
			os.Exit(1)
		}
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.WithError(err).Error("Failed to open database")
		os.Exit(1)
	}
	defer db.Close()
	log.Infof("Database ready at %s", cfg.Database.Path)

	userService := services.NewUserService(db)
	ledgerService := services.NewLedgerService(db)
	gamificationService := services.NewGamificationService(db, ledgerService, loc)
	conversationService := services.NewConversationService(db)

	ai, err := llm.NewLLMClient(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to create AI client")
		os.Exit(1)
	}
	if ai != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := ai.IsModelAvailable(ctx); err != nil {
			log.WithError(err).Warnf("AI model not reachable (provider %s), canned replies only until it recovers", cfg.LLM.Provider)
		} else {
			log.Infof("AI coach ready (provider %s)", cfg.LLM.Provider)
		}
		cancel()
	} else {
		log.Info("AI coach disabled, using canned replies")
	}

	coachEngine := coach.New(userService, ledgerService, gamificationService, conversationService, ai)

	var bot *telegram.Bot
	if cfg.Telegram.Enabled && cfg.Telegram.Token != "" {
		bot, err = telegram.New(cfg.Telegram.Token, coachEngine)
		if err != nil {
			log.WithError(err).Error("Failed to start telegram bot")
			os.Exit(1)
		}
		coachEngine.AddTransport(bot)
		bot.Start()
	} else {
		log.Warn("Telegram transport disabled")
	}

	hub := transport.NewWSHub(coachEngine)
	coachEngine.AddTransport(hub)
	go hub.Run()

	runner := scheduler.NewRunner(userService, ledgerService, coachEngine, cfg.Scheduler, loc)
	if err := runner.Start(); err != nil {
		log.WithError(err).Error("Failed to start outreach scheduler")
		os.Exit(1)
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", api.HealthHandler).Methods("GET")
	r.HandleFunc("/ws", hub.HandleWS)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	api.RegisterRoutes(apiRouter, userService, ledgerService, gamificationService)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: c.Handler(r),
	}

	go func() {
		log.Infof("Coach server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if bot != nil {
		bot.Stop()
	}
	runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("HTTP shutdown incomplete")
	}
}
