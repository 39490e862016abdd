package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/careeradvisor/internal/advisor"
	"github.com/muhammadolammi/careeradvisor/internal/config"
	"github.com/muhammadolammi/careeradvisor/internal/conversation"
	"github.com/muhammadolammi/careeradvisor/internal/database"
	"github.com/muhammadolammi/careeradvisor/internal/events"
	"github.com/muhammadolammi/careeradvisor/internal/hub"
	"github.com/muhammadolammi/careeradvisor/internal/logger"
	"github.com/muhammadolammi/careeradvisor/internal/report"
	"github.com/muhammadolammi/careeradvisor/internal/server"
	"github.com/muhammadolammi/careeradvisor/internal/shell"
	"github.com/muhammadolammi/careeradvisor/internal/speech"
	"github.com/muhammadolammi/careeradvisor/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatal("error creating logger. err: ", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		lg.Fatal("error opening db", "error", err)
	}
	defer db.Close()
	dbqueries := database.New(db)

	attachments, err := storage.NewR2(ctx, cfg.R2)
	if err != nil {
		lg.Fatal("error creating r2 client", "error", err)
	}

	svc, err := advisor.New(ctx, advisor.Options{
		Mode:   cfg.AdvisorMode,
		APIKey: cfg.GoogleApiKey,
		Gemini: advisor.GeminiConfig{
			FastModel:    cfg.FastModel,
			ProModel:     cfg.ProModel,
			TTSModel:     cfg.TTSModel,
			Voice:        cfg.TTSVoice,
			Language:     cfg.ResponseLanguage,
			MaxQuestions: cfg.MaxQuestions,
		},
		Timeout: cfg.RequestTimeout,
	}, lg)
	if err != nil {
		lg.Fatal("failed to create advisory client", "error", err)
	}

	phrases := speech.NewPhraseCache(0)
	go speech.Warm(ctx, svc, phrases, conversation.Encouragements, lg)

	conn, err := amqp.Dial(cfg.RabbitMQUrl)
	if err != nil {
		lg.Fatal("error connecting to RabbitMQ", "error", err)
	}
	defer conn.Close()

	sessionUpdates, err := events.NewAMQP(conn)
	if err != nil {
		lg.Fatal("error setting up session updates", "error", err)
	}
	connectionHub := hub.New(lg)
	go connectionHub.Run(ctx)
	publisher := events.Multi{connectionHub, sessionUpdates}

	submissions := report.NewDBStore(dbqueries)
	queue, err := report.NewAMQPQueue(conn)
	if err != nil {
		lg.Fatal("error setting up report queue", "error", err)
	}

	registry := shell.NewRegistry(cfg.SessionTTL, svc, shell.Deps{
		Publisher: publisher,
		Recorder:  shell.NewDBRecorder(db),
		Phrases:   phrases,
		Log:       lg,
	})

	workerConfig := WorkerConfig{
		RabbitConn: conn,
		Reports:    report.NewWorker(submissions, publisher, cfg.ReportWebhookURL, lg),
		Log:        lg,
	}
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		workerConfig.StartConsumerWorkerPool(ctx, cfg.ReportWorkers)
	}()

	e := server.New(server.NewHandler(server.Deps{
		Sessions:    registry,
		Advisor:     svc,
		Reports:     report.NewDispatcher(submissions, queue, lg),
		Attachments: attachments,
		Stream:      connectionHub.Handler(registry.Exists),
		Log:         lg,
	}))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		lg.Info("http server started", "addr", addr, "advisor_mode", cfg.AdvisorMode)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("failed to start http server", "error", err)
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("failed to shutdown http server gracefully", "error", err)
	}
	<-workersDone
	lg.Info("stopped")
}
