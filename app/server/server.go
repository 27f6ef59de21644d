package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"supportagent/app/agent"
	"supportagent/app/api"
	"supportagent/config"
	"supportagent/index"
	"supportagent/model"
	"supportagent/store"
)

// Server wires config, models, store, index and orchestrator together and
// exposes them over HTTP. Models and the index are constructed once at
// startup and shared read-only between requests.
type Server struct {
	cfg    config.Config
	logger *slog.Logger
	app    *fiber.App
}

func NewServer(cfg config.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (s *Server) Run() error {
	ctx := context.Background()

	storer, err := store.FromConfig(ctx, s.cfg)
	if err != nil {
		return err
	}
	defer storer.Close()

	embedder := model.NewOpenAIEmbedder(s.cfg.EmbeddingBaseURL, s.cfg.EmbeddingAPIKey, s.cfg.EmbeddingModel, s.cfg.RequestTimeout)
	chat := model.NewOpenAIChat(s.cfg.LLMBaseURL, s.cfg.LLMAPIKey, s.cfg.GenerationModel, s.cfg.RequestTimeout)
	classifier := model.NewClassifier(chat, s.cfg.ClassifierTemperature)

	idx := index.New(embedder, storer)
	if err := idx.Load(ctx); err != nil {
		// A missing index is not fatal at startup: the first search
		// retries the load, and the API reports 503 until then.
		s.logger.Warn("vector index not loaded yet", "error", err)
	}

	orchestrator := agent.New(classifier, idx, chat, s.cfg.GenerationTemperature, s.cfg.RetrievalK)

	app := fiber.New(fiber.Config{
		ErrorHandler: api.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	checkHandler := api.NewCheckHandler()
	ticketHandler := api.NewTicketHandler(orchestrator, s.cfg.RequestTimeout)

	app.Get("/health", checkHandler.HandleHealth)
	app.Post("/generate", ticketHandler.HandleGenerate)

	s.app = app
	s.logger.Info("server listening", "addr", s.cfg.ServerAddr)
	return app.Listen(s.cfg.ServerAddr)
}

func (s *Server) Stop() {
	if s.app != nil {
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error("server shutdown", "error", err)
		}
	}
	s.logger.Info("server stopped")
}
