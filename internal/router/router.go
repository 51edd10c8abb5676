package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"gemini-chat/internal/handlers"
	"gemini-chat/internal/middleware"
)

func New(chatHandler *handlers.ChatHandler, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)

	// Health check
	r.Get("/health", handlers.Health)

	// ──── Chat ────
	r.Get("/", chatHandler.Page)
	r.Post("/", chatHandler.Ask)

	return r
}
