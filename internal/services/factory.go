package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"gemini-chat/internal/config"
)

// NewGenerator builds the generator selected by cfg.GeminiBackend.
func NewGenerator(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (Generator, error) {
	gc := GeminiConfig{
		APIKey:      cfg.GeminiAPIKey,
		BaseURL:     cfg.GeminiBaseURL,
		Model:       cfg.GeminiModel,
		ServiceName: cfg.GeminiServiceName,
	}

	switch cfg.GeminiBackend {
	case config.BackendREST, "":
		svc, err := NewGeminiService(gc, log)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.BackendSDK:
		svc, err := NewGeminiSDKService(ctx, gc, log)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown gemini backend %q", cfg.GeminiBackend)
	}
}
