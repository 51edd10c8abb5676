package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GeminiSDKService answers prompts through the official Go client.
type GeminiSDKService struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	sentinels Sentinels
	log       logrus.FieldLogger
}

func NewGeminiSDKService(ctx context.Context, cfg GeminiConfig, log logrus.FieldLogger) (*GeminiSDKService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSDKService{
		client:    client,
		model:     client.GenerativeModel(cfg.Model),
		sentinels: NewSentinels(cfg.ServiceName),
		log:       log.WithField("component", "gemini-sdk"),
	}, nil
}

func (s *GeminiSDKService) Close() error {
	return s.client.Close()
}

func (s *GeminiSDKService) Generate(ctx context.Context, prompt string) string {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		answer := sdkErrorAnswer(err, s.sentinels)
		if answer == s.sentinels.NoData {
			s.log.WithError(err).Warn("Gemini blocked the prompt or response")
		} else {
			s.log.WithError(err).Error("Gemini request failed")
		}
		return answer
	}
	return firstSDKText(resp, s.sentinels)
}

// sdkErrorAnswer maps a GenerateContent error to a sentinel. Blocked content
// counts as no data; everything else is a connection failure.
func sdkErrorAnswer(err error, sentinels Sentinels) string {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return sentinels.NoData
	}
	return sentinels.ConnectFailed
}

func firstSDKText(resp *genai.GenerateContentResponse, sentinels Sentinels) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return sentinels.NoData
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 {
		return sentinels.NoData
	}
	if t, ok := cand.Content.Parts[0].(genai.Text); ok && t != "" {
		return string(t)
	}
	return NoTextFound
}
