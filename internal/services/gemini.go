package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

// NoTextFound is returned when the first candidate part carries no text.
const NoTextFound = "No text found"

// Generator turns a prompt into an answer. Generate never returns an empty
// string: upstream failures come back as one of the Sentinels messages.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
	Close() error
}

// Sentinels are the fixed messages returned in place of a real answer.
type Sentinels struct {
	ConnectFailed string
	NoData        string
}

func NewSentinels(serviceName string) Sentinels {
	if serviceName == "" {
		serviceName = "Gemini API"
	}
	return Sentinels{
		ConnectFailed: fmt.Sprintf("Error: Failed to connect to %s.", serviceName),
		NoData:        fmt.Sprintf("%s did not return expected data.", serviceName),
	}
}

type GeminiConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	ServiceName string

	// HTTPClient defaults to a client with no explicit timeout.
	HTTPClient *http.Client
}

// GeminiService calls the generateContent REST endpoint directly.
type GeminiService struct {
	httpClient *http.Client
	endpoint   string
	redacted   string
	sentinels  Sentinels
	log        logrus.FieldLogger
}

func NewGeminiService(cfg GeminiConfig, log logrus.FieldLogger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini model is required")
	}

	endpoint, err := buildEndpoint(cfg.BaseURL, cfg.Model, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	redacted, _ := buildEndpoint(cfg.BaseURL, cfg.Model, "REDACTED")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &GeminiService{
		httpClient: httpClient,
		endpoint:   endpoint,
		redacted:   redacted,
		sentinels:  NewSentinels(cfg.ServiceName),
		log:        log.WithField("component", "gemini"),
	}, nil
}

// buildEndpoint produces {base}/models/{model}:generateContent?key={apiKey}.
func buildEndpoint(baseURL, model, apiKey string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid gemini base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid gemini base URL %q: scheme and host are required", baseURL)
	}

	u = u.JoinPath("models", model+":generateContent")
	q := u.Query()
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *GeminiService) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

// ──── Wire format ────

type geminiPart struct {
	Text *string `json:"text,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type generateResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

func newGenerateRequest(prompt string) generateRequest {
	return generateRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: &prompt}}},
		},
	}
}

// Generate sends one generateContent request. Transport failures and non-2xx
// statuses yield the connect sentinel; a response without a usable first
// candidate yields the no-data sentinel.
func (s *GeminiService) Generate(ctx context.Context, prompt string) string {
	body, err := json.Marshal(newGenerateRequest(prompt))
	if err != nil {
		s.log.WithError(err).Error("Failed to encode Gemini request")
		return s.sentinels.ConnectFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		s.log.WithError(s.redact(err)).Error("Failed to build Gemini request")
		return s.sentinels.ConnectFailed
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.WithError(s.redact(err)).Error("Gemini request failed")
		return s.sentinels.ConnectFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(snippet),
		}).Error("Gemini returned non-success status")
		return s.sentinels.ConnectFailed
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		s.log.WithError(err).Warn("Gemini response was not valid JSON")
		return s.sentinels.NoData
	}

	return s.firstText(out)
}

func (s *GeminiService) firstText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		s.log.Warn("Gemini response has no candidates")
		return s.sentinels.NoData
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		s.log.Warn("Gemini candidate has no content parts")
		return s.sentinels.NoData
	}
	text := cand.Content.Parts[0].Text
	if text == nil || *text == "" {
		return NoTextFound
	}
	return *text
}

// redact strips the API key from errors that embed the request URL.
func (s *GeminiService) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: s.redacted, Err: urlErr.Err}
	}
	return err
}
