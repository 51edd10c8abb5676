package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"gemini-chat/internal/models"
	"gemini-chat/internal/services"
)

type answerGenerator interface {
	Generate(ctx context.Context, prompt string) string
}

type ChatHandler struct {
	generator answerGenerator
	page      []byte
	log       logrus.FieldLogger
}

func NewChatHandler(generator answerGenerator, page []byte, log logrus.FieldLogger) *ChatHandler {
	return &ChatHandler{
		generator: generator,
		page:      page,
		log:       log,
	}
}

// Page serves the static chat UI.
func (h *ChatHandler) Page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(h.page)
}

// Ask forwards the posted question to the generator. Upstream failures are
// already folded into the answer text, so this always replies 200 for a
// well-formed body.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r.Body)
	if err != nil {
		h.log.WithError(err).WithField("request_id", r.Header.Get("X-Request-ID")).Warn("Invalid chat request body")
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	// The upstream call runs to completion even if the browser goes away.
	ctx := context.WithoutCancel(r.Context())

	answer := h.generator.Generate(ctx, req.Question)
	if answer == "" {
		answer = services.NoTextFound
	}

	h.log.WithFields(logrus.Fields{
		"request_id":      r.Header.Get("X-Request-ID"),
		"question_length": len(req.Question),
		"answer_length":   len(answer),
	}).Debug("Answered chat question")

	writeJSON(w, http.StatusOK, models.ChatResponse{Answer: answer})
}

// decodeChatRequest reads exactly one JSON value. An empty body is treated as
// {}; anything after the first value is rejected.
func decodeChatRequest(body io.Reader) (models.ChatRequest, error) {
	var req models.ChatRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return req, err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return req, errors.New("unexpected data after request body")
	}
	return req, nil
}
