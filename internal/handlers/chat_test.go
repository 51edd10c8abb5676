package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"gemini-chat/internal/models"
	"gemini-chat/internal/services"
)

type fakeGenerator struct {
	answer  string
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) string {
	f.prompts = append(f.prompts, prompt)
	return f.answer
}

func newTestHandler(answer string) (*ChatHandler, *fakeGenerator) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	gen := &fakeGenerator{answer: answer}
	return NewChatHandler(gen, []byte("<!DOCTYPE html><html></html>"), log), gen
}

func postAsk(h *ChatHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Ask(rr, req)
	return rr
}

func decodeAnswer(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.Answer
}

func TestAsk_ForwardsQuestion(t *testing.T) {
	h, gen := newTestHandler("Hello **world**")

	rr := postAsk(h, `{"question":"What is Go?"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}
	if answer := decodeAnswer(t, rr); answer != "Hello **world**" {
		t.Errorf("Expected verbatim answer, got %q", answer)
	}
	if len(gen.prompts) != 1 || gen.prompts[0] != "What is Go?" {
		t.Errorf("Expected one prompt 'What is Go?', got %v", gen.prompts)
	}
}

func TestAsk_MissingQuestionDefaultsToEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"other fields only", `{"message":"ignored"}`},
		{"empty body", ``},
		{"explicit empty", `{"question":""}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, gen := newTestHandler("an answer")

			rr := postAsk(h, tc.body)

			if rr.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rr.Code)
			}
			if len(gen.prompts) != 1 || gen.prompts[0] != "" {
				t.Errorf("Expected generator called with empty prompt, got %v", gen.prompts)
			}
			if answer := decodeAnswer(t, rr); answer != "an answer" {
				t.Errorf("Expected 'an answer', got %q", answer)
			}
		})
	}
}

func TestAsk_SentinelIsReturnedWith200(t *testing.T) {
	sentinel := services.NewSentinels("").ConnectFailed
	h, _ := newTestHandler(sentinel)

	rr := postAsk(h, `{"question":"hi"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if answer := decodeAnswer(t, rr); answer != sentinel {
		t.Errorf("Expected sentinel %q, got %q", sentinel, answer)
	}
}

func TestAsk_EmptyAnswerIsReplaced(t *testing.T) {
	h, _ := newTestHandler("")

	rr := postAsk(h, `{"question":"hi"}`)

	if answer := decodeAnswer(t, rr); answer == "" {
		t.Error("Expected non-empty answer")
	}
}

func TestAsk_MalformedJSON(t *testing.T) {
	h, gen := newTestHandler("unused")

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"question":`)))
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	h.Ask(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	if len(gen.prompts) != 0 {
		t.Errorf("Generator should not be called, got %v", gen.prompts)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request_id 'req-123', got %q", resp.Error.RequestID)
	}
}

func TestAsk_TrailingDataRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"garbage after object", `{"question":"a"} not json`},
		{"second object", `{"question":"a"}{"question":"b"}`},
		{"trailing array", `{"question":"a"} []`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, gen := newTestHandler("unused")

			rr := postAsk(h, tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rr.Code)
			}
			if len(gen.prompts) != 0 {
				t.Errorf("Generator should not be called, got %v", gen.prompts)
			}
		})
	}
}

func TestAsk_TrailingWhitespaceAccepted(t *testing.T) {
	h, gen := newTestHandler("ok")

	rr := postAsk(h, "{\"question\":\"a\"}\n  \n")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if len(gen.prompts) != 1 || gen.prompts[0] != "a" {
		t.Errorf("Expected prompt 'a', got %v", gen.prompts)
	}
}

func TestPage(t *testing.T) {
	h, gen := newTestHandler("unused")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.Page(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected text/html, got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "<!DOCTYPE html>") {
		t.Errorf("Expected page body, got %q", rr.Body.String())
	}
	if len(gen.prompts) != 0 {
		t.Error("Page load must not call the generator")
	}
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected body %q", rr.Body.String())
	}
}
