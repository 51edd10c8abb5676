package models

// ChatRequest is the payload posted by the chat page. A missing "question"
// field decodes to the empty string, which is forwarded as-is.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse carries the generated answer, or a sentinel message when the
// upstream call failed. Answer is never empty.
type ChatResponse struct {
	Answer string `json:"answer"`
}
