// Package web holds the embedded chat page.
package web

import _ "embed"

//go:embed static/index.html
var chatPage []byte

// ChatPage returns the single-page chat UI.
func ChatPage() []byte {
	return chatPage
}
