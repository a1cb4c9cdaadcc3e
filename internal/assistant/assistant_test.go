package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespond(t *testing.T) {
	a := New()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"empty", "", "Please tell me something, I'm here to assist you!"},
		{"greeting", "Hi there", "Hello! I’m Zeno, your AI assistant. How can I help you in ProjectHub today?"},
		{"greeting wins over help", "hello, help me", "Hello! I’m Zeno, your AI assistant. How can I help you in ProjectHub today?"},
		{"help", "HELP", "You can ask me about managing your projects, tasks, comments, or how to use the app."},
		{"projects", "where are my projects", "To manage projects, go to the Projects section where you can create, update, or delete projects."},
		{"tasks case-insensitive", "tell me about TASKS", "Tasks can be created within projects, assigned, updated, and marked complete."},
		{"fallback", "what is the weather", fallbackReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Respond(tt.message))
		})
	}
}

func TestRespond_CustomRules(t *testing.T) {
	a := New(Rule{Name: "ping", Match: containsAny("ping"), Reply: "pong"})

	assert.Equal(t, "pong", a.Respond("Ping"))
	assert.Equal(t, fallbackReply, a.Respond("hello"))
}
