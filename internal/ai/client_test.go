package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptTemplateBuild(t *testing.T) {
	tmpl := PromptTemplate{
		System: "You rate {kind} postings.",
		User:   "Job: {job_description}\nResume: {resume}\nLiteral {not a placeholder}",
	}

	msgs, err := tmpl.Build(map[string]string{
		"kind":            "software",
		"job_description": "Go backend {with braces}",
		"resume":          "10 years of Go",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Role: RoleSystem, Content: "You rate software postings."}, msgs[0])
	assert.Equal(t, "Job: Go backend {with braces}\nResume: 10 years of Go\nLiteral {not a placeholder}", msgs[1].Content)

	_, err = tmpl.Build(map[string]string{"kind": "x"})
	assert.ErrorIs(t, err, ErrMissingVariable)
	assert.Contains(t, err.Error(), "job_description, resume")
}

func TestChatClientComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  SCORE: 90\nANALYSIS: great  "}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL+"/v1/", "sk-test", "gpt-4o", 0.2, time.Second)
	text, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "SCORE: 90\nANALYSIS: great", text)
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, 0.2, got.Temperature)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "hi"}}, got.Messages)
}

func TestChatClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{"http status", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, "status 429"},
		{"api error", http.StatusOK, `{"error":{"message":"bad key"}}`, "API error: bad key"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"bad json", http.StatusOK, `not json`, "failed to decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewChatClient(srv.URL, "k", "m", 0, time.Second)
			_, err := c.Complete(context.Background(), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
