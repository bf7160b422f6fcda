package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwizard/docwizard/internal/core/domain"
)

func newChatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": reply},
				},
			},
		})
	}))
}

func TestAnswer(t *testing.T) {
	srv := newChatServer(t, "The notice period is thirty days, per Excerpt 1.")
	defer srv.Close()

	g, err := NewAnswerGenerator(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	answer, err := g.Answer(context.Background(), "What is the notice period?", []domain.RetrievedChunk{
		{Content: "Thirty days written notice is required.", Similarity: 0.9, Position: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, "The notice period is thirty days, per Excerpt 1.", answer)
}

func TestAnswer_NoExcerpts(t *testing.T) {
	g, err := NewAnswerGenerator(Config{APIKey: "test-key"})
	require.NoError(t, err)

	_, err = g.Answer(context.Background(), "anything?", nil)
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestSuggestQuestions(t *testing.T) {
	srv := newChatServer(t, "- What are my obligations?\n- What happens on breach?\nNot a question line\n1. When does it expire?")
	defer srv.Close()

	g, err := NewAnswerGenerator(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	questions, err := g.SuggestQuestions(context.Background(), "A lease agreement between parties...")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"What are my obligations?",
		"What happens on breach?",
		"When does it expire?",
	}, questions)
}

func TestSuggestQuestions_EmptySample(t *testing.T) {
	g, err := NewAnswerGenerator(Config{APIKey: "test-key"})
	require.NoError(t, err)

	_, err = g.SuggestQuestions(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestParseQuestionList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"dashes",
			"- First question?\n- Second question?",
			[]string{"First question?", "Second question?"},
		},
		{
			"numbered",
			"1. One?\n2) Two?\n3. Three?",
			[]string{"One?", "Two?", "Three?"},
		},
		{
			"bullets",
			"• Bullet question?",
			[]string{"Bullet question?"},
		},
		{
			"skips non-questions and prose",
			"Here are questions:\n- A statement without question mark\n- Real question?",
			[]string{"Real question?"},
		},
		{
			"caps at five",
			"- q1?\n- q2?\n- q3?\n- q4?\n- q5?\n- q6?",
			[]string{"q1?", "q2?", "q3?", "q4?", "q5?"},
		},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuestionList(tt.text))
		})
	}
}
