package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedding struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
	Object    string    `json:"object"`
}

type stubResponse struct {
	Object string          `json:"object"`
	Data   []stubEmbedding `json:"data"`
	Model  string          `json:"model"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embeddings":
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req struct {
				Input      []string `json:"input"`
				Model      string   `json:"model"`
				Dimensions int      `json:"dimensions"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, DefaultDimensions, req.Dimensions)

			resp := stubResponse{Object: "list", Model: req.Model}
			// Return data out of order to exercise index-based reordering.
			for i := len(req.Input) - 1; i >= 0; i-- {
				vec := make([]float32, req.Dimensions)
				vec[0] = float32(i + 1)
				resp.Data = append(resp.Data, stubEmbedding{
					Embedding: vec,
					Index:     i,
					Object:    "embedding",
				})
			}
			json.NewEncoder(w).Encode(resp)

		case "/models":
			json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestService(t *testing.T, baseURL string) *EmbeddingService {
	t.Helper()
	s, err := NewEmbeddingService(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
	})
	require.NoError(t, err)
	return s
}

func TestNewEmbeddingService_RequiresKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestEmbedBatch_OrderedByIndex(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	s := newTestService(t, srv.URL)

	out, err := s.EmbedBatch(context.Background(), []string{"first", "second", "third"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, vec := range out {
		require.Len(t, vec, DefaultDimensions)
		assert.Equal(t, float32(i+1), vec[0], "batch results must follow input order")
	}
}

func TestEmbed_SingleText(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	s := newTestService(t, srv.URL)

	vec, err := s.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, DefaultDimensions)
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	s := newTestService(t, "http://unused.invalid")

	out, err := s.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	s := newTestService(t, srv.URL)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestModelName_IncludesLabel(t *testing.T) {
	s, err := NewEmbeddingService(Config{APIKey: "test-key", Label: "openai-fallback"})
	require.NoError(t, err)
	assert.Equal(t, "openai-fallback/text-embedding-3-small", s.ModelName())
}
