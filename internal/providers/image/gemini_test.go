package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestGeminiGenerator_SyntheticWithoutAPIKey(t *testing.T) {
	g := NewGeminiGenerator(GeminiOptions{})

	assets, err := g.Generate(context.Background(), GenerateRequest{
		Prompt:    "Transform the person",
		Quantity:  2,
		RequestID: "req-1",
	})
	require.NoError(t, err)
	require.Len(t, assets, 2)
	for _, asset := range assets {
		assert.Equal(t, "image/png", asset.Format)
		assert.True(t, bytes.HasPrefix(asset.Data, pngMagic), "placeholder must be a real PNG")
	}
}

func TestGeminiGenerator_SyntheticIsDeterministic(t *testing.T) {
	g := NewGeminiGenerator(GeminiOptions{})
	req := GenerateRequest{Prompt: "p", Quantity: 1, RequestID: "req-1"}

	first, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first[0].Data, second[0].Data)
}

func TestGeminiGenerator_RemoteDecodesInlineAssets(t *testing.T) {
	imageBytes := []byte("generated-image-bytes")
	var captured geminiGenerateContentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		assert.Contains(t, r.URL.Path, "models/test-model")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": "here you go"},
						{"inlineData": map[string]string{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(imageBytes),
						}},
					},
				},
			}},
		})
	}))
	defer srv.Close()

	g := NewGeminiGenerator(GeminiOptions{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "test-model",
		HTTPClient: srv.Client(),
	})

	assets, err := g.Generate(context.Background(), GenerateRequest{
		Prompt:    "Transform the person",
		Quantity:  1,
		Photo:     []byte("selfie"),
		PhotoMIME: "image/jpeg",
		RequestID: "req-1",
	})
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, imageBytes, assets[0].Data)
	assert.Equal(t, "image/png", assets[0].Format)

	// The selfie must ride along as inline data next to the prompt text.
	require.Len(t, captured.Contents, 1)
	parts := captured.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "Transform the person", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MimeType)
}

func TestGeminiGenerator_RemoteErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "prompt rejected"},
		})
	}))
	defer srv.Close()

	g := NewGeminiGenerator(GeminiOptions{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})

	_, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p", Quantity: 1})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "prompt rejected"))
}

func TestGeminiGenerator_RemoteNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	g := NewGeminiGenerator(GeminiOptions{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})

	_, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p", Quantity: 1})
	require.Error(t, err)
}
