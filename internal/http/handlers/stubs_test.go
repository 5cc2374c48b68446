package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"tribeserver/internal/domain"
	"tribeserver/internal/infra"
	"tribeserver/internal/providers/image"
	"tribeserver/internal/storage"
)

type storedObject struct {
	data        []byte
	contentType string
}

// memStore is an in-memory storage.Store with switchable failure modes.
type memStore struct {
	mu         sync.Mutex
	objects    map[string]storedObject
	failUpload bool
	failDelete bool
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string]storedObject)}
}

func (s *memStore) Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpload {
		return &storage.UploadError{Key: key, Err: errors.New("bucket unavailable")}
	}
	if _, exists := s.objects[key]; exists && !overwrite {
		return &storage.UploadError{Key: key, Err: errors.New("object already exists")}
	}
	s.objects[key] = storedObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

func (s *memStore) PublicURL(key string) string {
	return "http://kong:8000/object/public/tribe-images/" + key
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return &storage.DeleteError{Key: key, Err: errors.New("backend down")}
	}
	delete(s.objects, key)
	return nil
}

func (s *memStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// stubResults serves a fixed tribe prompt or error, and records whether the
// lookup was exercised at all.
type stubResults struct {
	tp     *domain.TribePrompt
	err    error
	called bool
}

func (s *stubResults) TribePromptByResult(ctx context.Context, resultID string) (*domain.TribePrompt, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return s.tp, nil
}

// stubGenerator returns canned assets and remembers the request it received.
type stubGenerator struct {
	assets []image.Asset
	err    error
	last   image.GenerateRequest
}

func (g *stubGenerator) Generate(ctx context.Context, req image.GenerateRequest) ([]image.Asset, error) {
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	if g.assets != nil {
		return g.assets, nil
	}
	assets := make([]image.Asset, image.ClampQuantity(req.Quantity))
	for i := range assets {
		assets[i] = image.Asset{Data: []byte("generated"), Format: "image/png"}
	}
	return assets, nil
}

func newTestApp(t *testing.T, store storage.Store, results domain.ResultRepository, gen image.Generator) *App {
	t.Helper()
	cfg := &infra.Config{
		AppEnv:           "test",
		MaxUploadBytes:   infra.DefaultMaxUploadBytes,
		StorageBaseURL:   "http://kong:8000",
		StoragePublicURL: "http://localhost:54321",
	}
	return NewApp(cfg, zerolog.Nop(), results, store, gen)
}

// responseEnvelope mirrors the wire shape for assertions.
type responseEnvelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   *apiError      `json:"error"`
}
