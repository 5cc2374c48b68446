package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method  string
	path    string
	headers http.Header
	body    []byte
}

func newBucketTestServer(t *testing.T, status int, responseBody string) (*BucketStore, *[]recordedRequest) {
	t.Helper()
	var recorded []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		recorded = append(recorded, recordedRequest{
			method:  r.Method,
			path:    r.URL.Path,
			headers: r.Header.Clone(),
			body:    body,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(srv.Close)

	store, err := NewBucketStore(BucketOptions{
		BaseURL:    srv.URL,
		Bucket:     "tribe-images",
		ServiceKey: "service-key",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return store, &recorded
}

func TestBucketStore_Upload(t *testing.T) {
	store, recorded := newBucketTestServer(t, http.StatusOK, `{"Key":"tribe-images/k.png"}`)

	err := store.Upload(context.Background(), "owner/k.png", []byte("png-bytes"), "image/png", false)
	require.NoError(t, err)

	require.Len(t, *recorded, 1)
	req := (*recorded)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/object/tribe-images/owner/k.png", req.path)
	assert.Equal(t, "false", req.headers.Get("x-upsert"))
	assert.Equal(t, "Bearer service-key", req.headers.Get("Authorization"))
	assert.Equal(t, "image/png", req.headers.Get("Content-Type"))
	assert.Equal(t, []byte("png-bytes"), req.body)
}

func TestBucketStore_UploadOverwriteSetsUpsert(t *testing.T) {
	store, recorded := newBucketTestServer(t, http.StatusOK, "{}")

	require.NoError(t, store.Upload(context.Background(), "k.png", []byte("x"), "image/png", true))
	assert.Equal(t, "true", (*recorded)[0].headers.Get("x-upsert"))
}

func TestBucketStore_UploadFailurePreservesServiceMessage(t *testing.T) {
	store, _ := newBucketTestServer(t, http.StatusInsufficientStorage, "disk full")

	err := store.Upload(context.Background(), "k.png", []byte("x"), "image/png", false)
	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, uerr.Error(), "disk full")
}

func TestBucketStore_PublicURL(t *testing.T) {
	store, err := NewBucketStore(BucketOptions{BaseURL: "http://kong:8000", Bucket: "tribe-images"})
	require.NoError(t, err)

	url := store.PublicURL("owner/1_mood.png")
	assert.Equal(t, "http://kong:8000/object/public/tribe-images/owner/1_mood.png", url)
}

func TestBucketStore_Delete(t *testing.T) {
	store, recorded := newBucketTestServer(t, http.StatusOK, "{}")

	require.NoError(t, store.Delete(context.Background(), "owner/k.png"))
	req := (*recorded)[0]
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, "/object/tribe-images/owner/k.png", req.path)
}

func TestBucketStore_DeleteMissingKeyIsSuccess(t *testing.T) {
	store, _ := newBucketTestServer(t, http.StatusNotFound, "not found")
	require.NoError(t, store.Delete(context.Background(), "gone.png"))
}

func TestBucketStore_DeleteFailure(t *testing.T) {
	store, _ := newBucketTestServer(t, http.StatusInternalServerError, "backend down")

	err := store.Delete(context.Background(), "k.png")
	var derr *DeleteError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Error(), "backend down")
}
