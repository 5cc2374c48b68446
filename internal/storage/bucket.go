package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BucketStore talks to an object-storage service over its REST API. Uploads
// go to POST {base}/object/{bucket}/{key}; the x-upsert header selects
// create-only versus overwrite semantics. Public URLs are served under
// {base}/object/public/{bucket}/{key}.
type BucketStore struct {
	baseURL    string
	bucket     string
	serviceKey string
	httpClient *http.Client
}

// BucketOptions configures a BucketStore.
type BucketOptions struct {
	BaseURL    string
	Bucket     string
	ServiceKey string
	HTTPClient *http.Client
}

// NewBucketStore constructs a store for the given bucket.
func NewBucketStore(opts BucketOptions) (*BucketStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("storage: bucket base URL is required")
	}
	bucket := strings.Trim(strings.TrimSpace(opts.Bucket), "/")
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &BucketStore{
		baseURL:    baseURL,
		bucket:     bucket,
		serviceKey: strings.TrimSpace(opts.ServiceKey),
		httpClient: client,
	}, nil
}

// Upload writes data under key. The service rejects the write when an object
// already exists and overwrite is false.
func (s *BucketStore) Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) error {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return &UploadError{Key: key, Err: err}
	}
	endpoint := s.objectURL(cleanKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return &UploadError{Key: cleanKey, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("x-upsert", fmt.Sprintf("%t", overwrite))
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &UploadError{Key: cleanKey, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return &UploadError{Key: cleanKey, Err: serviceError(resp)}
	}
	return nil
}

// PublicURL derives the public URL for a key without a network round trip.
func (s *BucketStore) PublicURL(key string) string {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		cleanKey = strings.TrimLeft(key, "/")
	}
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, escapeKey(cleanKey))
}

// Delete removes the object stored under key. Whether a missing key is an
// error is the service's call; anything it reports as failure surfaces here.
func (s *BucketStore) Delete(ctx context.Context, key string) error {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return &DeleteError{Key: key, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(cleanKey), nil)
	if err != nil {
		return &DeleteError{Key: cleanKey, Err: err}
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &DeleteError{Key: cleanKey, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound {
		return &DeleteError{Key: cleanKey, Err: serviceError(resp)}
	}
	return nil
}

var _ Store = (*BucketStore)(nil)

func (s *BucketStore) objectURL(cleanKey string) string {
	return fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, escapeKey(cleanKey))
}

func (s *BucketStore) authorize(req *http.Request) {
	if s.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func serviceError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("storage service status %d", resp.StatusCode)
	}
	return fmt.Errorf("storage service status %d: %s", resp.StatusCode, msg)
}
