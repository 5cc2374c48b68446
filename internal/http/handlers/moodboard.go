package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tribeserver/internal/payload"
	"tribeserver/internal/storage"
)

type moodboardUploadRequest struct {
	SubcultureID string `json:"subcultureId"`
	FileName     string `json:"fileName"`
	FileType     string `json:"fileType"`
	FileSize     *int64 `json:"fileSize"`
	FileData     string `json:"fileData"`
}

type moodboardUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// MoodboardUpload validates and decodes a base64 moodboard image, persists
// it under {subcultureId}/{millis}_{fileName}, and returns the public URL.
// Validation runs to completion before any storage call; a failed request
// leaves nothing behind.
func (a *App) MoodboardUpload(w http.ResponseWriter, r *http.Request) {
	var req moodboardUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, CodeInvalidJSON, "request body is not valid JSON")
		return
	}

	if verr := validateMoodboardUpload(&req, a.Config.MaxUploadBytes); verr != nil {
		moodboardUploads.WithLabelValues("rejected").Inc()
		a.failRequest(w, verr)
		return
	}

	data, _, err := payload.Decode(req.FileData)
	if err != nil {
		moodboardUploads.WithLabelValues("rejected").Inc()
		a.fail(w, http.StatusBadRequest, CodeInvalidRequest, "fileData is not valid base64 image data")
		return
	}
	// The decoded length is the authority; the declared size is advisory.
	if verr := checkDeclaredSize(int64(len(data)), a.Config.MaxUploadBytes); verr != nil {
		moodboardUploads.WithLabelValues("rejected").Inc()
		a.failRequest(w, verr)
		return
	}

	key := a.Keys.Moodboard(req.SubcultureID, req.FileName)
	// Overwrite is allowed here: admin re-uploads replace the object under a
	// stable path instead of accumulating versions.
	if err := a.Store.Upload(r.Context(), key, data, req.FileType, true); err != nil {
		moodboardUploads.WithLabelValues("error").Inc()
		a.Logger.Error().Err(err).Str("key", key).Msg("moodboard upload failed")
		a.fail(w, http.StatusInternalServerError, CodeUploadError, err.Error())
		return
	}

	moodboardUploads.WithLabelValues("ok").Inc()
	a.ok(w, moodboardUploadResponse{ImageURL: a.publicURL(key)})
}

func validateMoodboardUpload(req *moodboardUploadRequest, ceiling int64) *requestError {
	switch {
	case strings.TrimSpace(req.SubcultureID) == "":
		return invalidRequest("subcultureId is required")
	case strings.TrimSpace(req.FileName) == "":
		return invalidRequest("fileName is required")
	case strings.TrimSpace(req.FileType) == "":
		return invalidRequest("fileType is required")
	case req.FileSize == nil:
		return invalidRequest("fileSize is required")
	case strings.TrimSpace(req.FileData) == "":
		return invalidRequest("fileData is required")
	}
	if verr := checkDeclaredSize(*req.FileSize, ceiling); verr != nil {
		return verr
	}
	if !isUUID(req.SubcultureID) {
		return invalidRequest("subcultureId %q is not a valid UUID", req.SubcultureID)
	}
	return checkImageType(req.FileType)
}

type moodboardDeleteRequest struct {
	Path string `json:"path"`
}

// MoodboardDelete removes a stored moodboard object by key. Deletion is
// idempotent at this layer; whether the key existed is the storage service's
// concern.
func (a *App) MoodboardDelete(w http.ResponseWriter, r *http.Request) {
	var req moodboardDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, CodeInvalidJSON, "request body is not valid JSON")
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		a.fail(w, http.StatusBadRequest, CodeInvalidRequest, "path is required")
		return
	}

	if err := a.Store.Delete(r.Context(), req.Path); err != nil {
		var derr *storage.DeleteError
		if errors.As(err, &derr) {
			a.fail(w, http.StatusInternalServerError, CodeDeleteError, derr.Error())
			return
		}
		a.fail(w, http.StatusInternalServerError, CodeInternalError, err.Error())
		return
	}
	a.ok(w, map[string]string{"path": req.Path})
}
