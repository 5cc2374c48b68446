package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tribeserver/internal/domain"
	"tribeserver/internal/middleware"
	"tribeserver/internal/payload"
	"tribeserver/internal/providers/image"
)

type generateImageRequest struct {
	UserResultID   string `json:"userResultId"`
	UserPhoto      string `json:"userPhoto"`
	Prompt         string `json:"prompt,omitempty"`
	NumberOfImages int    `json:"numberOfImages"`
}

type generateImageResponse struct {
	ImageURL     string   `json:"imageUrl"`
	ImageURLs    []string `json:"imageUrls"`
	UserResultID string   `json:"userResultId"`
}

// GenerateImage runs the full pipeline: validate, decode the selfie, resolve
// the tribe prompt when none was supplied, call the generation provider, and
// persist each image under an append-only key.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, CodeInvalidJSON, "request body is not valid JSON")
		return
	}

	if verr := validateGenerateImage(&req); verr != nil {
		imageGenerations.WithLabelValues("rejected").Inc()
		a.failRequest(w, verr)
		return
	}

	photo, photoMIME, err := payload.Decode(req.UserPhoto)
	if err != nil {
		imageGenerations.WithLabelValues("rejected").Inc()
		a.fail(w, http.StatusBadRequest, CodeInvalidRequest, "userPhoto is not valid base64 image data")
		return
	}
	if verr := checkDeclaredSize(int64(len(photo)), a.Config.MaxUploadBytes); verr != nil {
		imageGenerations.WithLabelValues("rejected").Inc()
		a.failRequest(w, verr)
		return
	}

	prompt, tribeName, ferr := a.resolvePrompt(r.Context(), req.UserResultID, req.Prompt)
	if ferr != nil {
		imageGenerations.WithLabelValues("error").Inc()
		a.fail(w, ferr.status, ferr.code, ferr.message)
		return
	}

	assets, err := a.Generator.Generate(r.Context(), image.GenerateRequest{
		Prompt:    image.BuildInstruction(prompt, tribeName),
		Quantity:  image.ClampQuantity(req.NumberOfImages),
		Photo:     photo,
		PhotoMIME: photoMIME,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		imageGenerations.WithLabelValues("error").Inc()
		a.Logger.Error().Err(err).Str("user_result_id", req.UserResultID).Msg("image generation failed")
		a.fail(w, http.StatusInternalServerError, CodeInternalError, "image generation failed: "+err.Error())
		return
	}

	// Best-effort batch: a failed upload aborts the request, and images
	// persisted before the failure stay in storage under their own keys.
	urls := make([]string, 0, len(assets))
	for _, asset := range assets {
		key := a.Keys.Generated(req.UserResultID, extForMIME(asset.Format))
		if err := a.Store.Upload(r.Context(), key, asset.Data, asset.Format, false); err != nil {
			imageGenerations.WithLabelValues("error").Inc()
			a.Logger.Error().Err(err).Str("key", key).Msg("generated image upload failed")
			a.fail(w, http.StatusInternalServerError, CodeUploadError, err.Error())
			return
		}
		urls = append(urls, a.publicURL(key))
	}

	imageGenerations.WithLabelValues("ok").Inc()
	a.ok(w, generateImageResponse{
		ImageURL:     urls[0],
		ImageURLs:    urls,
		UserResultID: req.UserResultID,
	})
}

func validateGenerateImage(req *generateImageRequest) *requestError {
	switch {
	case strings.TrimSpace(req.UserResultID) == "":
		return invalidRequest("userResultId is required")
	case strings.TrimSpace(req.UserPhoto) == "":
		return invalidRequest("userPhoto is required")
	case req.NumberOfImages < 0:
		return invalidRequest("numberOfImages must be positive")
	}
	if !isUUID(req.UserResultID) {
		return invalidRequest("userResultId %q is not a valid UUID", req.UserResultID)
	}
	return nil
}

// resolvePrompt returns the explicit prompt when the caller supplied one,
// otherwise looks up the tribe prompt for the result. Exactly one of those
// sources must hold before generation proceeds.
func (a *App) resolvePrompt(ctx context.Context, resultID, explicit string) (prompt, tribeName string, ferr *requestError) {
	if p := strings.TrimSpace(explicit); p != "" {
		return p, "", nil
	}

	tp, err := a.Results.TribePromptByResult(ctx, resultID)
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			return "", "", &requestError{
				status:  http.StatusInternalServerError,
				code:    CodeInternalError,
				message: "User result not found",
			}
		}
		return "", "", &requestError{
			status:  http.StatusInternalServerError,
			code:    CodeInternalError,
			message: "failed to resolve generation prompt: " + err.Error(),
		}
	}
	if tp.Prompt == nil || strings.TrimSpace(*tp.Prompt) == "" {
		noPrompt := &domain.NoPromptError{Tribe: tp.TribeName}
		return "", "", &requestError{
			status:  http.StatusInternalServerError,
			code:    CodeConfigurationError,
			message: noPrompt.Error(),
		}
	}
	return *tp.Prompt, tp.TribeName, nil
}
