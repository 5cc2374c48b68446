package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// uuidShape is the textual contract for identifier fields. Deliberately a
// shape check rather than uuid.Parse, which also accepts urn: and bare-hex
// forms the API rejects.
var uuidShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// allowedImageTypes maps accepted MIME types to the file extension used in
// generated object keys.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

func isUUID(s string) bool {
	return uuidShape.MatchString(s)
}

func extForMIME(mime string) string {
	if ext, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(mime))]; ok {
		return ext
	}
	return "png"
}

// requestError is a validation failure carrying its protocol mapping.
// Validators return the first failure and never partially apply anything.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func invalidRequest(format string, args ...any) *requestError {
	return &requestError{status: http.StatusBadRequest, code: CodeInvalidRequest, message: fmt.Sprintf(format, args...)}
}

func (a *App) failRequest(w http.ResponseWriter, err *requestError) {
	a.fail(w, err.status, err.code, err.message)
}

// checkDeclaredSize enforces the upload ceiling against a declared size.
func checkDeclaredSize(size, ceiling int64) *requestError {
	if size < 0 {
		return invalidRequest("fileSize must be non-negative")
	}
	if size > ceiling {
		return &requestError{
			status:  http.StatusBadRequest,
			code:    CodeFileTooLarge,
			message: fmt.Sprintf("file size %d exceeds the %d byte limit", size, ceiling),
		}
	}
	return nil
}

// checkImageType enforces the MIME allow-list.
func checkImageType(mime string) *requestError {
	if _, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(mime))]; !ok {
		return &requestError{
			status:  http.StatusBadRequest,
			code:    CodeInvalidFileType,
			message: fmt.Sprintf("file type %q is not allowed, use image/jpeg, image/png or image/webp", mime),
		}
	}
	return nil
}
