package handlers

import (
	"testing"
)

func TestIsUUID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"5e0bf9d9-58b1-4f60-9e2c-111111111111", true},
		{"5E0BF9D9-58B1-4F60-9E2C-111111111111", true},
		{"not-a-valid-uuid", false},
		{"5e0bf9d958b14f609e2c111111111111", false},
		{"urn:uuid:5e0bf9d9-58b1-4f60-9e2c-111111111111", false},
		{"5e0bf9d9-58b1-4f60-9e2c-11111111111", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isUUID(tt.in); got != tt.want {
			t.Errorf("isUUID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCheckImageType(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/png", "image/webp", "IMAGE/PNG"} {
		if err := checkImageType(mime); err != nil {
			t.Errorf("checkImageType(%q) = %v, want nil", mime, err)
		}
	}
	for _, mime := range []string{"image/gif", "application/pdf", "", "text/html"} {
		err := checkImageType(mime)
		if err == nil || err.code != CodeInvalidFileType {
			t.Errorf("checkImageType(%q) = %v, want %s", mime, err, CodeInvalidFileType)
		}
	}
}

func TestCheckDeclaredSize(t *testing.T) {
	const ceiling = 10 << 20
	if err := checkDeclaredSize(ceiling, ceiling); err != nil {
		t.Errorf("size at ceiling should pass, got %v", err)
	}
	if err := checkDeclaredSize(0, ceiling); err != nil {
		t.Errorf("zero size should pass, got %v", err)
	}
	if err := checkDeclaredSize(ceiling+1, ceiling); err == nil || err.code != CodeFileTooLarge {
		t.Errorf("size above ceiling = %v, want %s", err, CodeFileTooLarge)
	}
	if err := checkDeclaredSize(-1, ceiling); err == nil || err.code != CodeInvalidRequest {
		t.Errorf("negative size = %v, want %s", err, CodeInvalidRequest)
	}
}

func TestExtForMIME(t *testing.T) {
	tests := map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/webp": "webp",
		"image/tiff": "png",
	}
	for mime, want := range tests {
		if got := extForMIME(mime); got != want {
			t.Errorf("extForMIME(%q) = %q, want %q", mime, got, want)
		}
	}
}
