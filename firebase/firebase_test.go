package firebase

import (
	"os"
	"strings"
	"testing"
)

func TestSanitizeFilenameNormal(t *testing.T) {
	result := sanitizeFilename("image_test-file.jpg")
	if result != "image_test-file.jpg" {
		t.Errorf("expected 'image_test-file.jpg', got '%s'", result)
	}
}

func TestSanitizeFilenameSpecialChars(t *testing.T) {
	result := sanitizeFilename("my file (1)@#$.jpg")
	if strings.ContainsAny(result, " ()@#$") {
		t.Errorf("special chars not replaced: '%s'", result)
	}
}

func TestSanitizeFilenameTooLong(t *testing.T) {
	long := strings.Repeat("a", 200)
	result := sanitizeFilename(long)
	if len(result) != 100 {
		t.Errorf("expected length 100, got %d", len(result))
	}
}

func TestSanitizeFilenameEmpty(t *testing.T) {
	result := sanitizeFilename("")
	if result != "file" {
		t.Errorf("expected 'file', got '%s'", result)
	}
}

func TestSanitizeFilenameDots(t *testing.T) {
	if sanitizeFilename(".") != "file" {
		t.Error("single dot should become 'file'")
	}
	if sanitizeFilename("..") != "file" {
		t.Error("double dots should become 'file'")
	}
}

func TestObjectPathFromPublicURL(t *testing.T) {
	os.Setenv("FIREBASE_STORAGE_BUCKET", "yerli-test-bucket")
	defer os.Unsetenv("FIREBASE_STORAGE_BUCKET")

	path := ObjectPathFromPublicURL("https://storage.googleapis.com/yerli-test-bucket/portfolio/123_photo.jpg")
	if path != "portfolio/123_photo.jpg" {
		t.Errorf("expected 'portfolio/123_photo.jpg', got '%s'", path)
	}
}

func TestObjectPathFromPublicURLForeignHost(t *testing.T) {
	os.Setenv("FIREBASE_STORAGE_BUCKET", "yerli-test-bucket")
	defer os.Unsetenv("FIREBASE_STORAGE_BUCKET")

	if path := ObjectPathFromPublicURL("https://cdn.example.com/photo.jpg"); path != "" {
		t.Errorf("expected empty path for foreign URL, got '%s'", path)
	}
	if path := ObjectPathFromPublicURL("https://storage.googleapis.com/other-bucket/photo.jpg"); path != "" {
		t.Errorf("expected empty path for other bucket, got '%s'", path)
	}
}

func TestObjectPathFromPublicURLNoBucketConfigured(t *testing.T) {
	os.Unsetenv("FIREBASE_STORAGE_BUCKET")

	if path := ObjectPathFromPublicURL("https://storage.googleapis.com/yerli-test-bucket/photo.jpg"); path != "" {
		t.Errorf("expected empty path without configured bucket, got '%s'", path)
	}
}
