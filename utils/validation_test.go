package utils

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func fileHeader(filename, contentType string, size int64) *multipart.FileHeader {
	header := &multipart.FileHeader{
		Filename: filename,
		Size:     size,
		Header:   make(textproto.MIMEHeader),
	}
	header.Header.Set("Content-Type", contentType)
	return header
}

func TestSanitizeValidationErrorEmail(t *testing.T) {
	// Simulate a validator.ValidationErrors for an email field
	validate := validator.New()

	type TestReq struct {
		Email string `validate:"required,email"`
	}

	err := validate.Struct(TestReq{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error for invalid email")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "email") {
		t.Errorf("expected error message to mention email, got: %s", msg)
	}
	if !strings.Contains(msg, "valid email address") {
		t.Errorf("expected user-friendly email error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorRequired(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Name     string `validate:"required"`
		Password string `validate:"required,min=8"`
	}

	err := validate.Struct(TestReq{})
	if err == nil {
		t.Fatal("expected validation error for missing required fields")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "required") {
		t.Errorf("expected error message to mention 'required', got: %s", msg)
	}
}

func TestSanitizeValidationErrorOneof(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Role string `validate:"required,oneof=customer business"`
	}

	err := validate.Struct(TestReq{Role: "superuser"})
	if err == nil {
		t.Fatal("expected validation error for invalid role")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "must be one of") {
		t.Errorf("expected oneof message, got: %s", msg)
	}
	if !strings.Contains(msg, "customer business") {
		t.Errorf("expected allowed values listed, got: %s", msg)
	}
}

func TestSanitizeValidationErrorNilReturnsEmpty(t *testing.T) {
	msg := SanitizeValidationError(nil)
	if msg != "" {
		t.Errorf("expected empty string for nil error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorMinLength(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Password string `validate:"required,min=8"`
	}

	err := validate.Struct(TestReq{Password: "short"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "at least") {
		t.Errorf("expected min length message, got: %s", msg)
	}
}

func TestValidateImageUploadValidJPEG(t *testing.T) {
	err := ValidateImageUpload(fileHeader("test.jpg", "image/jpeg", 1024))
	if err != nil {
		t.Errorf("expected no error for valid JPEG, got: %v", err)
	}
}

func TestValidateImageUploadTooLarge(t *testing.T) {
	err := ValidateImageUpload(fileHeader("huge.jpg", "image/jpeg", MaxUploadSize+1))
	if err == nil {
		t.Error("expected error for file exceeding max size")
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("expected size error, got: %v", err)
	}
}

func TestValidateImageUploadInvalidType(t *testing.T) {
	err := ValidateImageUpload(fileHeader("document.pdf", "application/pdf", 1024))
	if err == nil {
		t.Error("expected error for invalid file type")
	}
	if !strings.Contains(err.Error(), "invalid file type") {
		t.Errorf("expected content type error, got: %v", err)
	}
}

func TestValidateImageUploadAllowedTypes(t *testing.T) {
	allowedTypes := []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

	for _, ct := range allowedTypes {
		err := ValidateImageUpload(fileHeader("test.img", ct, 1024))
		if err != nil {
			t.Errorf("expected no error for content type %s, got: %v", ct, err)
		}
	}
}

func TestValidateMediaUploadVideo(t *testing.T) {
	err := ValidateMediaUpload(fileHeader("clip.mp4", "video/mp4", 1024), "video")
	if err != nil {
		t.Errorf("expected no error for mp4 video, got: %v", err)
	}

	err = ValidateMediaUpload(fileHeader("clip.avi", "video/x-msvideo", 1024), "video")
	if err == nil {
		t.Error("expected error for unsupported video type")
	}
}

func TestValidateMediaUploadImageRejectsVideoFile(t *testing.T) {
	err := ValidateMediaUpload(fileHeader("clip.mp4", "video/mp4", 1024), "image")
	if err == nil {
		t.Error("expected error uploading a video as an image")
	}
}
