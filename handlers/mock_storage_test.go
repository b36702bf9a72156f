package handlers

import "mime/multipart"

type mockStorage struct {
	UploadBusinessLogoFn  func(file multipart.File, filename, contentType string) (string, error)
	UploadBusinessCoverFn func(file multipart.File, filename, contentType string) (string, error)
	UploadBusinessMediaFn func(file multipart.File, filename, contentType string) (string, error)
	UploadReviewImageFn   func(file multipart.File, filename, contentType string) (string, error)
	DeleteFileFn          func(objectPath string) error
	DeleteFileCalls       []string
	UploadCallCount       int
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadBusinessLogo(file multipart.File, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadBusinessLogoFn != nil {
		return m.UploadBusinessLogoFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/logos/test_logo.jpg", nil
}

func (m *mockStorage) UploadBusinessCover(file multipart.File, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadBusinessCoverFn != nil {
		return m.UploadBusinessCoverFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/covers/test_cover.jpg", nil
}

func (m *mockStorage) UploadBusinessMedia(file multipart.File, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadBusinessMediaFn != nil {
		return m.UploadBusinessMediaFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/portfolio/test_media.jpg", nil
}

func (m *mockStorage) UploadReviewImage(file multipart.File, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadReviewImageFn != nil {
		return m.UploadReviewImageFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/reviews/test_review.jpg", nil
}

func (m *mockStorage) DeleteFile(objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}
