package firebase

import "mime/multipart"

// StorageClient abstracts Firebase Storage operations for dependency injection and testing.
type StorageClient interface {
	UploadBusinessLogo(file multipart.File, filename, contentType string) (string, error)
	UploadBusinessCover(file multipart.File, filename, contentType string) (string, error)
	UploadBusinessMedia(file multipart.File, filename, contentType string) (string, error)
	UploadReviewImage(file multipart.File, filename, contentType string) (string, error)
	DeleteFile(objectPath string) error
}

// FirebaseStorageClient is the real implementation that delegates to package-level functions.
type FirebaseStorageClient struct{}

func NewStorageClient() StorageClient {
	return &FirebaseStorageClient{}
}

func (f *FirebaseStorageClient) UploadBusinessLogo(file multipart.File, filename, contentType string) (string, error) {
	return UploadBusinessLogo(file, filename, contentType)
}

func (f *FirebaseStorageClient) UploadBusinessCover(file multipart.File, filename, contentType string) (string, error) {
	return UploadBusinessCover(file, filename, contentType)
}

func (f *FirebaseStorageClient) UploadBusinessMedia(file multipart.File, filename, contentType string) (string, error) {
	return UploadBusinessMedia(file, filename, contentType)
}

func (f *FirebaseStorageClient) UploadReviewImage(file multipart.File, filename, contentType string) (string, error) {
	return UploadReviewImage(file, filename, contentType)
}

func (f *FirebaseStorageClient) DeleteFile(objectPath string) error {
	return DeleteFile(objectPath)
}
