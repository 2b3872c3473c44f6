// file: internal/services/file_service_unavailable.go
package services

import "context"

// unavailableFileService stands in when storage credentials are not
// configured so the rest of the API keeps working.
type unavailableFileService struct{}

func (unavailableFileService) UploadDocument(ctx context.Context, req *FileUploadRequest) (*FileUploadResult, error) {
	return nil, NewServiceUnavailableError("file storage is not configured")
}

func (unavailableFileService) UploadImage(ctx context.Context, req *FileUploadRequest) (*FileUploadResult, error) {
	return nil, NewServiceUnavailableError("file storage is not configured")
}

func (unavailableFileService) DeleteFile(ctx context.Context, publicID string) error {
	return NewServiceUnavailableError("file storage is not configured")
}
