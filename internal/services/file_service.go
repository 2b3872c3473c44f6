// file: internal/services/file_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"campushire/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// FileServiceConfig bounds what the upload endpoints accept.
type FileServiceConfig struct {
	MaxDocumentSize int64
	MaxImageSize    int64
	UploadTimeout   time.Duration
	MaxRetries      uint64

	AllowedDocumentTypes []string
	AllowedImageTypes    []string
	DocumentExtensions   []string
	ImageExtensions      []string
}

// DefaultFileConfig returns the production upload limits.
func DefaultFileConfig() *FileServiceConfig {
	return &FileServiceConfig{
		MaxDocumentSize: 10 * 1024 * 1024,
		MaxImageSize:    5 * 1024 * 1024,
		UploadTimeout:   30 * time.Second,
		MaxRetries:      3,
		AllowedDocumentTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		AllowedImageTypes: []string{
			"image/jpeg", "image/png", "image/webp",
		},
		DocumentExtensions: []string{".pdf", ".doc", ".docx"},
		ImageExtensions:    []string{".jpg", ".jpeg", ".png", ".webp"},
	}
}

type fileService struct {
	client *cloudinary.Cloudinary
	cfg    *FileServiceConfig
	logger *zap.Logger
}

// NewFileService creates a Cloudinary-backed file service.
func NewFileService(cld *config.CloudinaryConfig, cfg *FileServiceConfig, logger *zap.Logger) (FileService, error) {
	if cld.CloudName == "" || cld.APIKey == "" || cld.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are missing")
	}

	client, err := cloudinary.NewFromParams(cld.CloudName, cld.APIKey, cld.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	if cfg == nil {
		cfg = DefaultFileConfig()
	}
	return &fileService{client: client, cfg: cfg, logger: logger}, nil
}

// ===============================
// UPLOADS
// ===============================

func (s *fileService) UploadDocument(ctx context.Context, req *FileUploadRequest) (*FileUploadResult, error) {
	return s.upload(ctx, req, s.cfg.MaxDocumentSize, s.cfg.AllowedDocumentTypes, s.cfg.DocumentExtensions)
}

func (s *fileService) UploadImage(ctx context.Context, req *FileUploadRequest) (*FileUploadResult, error) {
	return s.upload(ctx, req, s.cfg.MaxImageSize, s.cfg.AllowedImageTypes, s.cfg.ImageExtensions)
}

func (s *fileService) upload(ctx context.Context, req *FileUploadRequest, maxSize int64, allowedTypes, allowedExts []string) (*FileUploadResult, error) {
	if req.File == nil {
		return nil, NewValidationError("no file provided", nil)
	}
	if req.File.Size > maxSize {
		return nil, NewValidationError(
			fmt.Sprintf("file exceeds the %d byte limit", maxSize), nil)
	}

	ext := strings.ToLower(filepath.Ext(req.File.Filename))
	if !slices.Contains(allowedExts, ext) {
		return nil, NewValidationError(fmt.Sprintf("file extension %q is not allowed", ext), nil)
	}

	src, err := req.File.Open()
	if err != nil {
		return nil, NewValidationError("unable to open uploaded file", err)
	}
	defer src.Close()

	// Sniff the real content type instead of trusting the client header.
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	contentType := http.DetectContentType(buffer[:n])
	if !s.typeAllowed(contentType, allowedTypes) {
		return nil, NewValidationError(fmt.Sprintf("content type %q is not allowed", contentType), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.UploadTimeout)
	defer cancel()

	folder := fmt.Sprintf("campushire/%s/%d", req.Folder, req.UserID)
	params := uploader.UploadParams{
		Folder:         folder,
		UseFilename:    boolPtr(true),
		UniqueFilename: boolPtr(true),
		ResourceType:   "auto",
	}

	// Transient upload failures retry with exponential backoff; the context
	// deadline still bounds the whole attempt.
	var result *uploader.UploadResult
	operation := func() error {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(err)
		}
		uploaded, err := s.client.Upload.Upload(ctx, src, params)
		if err != nil {
			return err
		}
		result = uploaded
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.cfg.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		s.logger.Error("file upload failed",
			zap.String("filename", req.File.Filename),
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, NewServiceUnavailableError("file storage is unavailable")
	}

	s.logger.Info("file uploaded",
		zap.String("public_id", result.PublicID),
		zap.String("folder", folder),
		zap.Int("size", result.Bytes),
	)
	return &FileUploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Size:     result.Bytes,
	}, nil
}

func (s *fileService) DeleteFile(ctx context.Context, publicID string) error {
	if publicID == "" {
		return NewValidationError("public id is required", nil)
	}

	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", publicID, err)
	}
	return nil
}

func (s *fileService) typeAllowed(contentType string, allowed []string) bool {
	// DetectContentType cannot identify zip-based office formats; they come
	// back as application/zip or octet-stream and pass on extension alone.
	if contentType == "application/zip" || contentType == "application/octet-stream" {
		return slices.Contains(allowed, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	}
	for _, t := range allowed {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

func boolPtr(b bool) *bool {
	return &b
}
