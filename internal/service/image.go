package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ImageService decodes base64/data-URL image envelopes and stores the bytes
// in S3, falling back to a local media directory when no bucket is
// configured. Only the resulting URL is persisted on a recipe.
type ImageService struct {
	s3Config *config.S3Config
	localDir string
	localURL string
}

// NewImageService creates a new ImageService instance. s3Config may be nil.
func NewImageService(s3Config *config.S3Config, localDir, localURL string) *ImageService {
	return &ImageService{
		s3Config: s3Config,
		localDir: localDir,
		localURL: localURL,
	}
}

// StoreBase64 decodes the payload (a raw base64 string or a
// "data:image/...;base64," URL) and stores it, returning the stable URL.
// An empty payload returns an empty URL and no error.
func (s *ImageService) StoreBase64(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", nil
	}

	data := payload
	if strings.Contains(data, ";base64,") {
		data = data[strings.Index(data, ";base64,")+len(";base64,"):]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("corrupt image payload: %w", err)
	}

	contentType := http.DetectContentType(decoded)
	ext := extensionFor(contentType)
	if ext == "" {
		return "", fmt.Errorf("unsupported image type %s", contentType)
	}
	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String()[:12], ext)

	if s.s3Config != nil {
		return s.uploadToS3(ctx, decoded, fileName, contentType)
	}
	return s.storeLocal(decoded, fileName)
}

func (s *ImageService) uploadToS3(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("Uploaded recipe image to S3: %s", publicURL)
	return publicURL, nil
}

func (s *ImageService) storeLocal(data []byte, fileName string) (string, error) {
	path := filepath.Join(s.localDir, filepath.FromSlash(fileName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return s.localURL + "/" + fileName, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return ""
	}
}
