package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platebook/backend/config"
)

// StorageService stores base64-submitted images (avatars, recipe photos) in
// S3 and returns their public URLs.
type StorageService struct {
	s3Config *config.S3Config
}

func NewStorageService(s3Config *config.S3Config) *StorageService {
	return &StorageService{s3Config: s3Config}
}

// StoreBase64Image accepts a data URI ("data:image/png;base64,...") or bare
// base64 payload, uploads it under the given prefix and returns the public
// URL. An empty payload is a no-op returning an empty URL.
func (s *StorageService) StoreBase64Image(ctx context.Context, payload, prefix string) (string, error) {
	if payload == "" {
		return "", nil
	}
	if s.s3Config == nil {
		return "", fmt.Errorf("image storage is not configured")
	}

	contentType := "image/png"
	data := payload
	if strings.HasPrefix(payload, "data:") {
		header, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return "", invalid("image", "malformed data URI")
		}
		data = rest
		if mime, _, ok := strings.Cut(strings.TrimPrefix(header, "data:"), ";"); ok && mime != "" {
			contentType = mime
		}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", invalid("image", "invalid base64 payload")
	}

	ext := "png"
	if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
		ext = sub
	}
	key := fmt.Sprintf("%s/%s.%s", prefix, uuid.New().String(), ext)

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}
