package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage is the upload collaborator: save bytes under a durable ref, delete
// a ref. Deletes are invoked best-effort during cascades; callers log and
// swallow failures.
type Storage interface {
	Save(ref string, file io.Reader) error
	Delete(ref string) error
}

// --- Local filesystem storage ---

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage path %q: %w", basePath, err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %q: %w", absPath, err)
	}
	return &LocalStorage{basePath: absPath}, nil
}

func (s *LocalStorage) path(ref string) (string, error) {
	full := filepath.Join(s.basePath, filepath.Clean("/"+ref))
	if !strings.HasPrefix(full, s.basePath) {
		return "", fmt.Errorf("invalid storage ref: %s", ref)
	}
	return full, nil
}

func (s *LocalStorage) Save(ref string, file io.Reader) error {
	dstPath, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", ref, err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", ref, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dstPath)
		return fmt.Errorf("failed to write file %q: %w", ref, err)
	}
	return nil
}

func (s *LocalStorage) Delete(ref string) error {
	dstPath, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(dstPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %q: %w", ref, err)
	}
	return nil
}

// --- MinIO / S3 storage ---

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioStorage{client: client, bucket: bucket}, nil
}

func (s *MinioStorage) Save(ref string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// PutObject needs a size for efficient uploads; photo uploads are small
	// enough to buffer.
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read upload for %q: %w", ref, err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, ref, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %q: %w", ref, err)
	}
	return nil
}

func (s *MinioStorage) Delete(ref string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %q: %w", ref, err)
	}
	return nil
}
