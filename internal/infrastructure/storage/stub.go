// Package storage implements the attachment object-storage port: a real
// S3 backend and an in-process stub for development.
package storage

import (
	"context"
	"errors"
	"time"

	pipelineapp "github.com/agencyos/backend/internal/application/pipeline"
)

var errStorageKeyRequired = errors.New("storage key is required")

var _ pipelineapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage fakes presigned URLs without any backing store, so
// the proposal-attachment flow can be exercised before S3 is configured.
// ObjectExists always answers true, which lets upload confirmation
// succeed in development.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage returns a stub rooted at a placeholder URL.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: "https://files.agencyos.dev"}
}

func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return s.fakeURL("upload", storageKey, expiresIn)
}

func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.fakeURL("download", storageKey, expiresIn)
}

func (s *StubObjectStorage) fakeURL(op, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errStorageKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + op + "/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// DeleteObject validates the key and does nothing.
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errStorageKeyRequired
	}
	return nil
}

// ObjectExists reports every valid key as present.
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errStorageKeyRequired
	}
	return true, nil
}
