package storage

import (
	"context"
	"errors"
	"io"
)

// ErrStorageDisabled — хранилище не настроено, загрузка файлов недоступна.
var ErrStorageDisabled = errors.New("file storage is not configured")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// disabledUploader используется, когда в конфигурации нет бакета.
type disabledUploader struct{}

func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrStorageDisabled
}

func (disabledUploader) Delete(context.Context, string) error {
	return ErrStorageDisabled
}

func (disabledUploader) GetPublicURL(string) string {
	return ""
}
