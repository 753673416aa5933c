package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

func TestTranslate_NoSuchKey(t *testing.T) {
	err := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	require.True(t, errors.Is(translate(err), ErrObjectNotFound))

	other := minio.ErrorResponse{Code: "AccessDenied"}
	require.False(t, errors.Is(translate(other), ErrObjectNotFound))
}

func TestNewMinIOStorage_RequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStorage(context.Background(), &MinIOConfig{})
	require.Error(t, err)
	_, err = NewMinIOStorage(context.Background(), nil)
	require.Error(t, err)
}
