package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/storage"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/config"
)

func TestArtifactKey_AgrupaPorEmpresaYMes(t *testing.T) {
	issued := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	key := storage.ArtifactKey("empresa-1", issued, "RIDE-123.pdf")
	assert.Equal(t, "empresa-1/2024/03/RIDE-123.pdf", key)
}

func TestNewS3Store_SinBucket(t *testing.T) {
	_, err := storage.NewS3Store(context.Background(), config.StorageConfig{Region: "us-east-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket vacío")
}

func TestNewS3Store_ConEndpointYCredencialesEstaticas(t *testing.T) {
	store, err := storage.NewS3Store(context.Background(), config.StorageConfig{
		Bucket:          "comprobantes",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		Prefix:          "/sri/",
	})
	require.NoError(t, err)

	url, err := store.PresignGet(context.Background(), "empresa-1/2024/03/RIDE-123.pdf", time.Minute)
	require.NoError(t, err, "el prefirmado es local, no requiere red")
	assert.Contains(t, url, "http://localhost:9000/comprobantes/sri/empresa-1/2024/03/RIDE-123.pdf")
}
