package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarshaik012/smart-qr-health/internal/config"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "qr/abc.png", QRKey("abc.png"))
	assert.Equal(t, "invoices/INV-00007.pdf", InvoiceKey("INV-00007.pdf"))
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "exports/patients-20261017T093000Z.csv", ExportKey("patients", at))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemory("http://localhost:8000")

	info, err := s.Put(ctx, "qr/a.png", strings.NewReader("png-bytes"), PutObjectOptions{Size: 9, ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size)
	assert.NotEmpty(t, info.ETag)

	rc, got, err := s.Get(ctx, "qr/a.png")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", got.ContentType)

	u, err := s.PresignGet(ctx, "qr/a.png", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/static/qr/a.png", u)

	require.NoError(t, s.Delete(ctx, "qr/a.png"))
	_, _, err = s.Get(ctx, "qr/a.png")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		msg  string
	}{
		{"missing endpoint", config.MinIOConfig{}, "minio endpoint is required"},
		{"missing credentials", config.MinIOConfig{Endpoint: "minio:9000"}, "minio credentials are required"},
		{"missing bucket", config.MinIOConfig{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b"}, "minio bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(tt.cfg)
			assert.Nil(t, s)
			assert.EqualError(t, err, tt.msg)
		})
	}
}
