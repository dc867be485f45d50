package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDockerfile_ServesOnPort8000(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "Dockerfile"))
	require.NoError(t, err)
	df := string(raw)

	for _, want := range []string{
		"libtesseract-dev",
		"CGO_ENABLED=1 go build",
		"./cmd/api",
		"tesseract-ocr",
		"postgresql-client",
		"HOST=0.0.0.0",
		"PORT=8000",
		"EXPOSE 8000",
		"/healthz",
		`CMD ["/app/api"]`,
	} {
		assert.True(t, strings.Contains(df, want), "Dockerfile is missing %q", want)
	}
}

func TestLoadInvoiceFont(t *testing.T) {
	assert.Nil(t, loadInvoiceFont("", zap.NewNop()))

	path := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(path, []byte("ttf"), 0o600))
	assert.Equal(t, []byte("ttf"), loadInvoiceFont(path, zap.NewNop()))

	core, logs := observer.New(zap.WarnLevel)
	assert.Nil(t, loadInvoiceFont(filepath.Join(t.TempDir(), "missing.ttf"), zap.New(core)))
	assert.Equal(t, 1, logs.FilterMessage("invoice font unavailable, using core font").Len())
}
