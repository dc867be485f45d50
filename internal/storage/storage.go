// Package storage contains the S3-compatible object store used for QR images, invoice PDFs and CSV exports.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Object key prefixes inside the bucket.
const (
	QRPrefix      = "qr/"
	InvoicePrefix = "invoices/"
	ExportPrefix  = "exports/"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a reusable, S3-compatible object storage client interface.
// Methods use context and streaming readers/writers; no local disk is used.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// QRKey is the object key of a patient's QR image file name (e.g. "abc123.png").
func QRKey(filename string) string {
	return QRPrefix + filename
}

// InvoiceKey is the object key of an archived bill PDF.
func InvoiceKey(filename string) string {
	return InvoicePrefix + filename
}

// ExportKey is the object key of a CSV export taken at t.
func ExportKey(name string, t time.Time) string {
	return fmt.Sprintf("%s%s-%s.csv", ExportPrefix, name, t.UTC().Format("20060102T150405Z"))
}
