package dto

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const contentTypePDF = "application/pdf"

// UploadRequest represents the incoming multipart upload
type UploadRequest struct {
	Files []*multipart.FileHeader `form:"files[]" binding:"required"`
}

// Validate performs basic validation on the request
func (r *UploadRequest) Validate() error {
	if len(r.Files) == 0 {
		return errors.New("at least one file is required")
	}
	return nil
}

// UploadFile is one file read out of an upload, ready for ingestion.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
	// DeclaredSize is the length the client sent. Data may be cut short of
	// it when the upload was over the size limit.
	DeclaredSize int64
}

// IsPDF reports whether the file declares itself a PDF. The declared
// content type wins; the extension is only consulted when none was sent.
func (f UploadFile) IsPDF() bool {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if ct != "" && ct != "application/octet-stream" {
		return strings.HasPrefix(ct, contentTypePDF)
	}
	return strings.EqualFold(filepath.Ext(f.Name), ".pdf")
}

// Size returns the file length in bytes, preferring the declared length
// over a truncated read.
func (f UploadFile) Size() int64 {
	if n := int64(len(f.Data)); n > f.DeclaredSize {
		return n
	}
	return f.DeclaredSize
}

// Check rejects files the pipeline cannot process.
func (f UploadFile) Check(maxSize int64) error {
	if len(f.Data) == 0 {
		return ErrEmptyFile
	}
	if maxSize > 0 && f.Size() > maxSize {
		return fmt.Errorf("%w: %d bytes > %d bytes", ErrFileTooLarge, f.Size(), maxSize)
	}
	return nil
}
