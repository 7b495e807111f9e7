package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadFileIsPDF(t *testing.T) {
	tests := []struct {
		name string
		file UploadFile
		want bool
	}{
		{"declared pdf", UploadFile{Name: "week", ContentType: "application/pdf"}, true},
		{"declared other type wins over extension", UploadFile{Name: "week.pdf", ContentType: "text/plain"}, false},
		{"octet stream falls back to extension", UploadFile{Name: "week.PDF", ContentType: "application/octet-stream"}, true},
		{"no type and no extension", UploadFile{Name: "week.docx"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.file.IsPDF())
		})
	}
}

func TestUploadFileSizePrefersDeclaredLength(t *testing.T) {
	truncated := UploadFile{Data: make([]byte, 11), DeclaredSize: 5000}
	assert.Equal(t, int64(5000), truncated.Size())
	assert.ErrorIs(t, truncated.Check(10), ErrFileTooLarge)

	undeclared := UploadFile{Data: make([]byte, 8)}
	assert.Equal(t, int64(8), undeclared.Size())
	assert.NoError(t, undeclared.Check(10))
}

func TestUploadFileCheckEmpty(t *testing.T) {
	assert.ErrorIs(t, UploadFile{DeclaredSize: 3}.Check(10), ErrEmptyFile)
}
