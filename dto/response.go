package dto

import "errors"

// Custom errors
var (
	ErrNotFound     = errors.New("report not found")
	ErrNotPDF       = errors.New("file is not a PDF")
	ErrFileTooLarge = errors.New("file exceeds size limit")
	ErrEmptyFile    = errors.New("file is empty")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// UploadResponse lists the outcome of every PDF in an upload request.
type UploadResponse struct {
	Files       []FileStatus `json:"files"`
	ProcessedAt string       `json:"processed_at"`
}

// DepartmentResponse wraps a department timeline. Data is null when no
// report carries the department.
type DepartmentResponse struct {
	Department string        `json:"department"`
	Data       []WeeklyEntry `json:"data"`
}
