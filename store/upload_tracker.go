package store

import (
	"sync"

	"github.com/liquidonate/weekly-lights/dto"
)

// UploadTracker keeps the status list shown in the upload panel.
type UploadTracker struct {
	files []dto.FileStatus
	mu    sync.RWMutex
}

func NewUploadTracker() *UploadTracker {
	return &UploadTracker{}
}

// Start records a new file in the processing state.
func (t *UploadTracker) Start(status dto.FileStatus) dto.FileStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	status.Status = dto.StatusProcessing
	status.Error = ""
	t.files = append(t.files, status)
	return status
}

// Complete moves a file to the completed state.
func (t *UploadTracker) Complete(id string) (dto.FileStatus, bool) {
	return t.transition(id, dto.StatusCompleted, "")
}

// Fail moves a file to the error state with a message.
func (t *UploadTracker) Fail(id string, message string) (dto.FileStatus, bool) {
	return t.transition(id, dto.StatusError, message)
}

func (t *UploadTracker) transition(id string, state dto.FileStatusState, message string) (dto.FileStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.files {
		if t.files[i].ID == id {
			t.files[i].Status = state
			t.files[i].Error = message
			return t.files[i], true
		}
	}
	return dto.FileStatus{}, false
}

func (t *UploadTracker) List() []dto.FileStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]dto.FileStatus, len(t.files))
	copy(out, t.files)
	return out
}

func (t *UploadTracker) Remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, f := range t.files {
		if f.ID == id {
			t.files = append(t.files[:i:i], t.files[i+1:]...)
			return true
		}
	}
	return false
}
