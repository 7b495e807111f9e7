package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/liquidonate/weekly-lights/cache"
	"github.com/liquidonate/weekly-lights/dto"
	"github.com/liquidonate/weekly-lights/store"
	"github.com/liquidonate/weekly-lights/utils"
)

// Text layers shorter than this are treated as scanned pages.
const defaultMinTextLength = 20

// OCRClient turns a page image into text.
type OCRClient interface {
	ExtractTextFromImage(img image.Image) (string, error)
}

// BlobStore keeps raw uploads keyed by report id.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type IngestOptions struct {
	MaxFileSize    int64
	ExtractTimeout time.Duration
	MinTextLength  int
}

type IngestService struct {
	pdfProcessor PDFProcessor
	ocrClient    OCRClient
	reports      *store.ReportStore
	uploads      *store.UploadTracker
	blobs        BlobStore
	logger       zerolog.Logger
	opts         IngestOptions

	now   func() time.Time
	newID func() string
}

// NewIngestService wires the pipeline. ocrClient and blobs may be nil.
func NewIngestService(
	pdfProcessor PDFProcessor,
	ocrClient OCRClient,
	reports *store.ReportStore,
	uploads *store.UploadTracker,
	blobs BlobStore,
	logger zerolog.Logger,
	opts IngestOptions,
) *IngestService {
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = defaultMinTextLength
	}
	return &IngestService{
		pdfProcessor: pdfProcessor,
		ocrClient:    ocrClient,
		reports:      reports,
		uploads:      uploads,
		blobs:        blobs,
		logger:       logger,
		opts:         opts,
		now:          time.Now,
		newID:        newReportID,
	}
}

// newReportID returns a time-sortable UUIDv7.
func newReportID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Ingest processes files one at a time in order. Files that are not PDFs are
// skipped without a status. Every PDF ends either completed or error.
func (s *IngestService) Ingest(ctx context.Context, files []dto.UploadFile) []dto.FileStatus {
	statuses := make([]dto.FileStatus, 0, len(files))
	for _, f := range files {
		if !f.IsPDF() {
			s.logger.Debug().Str("file", f.Name).Str("content_type", f.ContentType).Msg("skipping non-PDF upload")
			continue
		}
		statuses = append(statuses, s.ingestFile(ctx, f))
	}
	return statuses
}

func (s *IngestService) ingestFile(ctx context.Context, f dto.UploadFile) dto.FileStatus {
	id := s.newID()
	uploadedAt := s.now()
	period := utils.ExtractTimePeriod(f.Name)
	logger := s.logger.With().Str("report_id", id).Str("file", f.Name).Logger()

	s.uploads.Start(dto.FileStatus{
		ID:         id,
		Name:       f.Name,
		Size:       f.Size(),
		TimePeriod: period,
		UploadDate: uploadedAt.Format(store.DateLayout),
	})

	if err := f.Check(s.opts.MaxFileSize); err != nil {
		return s.fail(logger, id, err)
	}

	if s.blobs != nil {
		if err := s.blobs.Put(ctx, cache.Key(id), f.Data); err != nil {
			logger.Warn().Err(err).Msg("failed to cache upload bytes")
		}
	}

	text, err := s.extractWithTimeout(ctx, f.Data)
	if err != nil {
		return s.fail(logger, id, err)
	}

	parsed := utils.ParseReport(text)
	s.reports.Append(dto.IngestedReport{
		ID:          id,
		FileName:    f.Name,
		TimePeriod:  period,
		UploadedAt:  uploadedAt,
		Metrics:     parsed.Metrics,
		Matched:     parsed.Matched,
		Departments: parsed.Departments,
	})

	status, _ := s.uploads.Complete(id)
	logger.Info().
		Str("period", period).
		Int("departments", len(parsed.Departments)).
		Int("chars", len(text)).
		Msg("report ingested")
	return status
}

func (s *IngestService) fail(logger zerolog.Logger, id string, err error) dto.FileStatus {
	logger.Error().Err(err).Msg("report ingestion failed")
	status, _ := s.uploads.Fail(id, err.Error())
	return status
}

type extractResult struct {
	text string
	err  error
}

// extractWithTimeout bounds one file's extraction. The worker sees the
// cancelled context and exits on its own; its result channel is buffered.
func (s *IngestService) extractWithTimeout(ctx context.Context, data []byte) (string, error) {
	if s.opts.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ExtractTimeout)
		defer cancel()
	}

	done := make(chan extractResult, 1)
	go func() {
		text, err := s.extractText(ctx, data)
		done <- extractResult{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err == nil {
			return r.text, nil
		}
		if ctx.Err() != nil {
			return "", s.contextError(ctx)
		}
		return "", fmt.Errorf("text extraction failed: %w", r.err)
	case <-ctx.Done():
		return "", s.contextError(ctx)
	}
}

func (s *IngestService) contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("text extraction timed out after %s: %w", s.opts.ExtractTimeout, ctx.Err())
	}
	return fmt.Errorf("text extraction cancelled: %w", ctx.Err())
}

func (s *IngestService) extractText(ctx context.Context, data []byte) (string, error) {
	text, err := s.pdfProcessor.ExtractText(ctx, data)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(text)) >= s.opts.MinTextLength || s.ocrClient == nil {
		return text, nil
	}

	s.logger.Debug().Msg("pdf has little embedded text, attempting OCR")
	images, err := s.pdfProcessor.ExtractImages(ctx, data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to extract page images")
		return text, nil
	}

	var combined strings.Builder
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, err := s.ocrClient.ExtractTextFromImage(img)
		if err != nil {
			s.logger.Warn().Err(err).Msg("OCR failed for a page")
			continue
		}
		combined.WriteString(pageText)
		combined.WriteString("\n")
	}

	if strings.TrimSpace(combined.String()) == "" {
		return text, nil
	}
	return combined.String(), nil
}

// Remove drops a report, its upload status and its cached bytes.
func (s *IngestService) Remove(ctx context.Context, id string) error {
	removedReport := s.reports.Remove(id)
	removedUpload := s.uploads.Remove(id)
	if !removedReport && !removedUpload {
		return dto.ErrNotFound
	}

	if s.blobs != nil {
		if err := s.blobs.Delete(ctx, cache.Key(id)); err != nil {
			s.logger.Warn().Err(err).Str("report_id", id).Msg("failed to delete cached upload")
		}
	}
	return nil
}

// Document returns the cached bytes and original file name of an upload.
func (s *IngestService) Document(ctx context.Context, id string) ([]byte, string, error) {
	if s.blobs == nil {
		return nil, "", dto.ErrNotFound
	}

	name := ""
	for _, f := range s.uploads.List() {
		if f.ID == id {
			name = f.Name
			break
		}
	}
	if name == "" {
		return nil, "", dto.ErrNotFound
	}

	data, err := s.blobs.Get(ctx, cache.Key(id))
	if errors.Is(err, cache.ErrMiss) {
		return nil, "", dto.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return data, name, nil
}

func (s *IngestService) Uploads() []dto.FileStatus {
	return s.uploads.List()
}
