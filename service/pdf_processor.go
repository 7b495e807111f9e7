package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var errEmptyPDF = errors.New("empty PDF content")

type PDFProcessor interface {
	// ExtractText returns the text of every page in page order, pages
	// separated by a line break.
	ExtractText(ctx context.Context, pdfData []byte) (string, error)
	ExtractImages(ctx context.Context, pdfData []byte) ([]image.Image, error)
}

type pdfProcessor struct {
	conf *model.Configuration
}

func NewPDFProcessor() PDFProcessor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &pdfProcessor{conf: conf}
}

func (p *pdfProcessor) ExtractText(ctx context.Context, pdfData []byte) (text string, err error) {
	if len(pdfData) == 0 {
		return "", errEmptyPDF
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// ledongthuc/pdf assumes a sane xref table, so reject broken files first.
	if err := api.Validate(bytes.NewReader(pdfData), p.conf); err != nil {
		return "", fmt.Errorf("invalid pdf structure: %w", err)
	}

	// The reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf text extraction panicked: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", pageIndex, err)
		}
		pages = append(pages, strings.TrimRight(pageText, "\n"))
	}

	return strings.Join(pages, "\n"), nil
}

func (p *pdfProcessor) ExtractImages(ctx context.Context, pdfData []byte) ([]image.Image, error) {
	if len(pdfData) == 0 {
		return nil, errEmptyPDF
	}

	// Create a temporary directory for extraction
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "report-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	// nil selects every page
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, p.conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images []image.Image
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if file.IsDir() {
			continue
		}

		imgFile, err := os.Open(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	return images, nil
}
