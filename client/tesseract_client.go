package client

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
)

// TesseractClient OCRs page images of scanned reports.
type TesseractClient struct {
	dataPath string
	language string
	logger   zerolog.Logger
}

func NewTesseractClient(dataPath string, logger zerolog.Logger) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
		language: "eng",
		logger:   logger,
	}
}

// ExtractTextFromImage runs Tesseract over one page image.
func (tc *TesseractClient) ExtractTextFromImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		client.SetTessdataPrefix(tc.dataPath)
	}
	if err := client.SetLanguage(tc.language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	tc.logger.Debug().Int("chars", len(text)).Msg("tesseract page extracted")
	return text, nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	tc.logger.Debug().Msg("tesseract client closed")
}
