package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquidonate/weekly-lights/dto"
	"github.com/liquidonate/weekly-lights/utils"
)

func TestExtractTextRejectsEmptyInput(t *testing.T) {
	p := NewPDFProcessor()

	_, err := p.ExtractText(context.Background(), nil)
	assert.ErrorIs(t, err, errEmptyPDF)

	_, err = p.ExtractImages(context.Background(), []byte{})
	assert.ErrorIs(t, err, errEmptyPDF)
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	p := NewPDFProcessor()

	_, err := p.ExtractText(context.Background(), []byte("this is not a pdf at all"))
	assert.Error(t, err)
}

func TestExtractTextHonorsCancelledContext(t *testing.T) {
	p := NewPDFProcessor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ExtractText(ctx, []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, context.Canceled)
}

// buildTextPDF writes a minimal PDF with one text line per entry, one page
// per slice, using Helvetica so no font program has to be embedded.
func buildTextPDF(t *testing.T, pages ...[]string) []byte {
	t.Helper()

	const fontObj = 3
	firstPageObj := fontObj + 1
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPageObj+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, lines := range pages {
		var content strings.Builder
		for j, line := range lines {
			fmt.Fprintf(&content, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", 720-20*j, line)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontObj, firstPageObj+2*i+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func TestExtractTextReadsPagesInOrder(t *testing.T) {
	data := buildTextPDF(t,
		[]string{"Total Items Donated: 1,000", "Estimated FMV: $2,500,000", "Operations Highlights:", "Reduced errors"},
		[]string{"Faster intake", "Operations Lowlights:", "System downtime", "Total Revenue: $400,000"},
	)

	text, err := NewPDFProcessor().ExtractText(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Total Items Donated: 1,000",
		"Estimated FMV: $2,500,000",
		"Operations Highlights:",
		"Reduced errors",
		"Faster intake",
		"Operations Lowlights:",
		"System downtime",
		"Total Revenue: $400,000",
	}, nonEmptyLines(text))
	assert.Contains(t, text, "Reduced errors\n")

	report := utils.ParseReport(text)
	assert.Equal(t, 1000.0, report.Metrics.TotalItemsDonated)
	assert.Equal(t, 2500000.0, report.Metrics.EstimatedFMV)
	assert.Equal(t, 400000.0, report.Metrics.TotalRevenue)

	ops, ok := report.Departments[dto.DeptOperations]
	require.True(t, ok)
	assert.Equal(t, []string{"Reduced errors", "Faster intake"}, ops.Highlights)
	assert.Equal(t, []string{"System downtime"}, ops.Lowlights)
}
