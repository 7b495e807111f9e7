package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/liquidonate/weekly-lights/config"
	"github.com/liquidonate/weekly-lights/dto"
	"github.com/liquidonate/weekly-lights/service"
	"github.com/liquidonate/weekly-lights/utils"
)

// extractOutput is what `extract` prints for one file.
type extractOutput struct {
	File       string              `json:"file"`
	TimePeriod string              `json:"timePeriod"`
	Report     dto.ExtractedReport `json:"report"`
}

func newExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <report.pdf>...",
		Short: "Print the metrics and department sections scraped from PDFs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExtract,
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	processor := service.NewPDFProcessor()
	out := make([]extractOutput, 0, len(args))
	for _, path := range args {
		if !(dto.UploadFile{Name: path}).IsPDF() {
			return fmt.Errorf("%s: %w", path, dto.ErrNotPDF)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		ctx, cancel := contextWithTimeout(cmd, cfg.ExtractTimeout)
		text, err := processor.ExtractText(ctx, data)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", path, err)
		}

		name := filepath.Base(path)
		out = append(out, extractOutput{
			File:       name,
			TimePeriod: utils.ExtractTimePeriod(name),
			Report:     utils.ParseReport(text),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
