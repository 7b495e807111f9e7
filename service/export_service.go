package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/liquidonate/weekly-lights/dto"
	"github.com/liquidonate/weekly-lights/store"
)

const (
	SheetOverview = "Overview"
	SheetReports  = "Reports"
	SheetUpdates  = "Updates"
)

// ExportService renders the dashboard state into a workbook.
type ExportService struct {
	reports *store.ReportStore
}

func NewExportService(reports *store.ReportStore) *ExportService {
	return &ExportService{reports: reports}
}

// BuildWorkbook returns a workbook with the overview cards, one row per
// report and one row per department update. The caller closes it.
func (s *ExportService) BuildWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetReports, SheetUpdates} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	reports, summary := s.reports.Snapshot()
	steps := []func(*excelize.File) error{
		func(f *excelize.File) error { return writeOverview(f, summary) },
		func(f *excelize.File) error { return writeReports(f, reports) },
		func(f *excelize.File) error { return writeUpdates(f, reports) },
	}
	for _, step := range steps {
		if err := step(f); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeOverview(f *excelize.File, summary dto.MetricsSummary) error {
	if err := setRow(f, SheetOverview, 1, "Metric", "Value", "Change", "Change Type", "Trend", "Note"); err != nil {
		return err
	}
	for i, card := range summary.Cards() {
		if err := setRow(f, SheetOverview, i+2,
			card.Title, card.Value, card.Change, string(card.ChangeType), string(card.Trend), card.Subtitle); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetOverview, "A", "F", 22)
}

func writeReports(f *excelize.File, reports []dto.IngestedReport) error {
	if err := setRow(f, SheetReports, 1,
		"ID", "File", "Period", "Uploaded",
		"Items Donated", "Estimated FMV", "Revenue", "Quarterly Progress", "Active Retailers", "Nonprofit Reach"); err != nil {
		return err
	}
	for i, r := range reports {
		m := r.Metrics
		if err := setRow(f, SheetReports, i+2,
			r.ID, r.FileName, r.TimePeriod, r.UploadedAt.Format(store.DateLayout),
			m.TotalItemsDonated, m.EstimatedFMV, m.TotalRevenue,
			m.QuarterlyProgress, m.ActiveRetailers, m.NonprofitReach); err != nil {
			return err
		}
	}
	return nil
}

func writeUpdates(f *excelize.File, reports []dto.IngestedReport) error {
	if err := setRow(f, SheetUpdates, 1, "Department", "Period", "Kind", "Item"); err != nil {
		return err
	}

	row := 2
	add := func(dept, period, kind, item string) error {
		err := setRow(f, SheetUpdates, row, dept, period, kind, item)
		row++
		return err
	}

	for _, r := range reports {
		for _, d := range dto.Departments {
			entry, ok := r.Departments[d.Key]
			if !ok {
				continue
			}
			for _, h := range entry.Highlights {
				if err := add(d.Name, r.TimePeriod, "highlight", h); err != nil {
					return err
				}
			}
			for _, l := range entry.Lowlights {
				if err := add(d.Name, r.TimePeriod, "lowlight", l); err != nil {
					return err
				}
			}
			for _, o := range entry.Objectives {
				item := fmt.Sprintf("%s: %g / %g %s", o.Title, o.Current, o.Target, o.Unit)
				if err := add(d.Name, r.TimePeriod, "objective", item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
