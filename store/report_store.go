package store

import (
	"math"
	"strings"
	"sync"

	"github.com/liquidonate/weekly-lights/dto"
	"github.com/liquidonate/weekly-lights/utils"
)

// Placeholders for rate-like metrics. They are not summed across reports and
// are shown as-is whether or not anything was uploaded.
const (
	placeholderQuarterlyProgress = 67
	placeholderActiveRetailers   = 23
	placeholderNonprofitReach    = 89
)

// Dates in department timelines are rendered in this layout.
const DateLayout = "2006-01-02"

// baselineSummary is what the overview shows before any upload.
var baselineSummary = summaryFromValues(
	"125,430", "$2.4M", "$340K",
	utils.FormatPercent(placeholderQuarterlyProgress),
	utils.FormatPlain(placeholderActiveRetailers),
	utils.FormatPercent(placeholderNonprofitReach),
)

// baselineRevenue is the six-week demo series for an empty store.
var baselineRevenue = []dto.RevenuePoint{
	{Week: "W1", Revenue: 85000, Change: 12},
	{Week: "W2", Revenue: 92000, Change: 8.2},
	{Week: "W3", Revenue: 78000, Change: -15.2},
	{Week: "W4", Revenue: 95000, Change: 21.8},
	{Week: "W5", Revenue: 88000, Change: -7.4},
	{Week: "W6", Revenue: 102000, Change: 15.9},
}

// ReportStore is the append-only list of ingested reports backing every
// dashboard view. Insertion order is never changed.
type ReportStore struct {
	reports []dto.IngestedReport
	mu      sync.RWMutex
}

// NewReportStore creates an empty store
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Append adds a report at the end. No dedupe, no validation.
func (s *ReportStore) Append(report dto.IngestedReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, report)
}

// Remove deletes the report with the given id and reports whether it existed.
func (s *ReportStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.reports {
		if r.ID == id {
			s.reports = append(s.reports[:i:i], s.reports[i+1:]...)
			return true
		}
	}
	return false
}

func (s *ReportStore) Get(id string) (dto.IngestedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return dto.IngestedReport{}, dto.ErrNotFound
}

// List returns a copy of all reports in insertion order.
func (s *ReportStore) List() []dto.IngestedReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dto.IngestedReport, len(s.reports))
	copy(out, s.reports)
	return out
}

func (s *ReportStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.reports)
}

// AggregatedMetrics builds the overview cards. Items, FMV and revenue are
// summed over all reports; progress, retailers and reach stay at their
// placeholders. Change and trend annotations are fixed.
func (s *ReportStore) AggregatedMetrics() dto.MetricsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return summarize(s.reports)
}

// Snapshot returns the reports and the summary computed from exactly those
// reports under a single read lock.
func (s *ReportStore) Snapshot() ([]dto.IngestedReport, dto.MetricsSummary) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dto.IngestedReport, len(s.reports))
	copy(out, s.reports)
	return out, summarize(s.reports)
}

func summarize(reports []dto.IngestedReport) dto.MetricsSummary {
	if len(reports) == 0 {
		return baselineSummary
	}

	var items, fmv, revenue float64
	for _, r := range reports {
		items += r.Metrics.TotalItemsDonated
		fmv += r.Metrics.EstimatedFMV
		revenue += r.Metrics.TotalRevenue
	}

	return summaryFromValues(
		utils.FormatCount(items),
		utils.FormatMillions(fmv),
		utils.FormatThousands(revenue),
		utils.FormatPercent(placeholderQuarterlyProgress),
		utils.FormatPlain(placeholderActiveRetailers),
		utils.FormatPercent(placeholderNonprofitReach),
	)
}

func summaryFromValues(items, fmv, revenue, progress, retailers, reach string) dto.MetricsSummary {
	return dto.MetricsSummary{
		TotalItemsDonated: dto.MetricCard{
			Title: "Total Items Donated", Value: items, Change: 12.5,
			ChangeType: dto.ChangePercent, Trend: dto.TrendUp, Subtitle: "vs. last week",
		},
		EstimatedFMV: dto.MetricCard{
			Title: "Estimated FMV", Value: fmv, Change: 8.3,
			ChangeType: dto.ChangePercent, Trend: dto.TrendUp, Subtitle: "Fair Market Value",
		},
		TotalRevenue: dto.MetricCard{
			Title: "Total Revenue", Value: revenue, Change: -15.2,
			ChangeType: dto.ChangePercent, Trend: dto.TrendDown, Subtitle: "Week-over-week",
		},
		QuarterlyProgress: dto.MetricCard{
			Title: "Quarterly Progress", Value: progress, Change: 5.8,
			ChangeType: dto.ChangePercent, Trend: dto.TrendUp, Subtitle: "to revenue goal",
		},
		ActiveRetailers: dto.MetricCard{
			Title: "Active Retailers", Value: retailers, Change: 2,
			ChangeType: dto.ChangeAbsolute, Trend: dto.TrendUp, Subtitle: "on SaaS platform",
		},
		NonprofitReach: dto.MetricCard{
			Title: "Nonprofit Reach", Value: reach, Change: -3.1,
			ChangeType: dto.ChangePercent, Trend: dto.TrendDown, Subtitle: "receiving donations",
		},
	}
}

// DepartmentView returns the weekly timeline for one department, or nil when
// no report carries it.
func (s *ReportStore) DepartmentView(departmentName string) []dto.WeeklyEntry {
	key, ok := NormalizeDepartment(departmentName)
	if !ok {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []dto.WeeklyEntry
	for _, r := range s.reports {
		dept, ok := r.Departments[key]
		if !ok {
			continue
		}
		entries = append(entries, dto.WeeklyEntry{
			Week:       r.TimePeriod,
			Date:       r.UploadedAt.Format(DateLayout),
			Highlights: nonNil(dept.Highlights),
			Lowlights:  nonNil(dept.Lowlights),
			Objectives: weeklyObjectives(dept.Objectives),
		})
	}
	return entries
}

// RevenueTrend returns one point per report with the change against the
// previous report, or the demo series when the store is empty.
func (s *ReportStore) RevenueTrend() []dto.RevenuePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.reports) == 0 {
		out := make([]dto.RevenuePoint, len(baselineRevenue))
		copy(out, baselineRevenue)
		return out
	}

	points := make([]dto.RevenuePoint, 0, len(s.reports))
	for i, r := range s.reports {
		p := dto.RevenuePoint{Week: r.TimePeriod, Revenue: r.Metrics.TotalRevenue}
		if i > 0 {
			p.Change = percentChange(s.reports[i-1].Metrics.TotalRevenue, r.Metrics.TotalRevenue)
		}
		points = append(points, p)
	}
	return points
}

func percentChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return math.Round((cur-prev)/prev*1000) / 10
}

// departmentAliases maps normalized names (lowercase, no whitespace) to keys.
var departmentAliases = map[string]dto.DepartmentKey{
	"operations":           dto.DeptOperations,
	"ops":                  dto.DeptOperations,
	"businessdevelopment":  dto.DeptBusinessDevelopment,
	"business-development": dto.DeptBusinessDevelopment,
	"bd":                   dto.DeptBusinessDevelopment,
	"marketing":            dto.DeptMarketing,
	"product":              dto.DeptProduct,
}

// NormalizeDepartment maps a display name, key or short alias to a
// department key. Case and whitespace are ignored.
func NormalizeDepartment(name string) (dto.DepartmentKey, bool) {
	normalized := strings.ToLower(strings.Join(strings.Fields(name), ""))
	key, ok := departmentAliases[normalized]
	return key, ok
}

func weeklyObjectives(objs []dto.Objective) []dto.WeeklyObjective {
	out := make([]dto.WeeklyObjective, 0, len(objs))
	for _, o := range objs {
		out = append(out, dto.WeeklyObjective{
			Objective:   o,
			ProgressPct: math.Round(o.Progress()*10) / 10,
		})
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
