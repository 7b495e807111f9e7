package dto

import "time"

type DepartmentKey string

const (
	DeptOperations          DepartmentKey = "operations"
	DeptBusinessDevelopment DepartmentKey = "business-development"
	DeptMarketing           DepartmentKey = "marketing"
	DeptProduct             DepartmentKey = "product"
)

// Departments lists the known departments in dashboard order.
var Departments = []Department{
	{Key: DeptOperations, Name: "Operations"},
	{Key: DeptBusinessDevelopment, Name: "Business Development"},
	{Key: DeptMarketing, Name: "Marketing"},
	{Key: DeptProduct, Name: "Product"},
}

type Department struct {
	Key  DepartmentKey `json:"key"`
	Name string        `json:"name"`
}

type MetricKey string

const (
	MetricTotalItemsDonated MetricKey = "totalItemsDonated"
	MetricEstimatedFMV      MetricKey = "estimatedFMV"
	MetricTotalRevenue      MetricKey = "totalRevenue"
	MetricQuarterlyProgress MetricKey = "quarterlyProgress"
	MetricActiveRetailers   MetricKey = "activeRetailers"
	MetricNonprofitReach    MetricKey = "nonprofitReach"
)

// Metrics holds the six top-line numbers scraped from one report.
// A field is 0 when its label was not found; see ExtractedReport.Matched.
type Metrics struct {
	TotalItemsDonated float64 `json:"totalItemsDonated"`
	EstimatedFMV      float64 `json:"estimatedFMV"`
	TotalRevenue      float64 `json:"totalRevenue"`
	QuarterlyProgress float64 `json:"quarterlyProgress"`
	ActiveRetailers   float64 `json:"activeRetailers"`
	NonprofitReach    float64 `json:"nonprofitReach"`
}

// Set assigns the value for key. Unknown keys are ignored.
func (m *Metrics) Set(key MetricKey, v float64) {
	switch key {
	case MetricTotalItemsDonated:
		m.TotalItemsDonated = v
	case MetricEstimatedFMV:
		m.EstimatedFMV = v
	case MetricTotalRevenue:
		m.TotalRevenue = v
	case MetricQuarterlyProgress:
		m.QuarterlyProgress = v
	case MetricActiveRetailers:
		m.ActiveRetailers = v
	case MetricNonprofitReach:
		m.NonprofitReach = v
	}
}

type Objective struct {
	Title   string  `json:"title"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
	Unit    string  `json:"unit"`
}

// Progress returns current as a percentage of target, 0 for a zero target.
func (o Objective) Progress() float64 {
	if o.Target == 0 {
		return 0
	}
	return o.Current / o.Target * 100
}

type DepartmentEntry struct {
	Highlights []string    `json:"highlights"`
	Lowlights  []string    `json:"lowlights"`
	Objectives []Objective `json:"objectives"`
}

// ExtractedReport is the parser output for one document's text.
type ExtractedReport struct {
	Metrics     Metrics                           `json:"metrics"`
	Matched     map[MetricKey]bool                `json:"matched"`
	Departments map[DepartmentKey]DepartmentEntry `json:"departments"`
}

// IngestedReport is one uploaded document after extraction.
type IngestedReport struct {
	ID          string                            `json:"id"`
	FileName    string                            `json:"fileName"`
	TimePeriod  string                            `json:"timePeriod"`
	UploadedAt  time.Time                         `json:"uploadedAt"`
	Metrics     Metrics                           `json:"metrics"`
	Matched     map[MetricKey]bool                `json:"matched"`
	Departments map[DepartmentKey]DepartmentEntry `json:"departments"`
}

type FileStatusState string

const (
	StatusProcessing FileStatusState = "processing"
	StatusCompleted  FileStatusState = "completed"
	StatusError      FileStatusState = "error"
)

// FileStatus tracks one upload through the ingest pipeline.
type FileStatus struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Size       int64           `json:"size"`
	TimePeriod string          `json:"timePeriod"`
	UploadDate string          `json:"uploadDate"`
	Status     FileStatusState `json:"status"`
	Error      string          `json:"error,omitempty"`
}

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

type ChangeType string

const (
	ChangePercent  ChangeType = "percent"
	ChangeAbsolute ChangeType = "absolute"
)

type MetricCard struct {
	Title      string     `json:"title"`
	Value      string     `json:"value"`
	Change     float64    `json:"change"`
	ChangeType ChangeType `json:"changeType"`
	Trend      Trend      `json:"trend"`
	Subtitle   string     `json:"subtitle"`
}

type MetricsSummary struct {
	TotalItemsDonated MetricCard `json:"totalItemsDonated"`
	EstimatedFMV      MetricCard `json:"estimatedFMV"`
	TotalRevenue      MetricCard `json:"totalRevenue"`
	QuarterlyProgress MetricCard `json:"quarterlyProgress"`
	ActiveRetailers   MetricCard `json:"activeRetailers"`
	NonprofitReach    MetricCard `json:"nonprofitReach"`
}

// Cards returns the summary cards in dashboard order.
func (s MetricsSummary) Cards() []MetricCard {
	return []MetricCard{
		s.TotalItemsDonated,
		s.EstimatedFMV,
		s.TotalRevenue,
		s.QuarterlyProgress,
		s.ActiveRetailers,
		s.NonprofitReach,
	}
}

type WeeklyObjective struct {
	Objective
	ProgressPct float64 `json:"progressPct"`
}

type WeeklyEntry struct {
	Week       string            `json:"week"`
	Date       string            `json:"date"`
	Highlights []string          `json:"highlights"`
	Lowlights  []string          `json:"lowlights"`
	Objectives []WeeklyObjective `json:"objectives"`
}

type RevenuePoint struct {
	Week    string  `json:"week"`
	Revenue float64 `json:"revenue"`
	Change  float64 `json:"change"`
}
