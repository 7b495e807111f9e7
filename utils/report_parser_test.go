package utils

import (
	"testing"

	"github.com/liquidonate/weekly-lights/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `[LIQUIDONATE LIGHTS] Weekly Report
Total Items Donated: 1,000
Estimated FMV: $2,500,000
Total Revenue: $400,000.50
Quarterly Progress: 72%
Active Retailers: 25
Nonprofit Reach: 91.5%
Operations Highlights:
• Automated 3 new donation processing workflows
• Reduced manual errors by 15%
Operations Lowlights:
• System downtime affected 2 retailers
* Training delayed for new hires
Operations OKR: Reduce processing time: 85 / 100 % improvement
Business Development Highlights:
Signed 2 new major retailers
Closed $50K enterprise deal
Business Development Lowlights:
Lost 1 mid-tier client to competitor
`

func TestParseReportMetrics(t *testing.T) {
	report := ParseReport(sampleReport)

	assert.Equal(t, 1000.0, report.Metrics.TotalItemsDonated)
	assert.Equal(t, 2500000.0, report.Metrics.EstimatedFMV)
	assert.Equal(t, 400000.50, report.Metrics.TotalRevenue)
	assert.Equal(t, 72.0, report.Metrics.QuarterlyProgress)
	assert.Equal(t, 25.0, report.Metrics.ActiveRetailers)
	assert.Equal(t, 91.5, report.Metrics.NonprofitReach)
	for key, ok := range report.Matched {
		assert.True(t, ok, "metric %s should match", key)
	}
}

func TestParseReportMissingMetricsDefaultToZero(t *testing.T) {
	report := ParseReport("nothing useful here\nTotal Revenue: $1,200")

	assert.Equal(t, 0.0, report.Metrics.TotalItemsDonated)
	assert.Equal(t, 0.0, report.Metrics.EstimatedFMV)
	assert.Equal(t, 1200.0, report.Metrics.TotalRevenue)
	assert.False(t, report.Matched[dto.MetricTotalItemsDonated])
	assert.True(t, report.Matched[dto.MetricTotalRevenue])
}

func TestParseReportExplicitZeroIsMatched(t *testing.T) {
	report := ParseReport("Active Retailers: 0")

	assert.Equal(t, 0.0, report.Metrics.ActiveRetailers)
	assert.True(t, report.Matched[dto.MetricActiveRetailers])
}

func TestParseReportCaseInsensitiveLabels(t *testing.T) {
	report := ParseReport("TOTAL ITEMS DONATED:   42\nestimated fmv:$1,000")

	assert.Equal(t, 42.0, report.Metrics.TotalItemsDonated)
	assert.Equal(t, 1000.0, report.Metrics.EstimatedFMV)
}

func TestParseReportDepartments(t *testing.T) {
	report := ParseReport(sampleReport)

	ops, ok := report.Departments[dto.DeptOperations]
	require.True(t, ok)
	assert.Equal(t, []string{
		"Automated 3 new donation processing workflows",
		"Reduced manual errors by 15%",
	}, ops.Highlights)
	assert.Equal(t, []string{
		"System downtime affected 2 retailers",
		"Training delayed for new hires",
	}, ops.Lowlights)
	require.Len(t, ops.Objectives, 1)
	assert.Equal(t, dto.Objective{
		Title:   "Reduce processing time",
		Current: 85,
		Target:  100,
		Unit:    "% improvement",
	}, ops.Objectives[0])

	bd, ok := report.Departments[dto.DeptBusinessDevelopment]
	require.True(t, ok)
	assert.Equal(t, []string{"Signed 2 new major retailers", "Closed $50K enterprise deal"}, bd.Highlights)
	assert.Equal(t, []string{"Lost 1 mid-tier client to competitor"}, bd.Lowlights)
	assert.Empty(t, bd.Objectives)
}

func TestParseReportAbsentDepartmentsAreOmitted(t *testing.T) {
	report := ParseReport(sampleReport)

	_, ok := report.Departments[dto.DeptMarketing]
	assert.False(t, ok)
	_, ok = report.Departments[dto.DeptProduct]
	assert.False(t, ok)

	empty := ParseReport("")
	assert.Empty(t, empty.Departments)
	assert.Equal(t, dto.Metrics{}, empty.Metrics)
}

func TestParseReportSectionStopsAtMetricLabel(t *testing.T) {
	report := ParseReport("Product Highlights:\n• Shipped retailer portal\nTotal Revenue: $5,000")

	product := report.Departments[dto.DeptProduct]
	assert.Equal(t, []string{"Shipped retailer portal"}, product.Highlights)
	assert.Empty(t, product.Lowlights)
	assert.Equal(t, 5000.0, report.Metrics.TotalRevenue)
}

func TestParseReportSectionStopsAtNextDepartment(t *testing.T) {
	text := "Operations Highlights:\nRouted 40 pallets\nMarketing Highlights:\nLaunched spring campaign\nProduct Lowlights:\nRelease slipped a week\n"

	report := ParseReport(text)

	require.Contains(t, report.Departments, dto.DeptOperations)
	require.Contains(t, report.Departments, dto.DeptMarketing)
	require.Contains(t, report.Departments, dto.DeptProduct)
	assert.Equal(t, []string{"Routed 40 pallets"}, report.Departments[dto.DeptOperations].Highlights)
	assert.Empty(t, report.Departments[dto.DeptOperations].Lowlights)
	assert.Equal(t, []string{"Launched spring campaign"}, report.Departments[dto.DeptMarketing].Highlights)
	assert.Equal(t, []string{"Release slipped a week"}, report.Departments[dto.DeptProduct].Lowlights)
	assert.NotContains(t, report.Departments, dto.DeptBusinessDevelopment)
}

func TestParseReportHighlightsWithoutLowlights(t *testing.T) {
	report := ParseReport("Marketing Highlights: • Newsletter launched • 2 webinars held")

	marketing, ok := report.Departments[dto.DeptMarketing]
	require.True(t, ok)
	assert.Equal(t, []string{"Newsletter launched", "2 webinars held"}, marketing.Highlights)
	assert.Equal(t, []string{}, marketing.Lowlights)
}

func TestExtractTimePeriod(t *testing.T) {
	assert.Equal(t, "June 14, 2025 - June 20, 2025",
		ExtractTimePeriod("[X] June 14, 2025 - June 20, 2025.pdf"))
	assert.Equal(t, "June 28, 2025 - July 4, 2025",
		ExtractTimePeriod("[COMPANY LIGHTS] June 28, 2025 - July 4, 2025.pdf"))
	assert.Equal(t, UnknownPeriod, ExtractTimePeriod("report.pdf"))
}
