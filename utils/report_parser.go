package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/liquidonate/weekly-lights/dto"
)

const UnknownPeriod = "Unknown period"

// metricLabels maps each metric to the label printed in the weekly report.
var metricLabels = []struct {
	key   dto.MetricKey
	label string
}{
	{dto.MetricTotalItemsDonated, "Total Items Donated"},
	{dto.MetricEstimatedFMV, "Estimated FMV"},
	{dto.MetricTotalRevenue, "Total Revenue"},
	{dto.MetricQuarterlyProgress, "Quarterly Progress"},
	{dto.MetricActiveRetailers, "Active Retailers"},
	{dto.MetricNonprofitReach, "Nonprofit Reach"},
}

const numberPattern = `[0-9][0-9,]*(?:\.[0-9]+)?`

var (
	periodRegex    = regexp.MustCompile(`(\w+\s+\d+,\s+\d+\s+-\s+\w+\s+\d+,\s+\d+)`)
	bulletSplitter = regexp.MustCompile(`[\r\n•*]`)

	metricRegexes  = buildMetricRegexes()
	sectionRegexes = buildSectionRegexes()
)

type departmentPatterns struct {
	key        dto.DepartmentKey
	highlights *regexp.Regexp
	lowlights  *regexp.Regexp
	objectives *regexp.Regexp
}

func labelPattern(name string) string {
	return strings.Join(strings.Fields(regexp.QuoteMeta(name)), `\s+`)
}

func buildMetricRegexes() map[dto.MetricKey]*regexp.Regexp {
	res := make(map[dto.MetricKey]*regexp.Regexp, len(metricLabels))
	for _, m := range metricLabels {
		res[m.key] = regexp.MustCompile(`(?i)` + labelPattern(m.label) + `:\s*\$?\s*(` + numberPattern + `)\s*%?`)
	}
	return res
}

// sectionEnd matches whatever closes a highlights or lowlights block: any
// other section label, a metric label, or the end of the text.
func sectionEnd() string {
	var depts []string
	for _, d := range dto.Departments {
		depts = append(depts, labelPattern(d.Name))
	}
	var metrics []string
	for _, m := range metricLabels {
		metrics = append(metrics, labelPattern(m.label))
	}
	return `(?:(?:` + strings.Join(depts, "|") + `)\s+(?:Highlights|Lowlights|OKRs?):` +
		`|Highlights:|Lowlights:` +
		`|(?:` + strings.Join(metrics, "|") + `):` +
		`|$)`
}

func buildSectionRegexes() []departmentPatterns {
	end := sectionEnd()
	res := make([]departmentPatterns, 0, len(dto.Departments))
	for _, d := range dto.Departments {
		name := labelPattern(d.Name)
		res = append(res, departmentPatterns{
			key:        d.Key,
			highlights: regexp.MustCompile(`(?is)` + name + `\s+Highlights:(.*?)` + end),
			lowlights:  regexp.MustCompile(`(?is)` + name + `\s+Lowlights:(.*?)` + end),
			objectives: regexp.MustCompile(`(?im)^[ \t•*]*` + name + `\s+OKR:[ \t]*(.+?)[ \t]*:[ \t]*(` +
				numberPattern + `)[ \t]*/[ \t]*(` + numberPattern + `)[ \t]*([^\n]*)$`),
		})
	}
	return res
}

// ParseReport scrapes metrics and department sections out of report text.
// It never fails: a missing label yields 0 for a metric, and a department
// with no labels at all is left out of the map.
func ParseReport(text string) dto.ExtractedReport {
	report := dto.ExtractedReport{
		Matched:     make(map[dto.MetricKey]bool, len(metricLabels)),
		Departments: make(map[dto.DepartmentKey]dto.DepartmentEntry),
	}

	for _, m := range metricLabels {
		v, ok := extractMetric(text, metricRegexes[m.key])
		report.Metrics.Set(m.key, v)
		report.Matched[m.key] = ok
	}

	for _, p := range sectionRegexes {
		entry, ok := extractDepartment(text, p)
		if ok {
			report.Departments[p.key] = entry
		}
	}

	return report
}

func extractMetric(text string, re *regexp.Regexp) (float64, bool) {
	matches := re.FindStringSubmatch(text)
	if len(matches) < 2 {
		return 0, false
	}
	return parseNumber(matches[1]), true
}

func extractDepartment(text string, p departmentPatterns) (dto.DepartmentEntry, bool) {
	entry := dto.DepartmentEntry{
		Highlights: []string{},
		Lowlights:  []string{},
		Objectives: []dto.Objective{},
	}
	found := false

	if m := p.highlights.FindStringSubmatch(text); len(m) > 1 {
		entry.Highlights = splitItems(m[1])
		found = true
	}
	if m := p.lowlights.FindStringSubmatch(text); len(m) > 1 {
		entry.Lowlights = splitItems(m[1])
		found = true
	}
	for _, m := range p.objectives.FindAllStringSubmatch(text, -1) {
		entry.Objectives = append(entry.Objectives, dto.Objective{
			Title:   strings.TrimSpace(m[1]),
			Current: parseNumber(m[2]),
			Target:  parseNumber(m[3]),
			Unit:    strings.TrimSpace(m[4]),
		})
		found = true
	}

	return entry, found
}

// splitItems breaks a captured block into bullet items.
func splitItems(block string) []string {
	items := []string{}
	for _, part := range bulletSplitter.Split(block, -1) {
		if s := strings.TrimSpace(part); s != "" {
			items = append(items, s)
		}
	}
	return items
}

func parseNumber(s string) float64 {
	cleaned := strings.NewReplacer(",", "", "$", "", "%", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ExtractTimePeriod pulls "June 14, 2025 - June 20, 2025" style ranges out of
// a file name.
func ExtractTimePeriod(fileName string) string {
	if m := periodRegex.FindStringSubmatch(fileName); len(m) > 1 {
		return m[1]
	}
	return UnknownPeriod
}
