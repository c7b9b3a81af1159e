package junit

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Counters are the per suite (or total) figures of a reconciled report.
type Counters struct {
	Time             float64
	Tests            int
	Errors           int
	Failures         int
	Skipped          int
	IgnoredOnFailure int
}

// Add ...
func (c Counters) Add(other Counters) Counters {
	return Counters{
		Time:             c.Time + other.Time,
		Tests:            c.Tests + other.Tests,
		Errors:           c.Errors + other.Errors,
		Failures:         c.Failures + other.Failures,
		Skipped:          c.Skipped + other.Skipped,
		IgnoredOnFailure: c.IgnoredOnFailure + other.IgnoredOnFailure,
	}
}

// Duration ...
func (c Counters) Duration() time.Duration {
	return time.Duration(c.Time * float64(time.Second)).Round(time.Millisecond)
}

func (c Counters) String() string {
	return fmt.Sprintf("tests: %d, failures: %d, errors: %d, skipped: %d, ignored on failure: %d, time: %s",
		c.Tests, c.Failures, c.Errors, c.Skipped, c.IgnoredOnFailure, c.Duration())
}

func (c Counters) attrs() []xml.Attr {
	var attrs []xml.Attr
	attrs = setAttr(attrs, testsAttr, strconv.Itoa(c.Tests))
	attrs = setAttr(attrs, errorsAttr, strconv.Itoa(c.Errors))
	attrs = setAttr(attrs, failuresAttr, strconv.Itoa(c.Failures))
	attrs = setAttr(attrs, skippedAttr, strconv.Itoa(c.Skipped))
	attrs = setAttr(attrs, ignoredOnFailureAttr, strconv.Itoa(c.IgnoredOnFailure))
	attrs = setAttr(attrs, timeAttr, formatTime(c.Time))
	return attrs
}

// Summary is the outcome of one reconciled report.
type Summary struct {
	Suites map[string]Counters
	// SuiteOrder keeps the suites in report order.
	SuiteOrder []string
	Total      Counters
}

// NewSummary ...
func NewSummary() Summary {
	return Summary{Suites: map[string]Counters{}}
}

func (s *Summary) add(suite string, counters Counters) {
	if s.Suites == nil {
		s.Suites = map[string]Counters{}
	}
	if existing, ok := s.Suites[suite]; ok {
		s.Suites[suite] = existing.Add(counters)
	} else {
		s.Suites[suite] = counters
		s.SuiteOrder = append(s.SuiteOrder, suite)
	}
	s.Total = s.Total.Add(counters)
}

// Failed reports real failures, ignored ones do not count.
func (s Summary) Failed() bool {
	return s.Total.Errors+s.Total.Failures > 0
}

// SummaryReportName is the file name of the per test type and tag summary report.
func SummaryReportName(testType, tag string) string {
	return fmt.Sprintf("TEST-%s-%s-summary.xml", testType, tag)
}

type summaryRow struct {
	XMLName xml.Name   `xml:"testsuite"`
	Attrs   []xml.Attr `xml:",any,attr"`
}

type summaryReport struct {
	XMLName xml.Name     `xml:"testsuite"`
	Attrs   []xml.Attr   `xml:",any,attr"`
	Rows    []summaryRow `xml:"testsuite"`
}

// MarshalSummaryReport renders the summary as a testsuite named after the report file,
// with one child row per suite.
func MarshalSummaryReport(path string, summary Summary) ([]byte, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	report := summaryReport{
		Attrs: append([]xml.Attr{{Name: xml.Name{Local: nameAttr}, Value: name}}, summary.Total.attrs()...),
	}
	for _, suite := range summary.SuiteOrder {
		report.Rows = append(report.Rows, summaryRow{
			Attrs: append([]xml.Attr{{Name: xml.Name{Local: nameAttr}, Value: suite}}, summary.Suites[suite].attrs()...),
		})
	}

	content, err := xml.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), content...), nil
}

func formatTime(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}
