package junit

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/bundle"
)

const failedMessagePrefix = "failed "

var (
	// ErrReportNotFound ...
	ErrReportNotFound = errors.New("test report not found")
	// ErrMalformedReport ...
	ErrMalformedReport = errors.New("malformed test report")
	// ErrAlreadyReconciled is returned for a report which already carries the tag prefix.
	ErrAlreadyReconciled = errors.New("test report is already reconciled")
)

// Reconciler ...
type Reconciler interface {
	Reconcile(reportPath string, ignore bundle.IgnoreSet, tag string) (Summary, error)
	WriteSummaryReport(path string, summary Summary) error
}

type reconciler struct {
	logger      log.Logger
	fileManager fileutil.FileManager
}

// NewReconciler ...
func NewReconciler(logger log.Logger, fileManager fileutil.FileManager) Reconciler {
	return &reconciler{
		logger:      logger,
		fileManager: fileManager,
	}
}

// Reconcile rewrites the report in place: test classes get the tag prefix, ignored
// failures are renamed to ignored_on_failure and the suite and root counters are recomputed.
func (r *reconciler) Reconcile(reportPath string, ignore bundle.IgnoreSet, tag string) (Summary, error) {
	content, err := os.ReadFile(reportPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Summary{}, fmt.Errorf("%w: %s", ErrReportNotFound, reportPath)
		}
		return Summary{}, err
	}

	report, err := Parse(content)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", reportPath, err)
	}

	summary, err := ReconcileReport(&report, ignore, tag)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", reportPath, err)
	}

	out, err := Marshal(report)
	if err != nil {
		return Summary{}, err
	}
	if err := r.fileManager.Write(reportPath, string(out), 0644); err != nil {
		return Summary{}, fmt.Errorf("failed to write reconciled report: %w", err)
	}

	for _, suite := range summary.SuiteOrder {
		r.logger.Debugf("%s: %s", suite, summary.Suites[suite])
	}
	if summary.Total.IgnoredOnFailure > 0 {
		r.logger.Warnf("%d failure(s) ignored by the ignore list", summary.Total.IgnoredOnFailure)
	}

	return summary, nil
}

func (r *reconciler) WriteSummaryReport(path string, summary Summary) error {
	content, err := MarshalSummaryReport(path, summary)
	if err != nil {
		return err
	}
	return r.fileManager.Write(path, string(content), 0644)
}

// Parse reads a report with either a testsuites or a single testsuite root.
func Parse(content []byte) (TestSuites, error) {
	root, err := rootElement(content)
	if err != nil {
		return TestSuites{}, err
	}

	var report TestSuites
	switch root {
	case testSuitesElement:
		if err := xml.Unmarshal(content, &report); err != nil {
			return TestSuites{}, fmt.Errorf("%w: %s", ErrMalformedReport, err)
		}
	case testSuiteElement:
		var suite TestSuite
		if err := xml.Unmarshal(content, &suite); err != nil {
			return TestSuites{}, fmt.Errorf("%w: %s", ErrMalformedReport, err)
		}
		report.TestSuites = []TestSuite{suite}
	default:
		return TestSuites{}, fmt.Errorf("%w: unexpected root element: %s", ErrMalformedReport, root)
	}

	report.restorePrefixes()
	return report, nil
}

// Marshal ...
func Marshal(report TestSuites) ([]byte, error) {
	content, err := xml.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), content...), nil
}

func rootElement(content []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return "", fmt.Errorf("%w: no root element", ErrMalformedReport)
		}
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrMalformedReport, err)
		}
		if start, ok := token.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// ReconcileReport applies the ignore list and the tag to an in-memory report.
func ReconcileReport(report *TestSuites, ignore bundle.IgnoreSet, tag string) (Summary, error) {
	if reconciled, ok := attr(report.Attrs, reconciledAttr); ok {
		return Summary{}, fmt.Errorf("%w (tag: %s)", ErrAlreadyReconciled, reconciled)
	}

	summary := NewSummary()
	for i := range report.TestSuites {
		suite := &report.TestSuites[i]

		counters, err := reconcileSuite(suite, ignore, tag)
		if err != nil {
			return Summary{}, fmt.Errorf("%w: suite %s: %s", ErrMalformedReport, suite.Name(), err)
		}
		summary.add(suite.Name(), counters)
	}

	for _, a := range summary.Total.attrs() {
		report.Attrs = setAttr(report.Attrs, a.Name.Local, a.Value)
	}
	report.Attrs = setAttr(report.Attrs, reconciledAttr, tag)

	return summary, nil
}

func reconcileSuite(suite *TestSuite, ignore bundle.IgnoreSet, tag string) (Counters, error) {
	var counters Counters
	var err error

	if counters.Time, err = floatAttr(suite.Attrs, timeAttr); err != nil {
		return Counters{}, err
	}

	failures := 0
	errorCount := 0
	for i := range suite.TestCases {
		testCase := &suite.TestCases[i]

		if className, ok := attr(testCase.Attrs, classNameAttr); ok {
			testCase.Attrs = setAttr(testCase.Attrs, classNameAttr, tag+"."+className)
		}

		for j := range testCase.Details {
			detail := &testCase.Details[j]
			if detail.XMLName.Local != failureElement {
				continue
			}
			failures++
			if ignore.Contains(failureIdentifier(*testCase, *detail)) {
				detail.XMLName = xml.Name{Local: ignoredOnFailureElement}
				counters.IgnoredOnFailure++
			}
		}

		errorCount += testCase.count("error")
		counters.Skipped += testCase.count(skippedElement)
	}

	tests, ok, err := intAttr(suite.Attrs, testsAttr)
	if err != nil {
		return Counters{}, err
	}
	if !ok {
		tests = len(suite.TestCases)
	}
	counters.Tests = tests

	errs, ok, err := intAttr(suite.Attrs, errorsAttr)
	if err != nil {
		return Counters{}, err
	}
	if !ok {
		errs = errorCount
	}
	counters.Errors = errs

	failuresBefore, _, err := intAttr(suite.Attrs, failuresAttr)
	if err != nil {
		return Counters{}, err
	}
	counters.Failures = max(failuresBefore, failures) - counters.IgnoredOnFailure

	suite.Attrs = setAttr(suite.Attrs, failuresAttr, strconv.Itoa(counters.Failures))
	suite.Attrs = setAttr(suite.Attrs, skippedAttr, strconv.Itoa(counters.Skipped))
	suite.Attrs = setAttr(suite.Attrs, ignoredOnFailureAttr, strconv.Itoa(counters.IgnoredOnFailure))

	return counters, nil
}

// failureIdentifier is the failure message without the runner's "failed " prefix,
// the test case name when the failure has no message.
func failureIdentifier(testCase TestCase, failure Detail) string {
	if message, ok := attr(failure.Attrs, messageAttr); ok && message != "" {
		return strings.TrimPrefix(message, failedMessagePrefix)
	}
	return testCase.Name()
}
