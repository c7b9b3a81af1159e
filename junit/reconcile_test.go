package junit

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/bundle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coreReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuites>
  <testsuite name="core" tests="3" errors="0" failures="2" time="1.5">
    <testcase name="A" classname="pkg.Test" time="0.5">
      <failure message="failed x" type="assert">panicked at x</failure>
    </testcase>
    <testcase name="B" classname="pkg.Test" time="0.5">
      <failure message="failed y" type="assert"><![CDATA[left != right]]></failure>
    </testcase>
    <testcase name="C" classname="pkg.Test" time="0.5">
      <system-out>ok</system-out>
    </testcase>
  </testsuite>
</testsuites>
`

func Test_GivenIgnoredFailure_WhenReconciled_ThenFailureIsRenamedAndCountersRecomputed(t *testing.T) {
	// Given
	reportPath := writeReport(t, coreReport)

	// When
	summary, err := newReconciler().Reconcile(reportPath, bundle.NewIgnoreSet("y"), "v1.2.0")

	// Then
	require.NoError(t, err)
	assert.Equal(t, Counters{Time: 1.5, Tests: 3, Failures: 1, IgnoredOnFailure: 1}, summary.Suites["core"])
	assert.Equal(t, []string{"core"}, summary.SuiteOrder)
	assert.True(t, summary.Failed())

	report := readReport(t, reportPath)
	suite := report.TestSuites[0]
	requireAttr(t, "1", suite.Attrs, failuresAttr)
	requireAttr(t, "1", suite.Attrs, ignoredOnFailureAttr)
	requireAttr(t, "0", suite.Attrs, skippedAttr)

	ignored := suite.TestCases[1].Details[0]
	assert.Equal(t, ignoredOnFailureElement, ignored.XMLName.Local)
	assert.Equal(t, "failed y", ignored.Message())
	requireAttr(t, "assert", ignored.Attrs, "type")
	assert.Contains(t, ignored.InnerXML, "left != right")

	assert.Equal(t, failureElement, suite.TestCases[0].Details[0].XMLName.Local)
}

func Test_GivenTag_WhenReconciled_ThenClassNamesArePrefixed(t *testing.T) {
	// Given
	reportPath := writeReport(t, coreReport)

	// When
	_, err := newReconciler().Reconcile(reportPath, nil, "v1.2.0")

	// Then
	require.NoError(t, err)
	report := readReport(t, reportPath)
	for _, testCase := range report.TestSuites[0].TestCases {
		assert.Equal(t, "v1.2.0.pkg.Test", testCase.ClassName())
	}
	requireAttr(t, "v1.2.0", report.Attrs, reconciledAttr)
}

func Test_GivenReconciledReport_WhenReconciledAgain_ThenFailsWithoutDoublePrefix(t *testing.T) {
	// Given
	reportPath := writeReport(t, coreReport)
	reconciler := newReconciler()
	_, err := reconciler.Reconcile(reportPath, nil, "v1.2.0")
	require.NoError(t, err)
	before, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	// When
	_, err = reconciler.Reconcile(reportPath, nil, "v1.2.0")

	// Then
	assert.True(t, errors.Is(err, ErrAlreadyReconciled))
	after, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.NotContains(t, string(after), "v1.2.0.v1.2.0.")
}

func Test_GivenFailureMessageNotInIgnoreList_WhenReconciled_ThenStaysRealFailure(t *testing.T) {
	// Given
	reportPath := writeReport(t, coreReport)

	// When
	summary, err := newReconciler().Reconcile(reportPath, bundle.NewIgnoreSet("failed y", "z"), "v1.2.0")

	// Then
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total.Failures)
	assert.Equal(t, 0, summary.Total.IgnoredOnFailure)
}

func Test_GivenFailureWithoutMessage_WhenReconciled_ThenCaseNameIsMatched(t *testing.T) {
	// Given
	reportPath := writeReport(t, `<testsuites>
  <testsuite name="core" tests="1" failures="1">
    <testcase name="tests::flaky" classname="core"><failure/></testcase>
  </testsuite>
</testsuites>`)

	// When
	summary, err := newReconciler().Reconcile(reportPath, bundle.NewIgnoreSet("tests::flaky"), "v1.2.0")

	// Then
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total.Failures)
	assert.Equal(t, 1, summary.Total.IgnoredOnFailure)
	assert.False(t, summary.Failed())
}

func Test_GivenMultipleSuites_WhenReconciled_ThenRootCountersAreSumOfSuites(t *testing.T) {
	// Given
	reportPath := writeReport(t, `<testsuites name="rust">
  <testsuite name="core" tests="1,200" errors="1" failures="1" time="2.25">
    <testcase name="A" classname="core"><failure message="failed a"/></testcase>
    <testcase name="B" classname="core"><skipped/></testcase>
  </testsuite>
  <testsuite name="session" tests="4" errors="0" failures="0" time="0.75">
    <testcase name="C" classname="session"><skipped/></testcase>
    <testcase name="D" classname="session"><skipped/></testcase>
  </testsuite>
  <testsuite name="empty" tests="0" errors="0" failures="0" time="0"></testsuite>
</testsuites>`)

	// When
	summary, err := newReconciler().Reconcile(reportPath, bundle.NewIgnoreSet("a"), "v0.13.0")

	// Then
	require.NoError(t, err)
	assert.Equal(t, Counters{Time: 3, Tests: 1204, Errors: 1, Failures: 0, Skipped: 3, IgnoredOnFailure: 1}, summary.Total)
	assert.Equal(t, Counters{}, summary.Suites["empty"])
	assert.Equal(t, []string{"core", "session", "empty"}, summary.SuiteOrder)
	assert.True(t, summary.Failed())

	report := readReport(t, reportPath)
	requireAttr(t, "rust", report.Attrs, nameAttr)
	requireAttr(t, "1204", report.Attrs, testsAttr)
	requireAttr(t, "1", report.Attrs, errorsAttr)
	requireAttr(t, "0", report.Attrs, failuresAttr)
	requireAttr(t, "3", report.Attrs, skippedAttr)
	requireAttr(t, "1", report.Attrs, ignoredOnFailureAttr)
	requireAttr(t, "3.000", report.Attrs, timeAttr)
}

func Test_GivenSingleSuiteRoot_WhenReconciled_ThenReportIsWrappedIntoTestSuites(t *testing.T) {
	// Given
	reportPath := writeReport(t, `<testsuite name="core" tests="1" failures="0">
  <testcase name="A" classname="core"/>
</testsuite>`)

	// When
	summary, err := newReconciler().Reconcile(reportPath, nil, "v1.0.0")

	// Then
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total.Tests)
	report := readReport(t, reportPath)
	require.Len(t, report.TestSuites, 1)
	assert.Equal(t, "v1.0.0.core", report.TestSuites[0].TestCases[0].ClassName())
}

func Test_GivenNamespacedAttributes_WhenReconciled_ThenPrefixesAreKept(t *testing.T) {
	// Given
	reportPath := writeReport(t, `<?xml version="1.0" encoding="UTF-8"?>
<testsuites xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="junit.xsd">
  <testsuite name="core" tests="1" failures="0">
    <testcase name="A" classname="pkg.Test" xml:lang="en">
      <system-out>ok</system-out>
    </testcase>
  </testsuite>
</testsuites>
`)

	// When
	_, err := newReconciler().Reconcile(reportPath, nil, "v1.2.0")

	// Then
	require.NoError(t, err)
	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	report := string(content)
	assert.Contains(t, report, `<testsuites xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="junit.xsd"`)
	assert.Contains(t, report, `xml:lang="en"`)
	assert.Contains(t, report, `<system-out>ok</system-out>`)
	assert.NotContains(t, report, "_xmlns")
	assert.NotContains(t, report, "XMLSchema-instance:")
}

func Test_GivenDefaultNamespace_WhenReconciled_ThenChildrenAreNotRequalified(t *testing.T) {
	// Given
	reportPath := writeReport(t, `<?xml version="1.0" encoding="UTF-8"?>
<testsuites xmlns="urn:junit">
  <testsuite name="core" tests="1" failures="1">
    <testcase name="A" classname="pkg.Test">
      <failure message="failed x">boom</failure>
    </testcase>
  </testsuite>
</testsuites>
`)

	// When
	_, err := newReconciler().Reconcile(reportPath, bundle.NewIgnoreSet("x"), "v1.2.0")

	// Then
	require.NoError(t, err)
	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	report := string(content)
	assert.Contains(t, report, `<testsuites xmlns="urn:junit"`)
	assert.Contains(t, report, `<ignored_on_failure message="failed x">boom</ignored_on_failure>`)
	assert.Equal(t, 1, strings.Count(report, "urn:junit"))
}

func Test_GivenFailuresAttributeBelowNestedFailures_WhenReconciled_ThenCountersAreNotNegative(t *testing.T) {
	// Given
	reportPath := writeReport(t, `<testsuites>
  <testsuite name="core" tests="1" failures="0">
    <testcase name="A" classname="pkg.Test">
      <failure message="failed x">boom</failure>
    </testcase>
  </testsuite>
</testsuites>
`)

	// When
	summary, err := newReconciler().Reconcile(reportPath, bundle.NewIgnoreSet("x"), "v1.2.0")

	// Then
	require.NoError(t, err)
	assert.Equal(t, Counters{Tests: 1, IgnoredOnFailure: 1}, summary.Total)
	assert.False(t, summary.Failed())
}

func Test_GivenMissingReport_WhenReconciled_ThenFailsWithReportNotFound(t *testing.T) {
	// When
	_, err := newReconciler().Reconcile(filepath.Join(t.TempDir(), "missing.xml"), nil, "v1.0.0")

	// Then
	assert.True(t, errors.Is(err, ErrReportNotFound))
}

func Test_GivenMalformedReport_WhenReconciled_ThenFailsWithMalformedReport(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "broken xml", content: "<testsuites><testsuite"},
		{name: "unexpected root", content: "<report/>"},
		{name: "non numeric counter", content: `<testsuites><testsuite name="core" tests="many"/></testsuites>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			reportPath := writeReport(t, tt.content)

			// When
			_, err := newReconciler().Reconcile(reportPath, nil, "v1.0.0")

			// Then
			assert.True(t, errors.Is(err, ErrMalformedReport), err)
		})
	}
}

func Test_GivenSummary_WhenSummaryReportWritten_ThenContainsTotalsAndSuiteRows(t *testing.T) {
	// Given
	summary := NewSummary()
	summary.add("core", Counters{Time: 1.5, Tests: 3, Failures: 1, IgnoredOnFailure: 1})
	summary.add("session", Counters{Time: 0.5, Tests: 2, Skipped: 1})
	path := filepath.Join(t.TempDir(), SummaryReportName("rust", "v1.2.0"))

	// When
	err := newReconciler().WriteSummaryReport(path, summary)

	// Then
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	report := string(content)
	assert.True(t, strings.HasPrefix(report, "<?xml"))
	assert.Contains(t, report, `<testsuite name="TEST-rust-v1.2.0-summary" tests="5" errors="0" failures="1" skipped="1" ignored_on_failure="1" time="2.000">`)
	assert.Contains(t, report, `<testsuite name="core" tests="3" errors="0" failures="1" skipped="0" ignored_on_failure="1" time="1.500"></testsuite>`)
	assert.Contains(t, report, `<testsuite name="session" tests="2" errors="0" failures="0" skipped="1" ignored_on_failure="0" time="0.500"></testsuite>`)
}

// Helpers

func newReconciler() Reconciler {
	return NewReconciler(log.NewLogger(), fileutil.NewFileManager())
}

func writeReport(t *testing.T, content string) string {
	pth := filepath.Join(t.TempDir(), "rust_results_v1.2.0.xml")
	require.NoError(t, fileutil.NewFileManager().Write(pth, content, 0600))
	return pth
}

func readReport(t *testing.T, pth string) TestSuites {
	content, err := os.ReadFile(pth)
	require.NoError(t, err)
	report, err := Parse(content)
	require.NoError(t, err)
	return report
}

func requireAttr(t *testing.T, expected string, attrs []xml.Attr, name string) {
	value, ok := attr(attrs, name)
	require.True(t, ok, "missing attribute: %s", name)
	assert.Equal(t, expected, value)
}
