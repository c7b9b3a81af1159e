package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/ziputil"
	"github.com/bitrise-steplib/steps-driver-matrix/testaddon"
	"github.com/bitrise-steplib/steps-driver-matrix/testartifact"
)

const (
	testResultEnvKey     = "DRIVER_MATRIX_TEST_RESULT"
	resultsZipPathEnvKey = "DRIVER_MATRIX_RESULTS_ZIP_PATH"
	testLogsZipPathKey   = "DRIVER_MATRIX_TEST_LOGS_ZIP_PATH"
)

// Metadata describes the outcome of one driver version and test type, for the
// result dashboards. Exactly one of JUnitResult and FailureReason is set.
type Metadata struct {
	DriverName    string `json:"driver_name"`
	DriverType    string `json:"driver_type"`
	JUnitResult   string `json:"junit_result,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// MetadataFileName ...
func MetadataFileName(driverName string) string {
	return fmt.Sprintf("metadata_%s.json", driverName)
}

// Exporter ...
type Exporter interface {
	ExportMetadata(dir string, metadata Metadata) (string, error)
	ExportTestRunResult(failed bool)
	ExportResults(deployDir, resultsDir string) error
	ExportArgusResults(resultsDir, argusDir, prefix string) error
	ExportTestAddonResults(reportPath, bundleName string)
	ExportTestLog(logsDir, name, content string) error
	ExportTestLogs(deployDir, logsDir string) error
}

type exporter struct {
	envRepository     env.Repository
	logger            log.Logger
	fileManager       fileutil.FileManager
	outputExporter    export.Exporter
	testAddonExporter testaddon.Exporter
	collector         testartifact.Collector
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, fileManager fileutil.FileManager, outputExporter export.Exporter, testAddonExporter testaddon.Exporter, collector testartifact.Collector) Exporter {
	return &exporter{
		envRepository:     envRepository,
		logger:            logger,
		fileManager:       fileManager,
		outputExporter:    outputExporter,
		testAddonExporter: testAddonExporter,
		collector:         collector,
	}
}

func (e exporter) ExportMetadata(dir string, metadata Metadata) (string, error) {
	content, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}

	pth := filepath.Join(dir, MetadataFileName(metadata.DriverName))
	if err := e.fileManager.Write(pth, string(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	e.logger.Debugf("Metadata written to: %s", pth)
	return pth, nil
}

func (e exporter) ExportTestRunResult(failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.envRepository.Set(testResultEnvKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", testResultEnvKey, err)
	}
}

func (e exporter) ExportResults(deployDir, resultsDir string) error {
	zipPath := filepath.Join(deployDir, filepath.Base(resultsDir)+".zip")
	if err := e.outputExporter.ExportOutputFilesZip(resultsZipPathEnvKey, []string{resultsDir}, zipPath); err != nil {
		return fmt.Errorf("failed to export %s: %w", resultsZipPathEnvKey, err)
	}
	return nil
}

// ExportArgusResults copies the result files of one run, the summary reports are left out.
func (e exporter) ExportArgusResults(resultsDir, argusDir, prefix string) error {
	files, err := e.collector.Collect(resultsDir, argusDir, prefix, false)
	if err != nil {
		return fmt.Errorf("failed to copy results for Argus: %w", err)
	}
	e.logger.Debugf("Copied %d file(s) to %s", len(files), argusDir)
	return nil
}

func (e exporter) ExportTestAddonResults(reportPath, bundleName string) {
	addonResultPath := e.envRepository.Get(configs.BitrisePerStepTestResultDirEnvKey)
	if len(addonResultPath) == 0 {
		return
	}

	e.logger.Println()
	e.logger.Infof("Exporting test results")

	if err := e.testAddonExporter.CopyAndSaveMetadata(testaddon.AddonCopy{
		SourceTestOutputDir:   reportPath,
		TargetAddonPath:       addonResultPath,
		TargetAddonBundleName: bundleName,
	}); err != nil {
		e.logger.Warnf("Failed to export test results: %s", err)
	}
}

func (e exporter) ExportTestLog(logsDir, name, content string) error {
	pth, err := saveRawOutputToLogFile(name, content)
	if err != nil {
		return err
	}

	logPth := filepath.Join(logsDir, name+".log")
	if err := e.fileManager.Write(logPth, "", 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", logPth, err)
	}
	if err := command.CopyFile(pth, logPth); err != nil {
		return fmt.Errorf("failed to copy test log from (%s) to (%s): %w", pth, logPth, err)
	}
	return nil
}

func (e exporter) ExportTestLogs(deployDir, logsDir string) error {
	zipPath := filepath.Join(deployDir, "test_logs.zip")
	if err := ziputil.ZipDir(logsDir, zipPath, true); err != nil {
		return fmt.Errorf("failed to compress test logs: %w", err)
	}

	if err := e.envRepository.Set(testLogsZipPathKey, zipPath); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", testLogsZipPathKey, err)
	}
	return nil
}
