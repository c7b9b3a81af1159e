package step

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/bundle"
	"github.com/bitrise-steplib/steps-driver-matrix/cluster"
	"github.com/bitrise-steplib/steps-driver-matrix/executor"
	"github.com/bitrise-steplib/steps-driver-matrix/gitrepo"
	"github.com/bitrise-steplib/steps-driver-matrix/ipprefix"
	"github.com/bitrise-steplib/steps-driver-matrix/junit"
	"github.com/bitrise-steplib/steps-driver-matrix/notify"
	"github.com/bitrise-steplib/steps-driver-matrix/output"
	"github.com/bitrise-steplib/steps-driver-matrix/patch"
	"github.com/bitrise-steplib/steps-driver-matrix/testtype"
)

// Result ...
type Result struct {
	Cells []CellResult

	ResultsDir string
	LogsDir    string
	DeployDir  string
}

// Failed reports whether any cell failed or reported real test failures.
func (r Result) Failed() bool {
	for _, cell := range r.Cells {
		if cell.Failed() {
			return true
		}
	}
	return false
}

// MatrixRunner runs every driver tag and test type pair of the matrix, one after the other.
type MatrixRunner struct {
	logger         log.Logger
	resolver       bundle.Resolver
	applicator     patch.Applicator
	clusterManager cluster.Manager
	executor       executor.Executor
	reconciler     junit.Reconciler
	outputExporter output.Exporter
	notifier       notify.Notifier
	repository     gitrepo.Repository
	registry       testtype.Registry

	resultsDirsReady bool
}

// NewMatrixRunner ...
func NewMatrixRunner(
	logger log.Logger,
	resolver bundle.Resolver,
	applicator patch.Applicator,
	clusterManager cluster.Manager,
	executor executor.Executor,
	reconciler junit.Reconciler,
	outputExporter output.Exporter,
	notifier notify.Notifier,
	repository gitrepo.Repository,
	registry testtype.Registry,
) *MatrixRunner {
	return &MatrixRunner{
		logger:         logger,
		resolver:       resolver,
		applicator:     applicator,
		clusterManager: clusterManager,
		executor:       executor,
		reconciler:     reconciler,
		outputExporter: outputExporter,
		notifier:       notifier,
		repository:     repository,
		registry:       registry,
	}
}

// Run walks the matrix. A failing cell is recorded and the matrix moves on, only errors
// which make every further cell fail as well stop it.
func (s *MatrixRunner) Run(cfg Config) (Result, error) {
	result := Result{
		ResultsDir: cfg.ResultsDir,
		LogsDir:    cfg.LogsDir,
		DeployDir:  cfg.DeployDir,
	}

	if err := s.prepareResultsDirs(cfg); err != nil {
		return result, err
	}

	for _, tag := range cfg.Tags {
		for _, testType := range cfg.TestTypes {
			s.logger.Println()
			s.logger.Infof("=== DRIVER VERSION %s, TEST: %s ===", tag, testType)

			cell := s.runCell(cfg, tag, testType)
			result.Cells = append(result.Cells, cell)
			s.logCellOutcome(cell)

			if cell.State == Failed {
				s.exportFailureMetadata(cfg, cell)
				if isMatrixFatal(cell.Err) {
					return result, fmt.Errorf("driver matrix aborted at %s (%s): %w", tag, testType, cell.Err)
				}
			}
		}
	}

	return result, nil
}

func (s *MatrixRunner) runCell(cfg Config, tag, testType string) CellResult {
	cell := CellResult{
		Tag:           tag,
		DriverVersion: bundle.DriverVersion(tag),
		TestType:      testType,
		State:         Init,
	}

	handler, err := s.registry.Lookup(testType)
	if err != nil {
		return cell.fail(err)
	}
	cell.resultBase = testtype.ResultBase(handler, tag)
	cell.driverName = testtype.ResultBase(handler, cell.DriverVersion)

	if err := s.executor.Checkout(cfg.DriverRepoPath, tag); err != nil {
		return cell.fail(err)
	}

	configBundle, err := s.resolver.Resolve(tag)
	if err != nil {
		return cell.fail(err)
	}
	cell.State = BundleResolved
	s.logger.Printf("Config bundle: %s (%d patch(es), %d ignored test(s))", configBundle.Name, len(configBundle.Patches), configBundle.Ignore.Len())

	if err := s.applicator.Apply(configBundle, cfg.DriverRepoPath); err != nil {
		return cell.fail(err)
	}

	var execResult executor.Result
	err = s.clusterManager.Run(cluster.Opts{
		WorkDir:       cfg.DriverRepoPath,
		ServerVersion: cfg.ServerVersion,
		Nodes:         cfg.ClusterNodes,
	}, func(c cluster.Cluster) error {
		cell.State = ClusterReady

		var err error
		execResult, err = s.executor.Execute(executor.Params{
			WorkDir:        cfg.DriverRepoPath,
			ResultsDir:     cfg.ResultsDir,
			Tag:            tag,
			Handler:        handler,
			ServerVersion:  cfg.ServerVersion,
			ConnectionEnvs: cluster.ConnectionEnvs(c.Nodes, cluster.CQLPort),
			TestThreads:    cfg.TestThreads,
			ExtraArgs:      cfg.TestOptions,
		})
		return err
	})
	if execResult.TestLog != "" {
		if logErr := s.outputExporter.ExportTestLog(cfg.LogsDir, cell.resultBase, execResult.TestLog); logErr != nil {
			s.logger.Warnf("Failed to save the test log: %s", logErr)
		}
	}
	if err != nil {
		return cell.fail(err)
	}
	cell.State = Executed

	summary, err := s.reconciler.Reconcile(execResult.ReportPath, configBundle.Ignore, tag)
	if err != nil {
		return cell.fail(err)
	}
	cell.Summary = &summary
	cell.State = Reconciled

	if err := s.exportCellResults(cfg, cell, execResult.ReportPath); err != nil {
		return cell.fail(err)
	}
	cell.State = Done

	return cell
}

func (s *MatrixRunner) exportCellResults(cfg Config, cell CellResult, reportPath string) error {
	summaryPath := filepath.Join(cfg.ResultsDir, junit.SummaryReportName(cell.TestType, cell.Tag))
	if err := s.reconciler.WriteSummaryReport(summaryPath, *cell.Summary); err != nil {
		return fmt.Errorf("failed to write summary report: %w", err)
	}

	if _, err := s.outputExporter.ExportMetadata(cfg.ResultsDir, output.Metadata{
		DriverName:  cell.driverName,
		DriverType:  cell.TestType,
		JUnitResult: "./" + filepath.Base(reportPath),
	}); err != nil {
		return err
	}

	if cfg.ArgusResultsDir != "" {
		if err := s.outputExporter.ExportArgusResults(cfg.ResultsDir, cfg.ArgusResultsDir, cell.resultBase); err != nil {
			return err
		}
	}

	s.outputExporter.ExportTestAddonResults(reportPath, cell.TestType+"-"+cell.Tag)

	return nil
}

func (s *MatrixRunner) exportFailureMetadata(cfg Config, cell CellResult) {
	if cell.driverName == "" {
		return
	}
	if _, err := s.outputExporter.ExportMetadata(cfg.ResultsDir, output.Metadata{
		DriverName:    cell.driverName,
		DriverType:    cell.TestType,
		FailureReason: cell.FailureReason(),
	}); err != nil {
		s.logger.Warnf("Failed to write failure metadata: %s", err)
	}
}

// prepareResultsDirs creates the output directories once per runner.
func (s *MatrixRunner) prepareResultsDirs(cfg Config) error {
	if s.resultsDirsReady {
		return nil
	}

	for _, dir := range []string{cfg.ResultsDir, cfg.ArgusResultsDir, cfg.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}
	}

	s.resultsDirsReady = true
	return nil
}

func (s *MatrixRunner) logCellOutcome(cell CellResult) {
	switch {
	case cell.State == Failed:
		s.logger.Errorf("%s (%s) failed in state %s: %s", cell.Tag, cell.TestType, cell.failedIn, cell.Err)
	case cell.Failed():
		s.logger.Errorf("%s (%s) finished with test failures: %s", cell.Tag, cell.TestType, cell.Summary.Total)
	default:
		s.logger.Donef("%s (%s) passed: %s", cell.Tag, cell.TestType, cell.Summary.Total)
	}
}

// ExportOpts ...
type ExportOpts struct {
	DriverRepoPath string
	Result         Result
}

// Export publishes the matrix outcome: run status, zipped results and test logs, report mail.
func (s *MatrixRunner) Export(opts ExportOpts) error {
	failed := opts.Result.Failed()
	s.outputExporter.ExportTestRunResult(failed)

	if opts.Result.DeployDir != "" {
		if err := s.outputExporter.ExportResults(opts.Result.DeployDir, opts.Result.ResultsDir); err != nil {
			return err
		}
		if opts.Result.LogsDir != "" && hasEntries(opts.Result.LogsDir) {
			if err := s.outputExporter.ExportTestLogs(opts.Result.DeployDir, opts.Result.LogsDir); err != nil {
				s.logger.Warnf("Failed to export test logs: %s", err)
			}
		}
	}

	remote, err := s.repository.OriginRemote(opts.DriverRepoPath)
	if err != nil {
		s.logger.Warnf("Failed to read the driver remote: %s", err)
		remote = opts.DriverRepoPath
	}

	if err := s.notifier.Notify(newReport(opts.Result, remote)); err != nil {
		s.logger.Warnf("%s", err)
	}

	return nil
}

func newReport(result Result, remote string) notify.Report {
	report := notify.Report{
		Status:       notify.StatusSuccess,
		DriverRemote: remote,
	}
	if result.Failed() {
		report.Status = notify.StatusFailed
	}

	for _, cell := range result.Cells {
		cellReport := notify.CellReport{
			DriverVersion: cell.Tag,
			TestType:      cell.TestType,
			Summary:       cell.Summary,
		}
		if cell.State == Failed {
			cellReport.Summary = nil
			cellReport.Exception = cell.FailureReason()
		}
		report.Cells = append(report.Cells, cellReport)
	}
	return report
}

func isMatrixFatal(err error) bool {
	return errors.Is(err, ipprefix.ErrResourceExhausted) || errors.Is(err, bundle.ErrStoreUnavailable)
}

func logsDir(resultsDir string) string {
	return filepath.Join(filepath.Dir(resultsDir), "test_logs")
}

func hasEntries(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
