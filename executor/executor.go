package executor

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/drivercommand"
	"github.com/bitrise-steplib/steps-driver-matrix/gitrepo"
	"github.com/bitrise-steplib/steps-driver-matrix/testartifact"
	"github.com/bitrise-steplib/steps-driver-matrix/testtype"
)

const (
	serverVersionEnvKey = "SCYLLA_VERSION"
	testThreadsEnvKey   = "RUST_TEST_THREADS"
)

// Params ...
type Params struct {
	WorkDir    string
	ResultsDir string
	Tag        string
	Handler    testtype.Handler

	ServerVersion  string
	ConnectionEnvs []string
	// TestThreads is handed to the test harness, 0 keeps its default.
	TestThreads int
	ExtraArgs   []string
}

// Result ...
type Result struct {
	ReportPath   string
	ResultFiles  []string
	TestLog      string
	TestExitCode int
}

// Executor ...
type Executor interface {
	Checkout(workDir, tag string) error
	Execute(params Params) (Result, error)
}

type executor struct {
	logger    log.Logger
	runner    drivercommand.Runner
	repo      gitrepo.Repository
	collector testartifact.Collector
}

// NewExecutor ...
func NewExecutor(logger log.Logger, runner drivercommand.Runner, repo gitrepo.Repository, collector testartifact.Collector) Executor {
	return &executor{
		logger:    logger,
		runner:    runner,
		repo:      repo,
		collector: collector,
	}
}

func (e *executor) Checkout(workDir, tag string) error {
	return e.repo.Checkout(workDir, tag)
}

// Execute builds and runs the test suite, then moves its result files to the results dir.
// A failing test command is not an error: failures are read from the report.
func (e *executor) Execute(params Params) (Result, error) {
	envs := e.environment(params)

	if build := params.Handler.BuildCommand(); build != "" {
		e.logger.Infof("Building %s tests", params.Handler.Type())
		out, err := e.runner.Run(shellParams(params.WorkDir, build, envs))
		if err != nil {
			printLastLinesOfLog(e.logger, out.TrimmedOut(), false)
			return Result{}, fmt.Errorf("build failed: %w", err)
		}
	}

	resultBase := testtype.ResultBase(params.Handler, params.Tag)
	testCommand := params.Handler.TestCommand(resultBase, params.ExtraArgs)

	e.logger.Infof("Running %s tests", params.Handler.Type())
	e.logger.Printf("Test command: %s", testCommand)
	out, err := e.runner.Run(shellParams(params.WorkDir, testCommand, envs))
	if err != nil {
		e.logger.Warnf("Test command failed (exit code: %d): %s", out.ExitCode, err)
	}
	printLastLinesOfLog(e.logger, out.TrimmedOut(), err == nil)

	result := Result{
		TestLog:      string(out.RawOut),
		TestExitCode: out.ExitCode,
	}

	files, err := e.collector.Collect(params.WorkDir, params.ResultsDir, resultBase, true)
	if err != nil {
		return result, err
	}

	result.ResultFiles = files
	result.ReportPath = filepath.Join(params.ResultsDir, resultBase+".xml")
	return result, nil
}

func shellParams(dir, script string, envs []string) drivercommand.Params {
	params := drivercommand.Shell(dir, script, envs)
	params.Progress = true
	return params
}

func (e *executor) environment(params Params) []string {
	envs := []string{fmt.Sprintf("%s=%s", serverVersionEnvKey, params.ServerVersion)}
	envs = append(envs, params.ConnectionEnvs...)
	if params.TestThreads > 0 {
		envs = append(envs, testThreadsEnvKey+"="+strconv.Itoa(params.TestThreads))
	}
	return envs
}
