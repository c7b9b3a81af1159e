package main

import (
	"errors"
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-driver-matrix/bundle"
	"github.com/bitrise-steplib/steps-driver-matrix/cluster"
	"github.com/bitrise-steplib/steps-driver-matrix/drivercommand"
	"github.com/bitrise-steplib/steps-driver-matrix/executor"
	"github.com/bitrise-steplib/steps-driver-matrix/fileremover"
	"github.com/bitrise-steplib/steps-driver-matrix/gitrepo"
	"github.com/bitrise-steplib/steps-driver-matrix/ipprefix"
	"github.com/bitrise-steplib/steps-driver-matrix/junit"
	"github.com/bitrise-steplib/steps-driver-matrix/notify"
	"github.com/bitrise-steplib/steps-driver-matrix/output"
	"github.com/bitrise-steplib/steps-driver-matrix/patch"
	"github.com/bitrise-steplib/steps-driver-matrix/step"
	"github.com/bitrise-steplib/steps-driver-matrix/testaddon"
	"github.com/bitrise-steplib/steps-driver-matrix/testartifact"
	"github.com/bitrise-steplib/steps-driver-matrix/testtype"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()
	envRepository := env.NewRepository()
	cmdFactory := command.NewFactory(envRepository)
	runner := drivercommand.NewRunner(logger, cmdFactory)
	repository := gitrepo.NewRepository(logger, runner)
	registry := testtype.DefaultRegistry()

	configParser := step.NewMatrixConfigParser(stepconf.NewInputParser(envRepository), logger, registry, repository, pathutil.NewPathModifier())
	config, err := configParser.ProcessConfig()
	if err != nil {
		logger.Println()
		logger.Errorf("Process config: %s", err)
		return 1
	}

	matrixRunner := createMatrixRunner(logger, envRepository, cmdFactory, runner, repository, registry, config)

	result, runErr := matrixRunner.Run(config)

	logger.Println()
	logger.Infof("Exporting outputs")
	exportErr := matrixRunner.Export(step.ExportOpts{
		DriverRepoPath: config.DriverRepoPath,
		Result:         result,
	})

	if runErr != nil {
		logger.Println()
		logger.Errorf("Run: %s", runErr)
		if errors.Is(runErr, ipprefix.ErrResourceExhausted) {
			logger.Warnf("Every ip prefix is taken: check for clusters left behind by other runs on this machine (ccm list).")
		}
		return 1
	}
	if exportErr != nil {
		logger.Println()
		logger.Errorf("Export outputs: %s", exportErr)
		return 1
	}
	if result.Failed() {
		logger.Println()
		logger.Errorf("Driver matrix failed")
		return 1
	}

	logger.Println()
	logger.Donef("Driver matrix passed")
	return 0
}

func createMatrixRunner(
	logger log.Logger,
	envRepository env.Repository,
	cmdFactory command.Factory,
	runner drivercommand.Runner,
	repository gitrepo.Repository,
	registry testtype.Registry,
	config step.Config,
) *step.MatrixRunner {
	fileManager := fileutil.NewFileManager()
	collector := testartifact.NewCollector(logger)

	resolver := bundle.NewResolver(config.ConfigStoreDir, logger, pathutil.NewPathChecker())
	applicator := patch.NewApplicator(logger, runner, fileremover.NewFileRemover(logger), config.DisplaceableFixtures)
	clusterManager := cluster.NewManager(logger, ipprefix.NewAllocator(logger), cluster.NewCCMSessionFactory(logger, runner))
	testExecutor := executor.NewExecutor(logger, runner, repository, collector)
	reconciler := junit.NewReconciler(logger, fileManager)
	outputExporter := output.NewExporter(
		envRepository,
		logger,
		fileManager,
		export.NewExporter(cmdFactory),
		testaddon.NewExporter(testaddon.NewTestAddon(logger, cmdFactory, fileManager)),
		collector,
	)
	notifier := notify.NewNotifier(logger, config.SMTP, config.Recipients)

	return step.NewMatrixRunner(logger, resolver, applicator, clusterManager, testExecutor, reconciler, outputExporter, notifier, repository, registry)
}
