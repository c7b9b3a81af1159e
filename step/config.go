package step

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-driver-matrix/cluster"
	"github.com/bitrise-steplib/steps-driver-matrix/gitrepo"
	"github.com/bitrise-steplib/steps-driver-matrix/notify"
	"github.com/bitrise-steplib/steps-driver-matrix/patch"
	"github.com/bitrise-steplib/steps-driver-matrix/testtype"
	shellquote "github.com/kballard/go-shellquote"
)

const defaultSMTPPort = 587

// Input ...
type Input struct {
	// Driver
	DriverRepoPath      string   `env:"driver_repo_path,required,dir"`
	Versions            []string `env:"versions"`
	LatestVersionsCount int      `env:"latest_versions_count"`
	TagPattern          string   `env:"tag_pattern"`

	// Test run
	TestTypes            []string `env:"test_types,required"`
	ServerVersion        string   `env:"server_version,required"`
	ConfigStoreDir       string   `env:"config_store_dir,required,dir"`
	ClusterNodes         int      `env:"cluster_nodes"`
	TestThreads          int      `env:"test_threads"`
	TestOptions          string   `env:"test_options"`
	DisplaceableFixtures []string `env:"displaceable_fixtures"`

	// Results
	ResultsDir      string `env:"results_dir,required"`
	ArgusResultsDir string `env:"argus_results_dir"`
	DeployDir       string `env:"BITRISE_DEPLOY_DIR"`

	// Notification
	Recipients   []string        `env:"recipients"`
	SMTPHost     string          `env:"smtp_host"`
	SMTPPort     int             `env:"smtp_port"`
	SMTPUsername string          `env:"smtp_username"`
	SMTPPassword stepconf.Secret `env:"smtp_password"`
	SMTPSender   string          `env:"smtp_sender"`

	// Debug
	Verbose bool `env:"verbose,opt[yes,no]"`
}

// Config ...
type Config struct {
	DriverRepoPath string
	Tags           []string
	TestTypes      []string

	ServerVersion        string
	ConfigStoreDir       string
	ClusterNodes         int
	TestThreads          int
	TestOptions          []string
	DisplaceableFixtures []string

	ResultsDir      string
	ArgusResultsDir string
	LogsDir         string
	DeployDir       string

	Recipients []string
	SMTP       notify.SMTPConfig
}

// MatrixConfigParser ...
type MatrixConfigParser struct {
	inputParser  stepconf.InputParser
	logger       log.Logger
	registry     testtype.Registry
	repository   gitrepo.Repository
	pathModifier pathutil.PathModifier
}

// NewMatrixConfigParser ...
func NewMatrixConfigParser(inputParser stepconf.InputParser, logger log.Logger, registry testtype.Registry, repository gitrepo.Repository, pathModifier pathutil.PathModifier) MatrixConfigParser {
	return MatrixConfigParser{
		inputParser:  inputParser,
		logger:       logger,
		registry:     registry,
		repository:   repository,
		pathModifier: pathModifier,
	}
}

// ProcessConfig ...
func (p MatrixConfigParser) ProcessConfig() (Config, error) {
	var input Input
	if err := p.inputParser.Parse(&input); err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	p.logger.Println()

	p.logger.EnableDebugLog(input.Verbose)

	testTypes := nonEmpty(input.TestTypes)
	if err := p.registry.Validate(testTypes); err != nil {
		return Config{}, fmt.Errorf("issue with input test_types: %w", err)
	}

	clusterNodes := input.ClusterNodes
	if clusterNodes == 0 {
		clusterNodes = cluster.DefaultNodes
	}
	if clusterNodes < 1 {
		return Config{}, fmt.Errorf("issue with input cluster_nodes: should be at least 1, got: %d", clusterNodes)
	}
	if input.TestThreads < 0 {
		return Config{}, fmt.Errorf("issue with input test_threads: should not be negative, got: %d", input.TestThreads)
	}

	testOptions, err := shellquote.Split(input.TestOptions)
	if err != nil {
		return Config{}, fmt.Errorf("provided test_options (%s) are not valid CLI parameters: %w", input.TestOptions, err)
	}

	driverRepoPath, err := p.pathModifier.AbsPath(input.DriverRepoPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute driver repository path: %w", err)
	}

	tags, err := p.driverTags(driverRepoPath, input)
	if err != nil {
		return Config{}, err
	}

	resultsDir, err := p.pathModifier.AbsPath(input.ResultsDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute results path: %w", err)
	}

	argusResultsDir := input.ArgusResultsDir
	if argusResultsDir != "" {
		if argusResultsDir, err = p.pathModifier.AbsPath(argusResultsDir); err != nil {
			return Config{}, fmt.Errorf("failed to get absolute argus results path: %w", err)
		}
	}

	recipients := nonEmpty(input.Recipients)
	smtpPort := input.SMTPPort
	if smtpPort == 0 {
		smtpPort = defaultSMTPPort
	}
	if len(recipients) > 0 && (input.SMTPHost == "" || input.SMTPSender == "") {
		return Config{}, errors.New("smtp_host and smtp_sender are required when recipients are set")
	}

	return Config{
		DriverRepoPath: driverRepoPath,
		Tags:           tags,
		TestTypes:      testTypes,

		ServerVersion:        input.ServerVersion,
		ConfigStoreDir:       input.ConfigStoreDir,
		ClusterNodes:         clusterNodes,
		TestThreads:          input.TestThreads,
		TestOptions:          testOptions,
		DisplaceableFixtures: displaceableFixtures(input.DisplaceableFixtures),

		ResultsDir:      resultsDir,
		ArgusResultsDir: argusResultsDir,
		LogsDir:         logsDir(resultsDir),
		DeployDir:       input.DeployDir,

		Recipients: recipients,
		SMTP: notify.SMTPConfig{
			Host:     input.SMTPHost,
			Port:     smtpPort,
			Username: input.SMTPUsername,
			Password: string(input.SMTPPassword),
			From:     input.SMTPSender,
		},
	}, nil
}

func (p MatrixConfigParser) driverTags(driverRepoPath string, input Input) ([]string, error) {
	if input.LatestVersionsCount < 0 {
		return nil, fmt.Errorf("issue with input latest_versions_count: should not be negative, got: %d", input.LatestVersionsCount)
	}

	if input.LatestVersionsCount == 0 {
		tags := nonEmpty(input.Versions)
		if len(tags) == 0 {
			return nil, errors.New("no driver versions to test: set versions or latest_versions_count")
		}
		return tags, nil
	}

	var pattern *regexp.Regexp
	if input.TagPattern != "" {
		var err error
		if pattern, err = regexp.Compile(input.TagPattern); err != nil {
			return nil, fmt.Errorf("issue with input tag_pattern: %w", err)
		}
	}

	tags, err := p.repository.LatestTags(driverRepoPath, input.LatestVersionsCount, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to select the latest driver versions: %w", err)
	}
	if len(tags) == 0 {
		return nil, errors.New("no driver tag matches the latest versions selection")
	}
	return tags, nil
}

func displaceableFixtures(patterns []string) []string {
	if patterns = nonEmpty(patterns); len(patterns) > 0 {
		return patterns
	}
	return append([]string(nil), patch.DefaultDisplaceableFixtures...)
}

func nonEmpty(items []string) []string {
	var result []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
