package cluster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/retry"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/drivercommand"
)

const (
	ccmTool        = "ccm"
	ccmClusterName = "test"
	ccmDirName     = "ccm"
)

type ccmSessionFactory struct {
	logger log.Logger
	runner drivercommand.Runner
}

// NewCCMSessionFactory returns sessions driving scylla-ccm.
func NewCCMSessionFactory(logger log.Logger, runner drivercommand.Runner) SessionFactory {
	return &ccmSessionFactory{
		logger: logger,
		runner: runner,
	}
}

func (f *ccmSessionFactory) Create(opts Opts, ipPrefix string) (Session, error) {
	configDir := filepath.Join(opts.WorkDir, ccmDirName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cluster directory (%s): %w", configDir, err)
	}

	s := &ccmSession{
		logger:    f.logger,
		runner:    f.runner,
		configDir: configDir,
		ipPrefix:  ipPrefix,
		nodes:     opts.Nodes,
	}

	if _, err := s.ccm("create", ccmClusterName,
		"--scylla",
		"-v", opts.ServerVersion,
		"-n", fmt.Sprintf("%d", opts.Nodes),
		"-i", ipPrefix,
	); err != nil {
		// A failed create may leave a partial cluster behind.
		if _, removeErr := s.ccm("remove", ccmClusterName); removeErr != nil {
			f.logger.Debugf("Removing the partially created test cluster: %s", removeErr)
		}
		return nil, err
	}

	return s, nil
}

type ccmSession struct {
	logger    log.Logger
	runner    drivercommand.Runner
	configDir string
	ipPrefix  string
	nodes     int
}

func (s *ccmSession) Start() (string, error) {
	if _, err := s.ccm("start", "--wait-for-binary-proto"); err != nil {
		return "", err
	}

	out, err := s.ccm("liveset")
	if err != nil {
		return "", err
	}

	var live []string
	for _, address := range strings.Split(out.TrimmedOut(), ",") {
		if address = strings.TrimSpace(address); address != "" {
			live = append(live, address)
		}
	}
	s.logger.Printf("Live nodes: %v", live)

	return Descriptor(s.nodes, live), nil
}

// NodeAddresses follows the ccm numbering: node<i> listens on <prefix><i>.
func (s *ccmSession) NodeAddresses() map[string]string {
	addresses := map[string]string{}
	for i := 1; i <= s.nodes; i++ {
		addresses[fmt.Sprintf("%s%d", nodePrefix, i)] = fmt.Sprintf("%s%d", s.ipPrefix, i)
	}
	return addresses
}

func (s *ccmSession) Remove() error {
	return retry.Times(2).Wait(5 * time.Second).Try(func(attempt uint) error {
		if attempt > 0 {
			s.logger.Warnf("%d. attempt to remove test cluster", attempt+1)
		}
		_, err := s.ccm("remove")
		return err
	})
}

func (s *ccmSession) ccm(args ...string) (drivercommand.Output, error) {
	args = append(args, "--config-dir", s.configDir)
	out, err := s.runner.Run(drivercommand.Params{
		Name: ccmTool,
		Args: args,
		Dir:  s.configDir,
	})
	if err != nil {
		return out, fmt.Errorf("%w, output: %s", err, out.TrimmedOut())
	}
	return out, nil
}
