package cluster

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/ipprefix"
)

const (
	// DefaultNodes ...
	DefaultNodes = 3
	// CQLPort is the native protocol port every node listens on.
	CQLPort = 9042

	uriEnvKey  = "SCYLLA_URI"
	nodePrefix = "node"
)

// Opts ...
type Opts struct {
	// WorkDir is the driver checkout, cluster files are kept under it.
	WorkDir       string
	ServerVersion string
	Nodes         int
}

// Cluster is a started cluster handed to the test run.
type Cluster struct {
	IPPrefix   string
	Descriptor string
	Nodes      map[string]string
}

// Session is one cluster of the external cluster manager.
type Session interface {
	Start() (string, error)
	NodeAddresses() map[string]string
	Remove() error
}

// SessionFactory ...
type SessionFactory interface {
	Create(opts Opts, ipPrefix string) (Session, error)
}

// Manager ...
type Manager interface {
	Run(opts Opts, fn func(c Cluster) error) error
}

type manager struct {
	logger    log.Logger
	allocator ipprefix.Allocator
	factory   SessionFactory
}

// NewManager ...
func NewManager(logger log.Logger, allocator ipprefix.Allocator, factory SessionFactory) Manager {
	return &manager{
		logger:    logger,
		allocator: allocator,
		factory:   factory,
	}
}

// Run creates and starts a cluster on a machine-unique ip prefix and calls fn with it.
// The cluster is removed and the prefix released on every return path.
func (m *manager) Run(opts Opts, fn func(c Cluster) error) error {
	lock, prefix, err := m.allocator.Acquire()
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			m.logger.Warnf("Failed to release ip prefix %s: %s", prefix, err)
		}
	}()

	m.logger.Infof("Preparing test cluster (%d nodes, version: %s)...", opts.Nodes, opts.ServerVersion)
	session, err := m.factory.Create(opts, prefix)
	if err != nil {
		return fmt.Errorf("failed to create test cluster: %w", err)
	}
	defer func() {
		m.logger.Infof("Removing test cluster...")
		if err := session.Remove(); err != nil {
			m.logger.Warnf("Failed to remove test cluster: %s", err)
			return
		}
		m.logger.Donef("Test cluster removed")
	}()

	m.logger.Infof("Starting test cluster...")
	descriptor, err := session.Start()
	if err != nil {
		return fmt.Errorf("failed to start test cluster: %w", err)
	}
	m.logger.Donef("Test cluster started: %s", descriptor)

	return fn(Cluster{
		IPPrefix:   prefix,
		Descriptor: descriptor,
		Nodes:      session.NodeAddresses(),
	})
}

// ConnectionEnvs returns the driver connection envs: SCYLLA_URI for node1, SCYLLA_URI<i> for node<i>.
func ConnectionEnvs(nodes map[string]string, port int) []string {
	type indexedNode struct {
		index   int
		name    string
		address string
	}

	var indexed []indexedNode
	for name, address := range nodes {
		index, err := strconv.Atoi(strings.TrimPrefix(name, nodePrefix))
		if err != nil {
			index = 0
		}
		indexed = append(indexed, indexedNode{index: index, name: name, address: address})
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].index != indexed[j].index {
			return indexed[i].index < indexed[j].index
		}
		return indexed[i].name < indexed[j].name
	})

	var envs []string
	for _, node := range indexed {
		key := uriEnvKey
		if node.index > 1 {
			key += strconv.Itoa(node.index)
		}
		envs = append(envs, fmt.Sprintf("%s=%s:%d", key, node.address, port))
	}
	return envs
}

// Descriptor ...
func Descriptor(nodeCount int, liveAddresses []string) string {
	return fmt.Sprintf("-rf=%d -clusterSize=%d -cluster=%s", nodeCount, nodeCount, strings.Join(liveAddresses, ","))
}
