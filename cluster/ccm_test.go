package cluster_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/cluster"
	"github.com/bitrise-steplib/steps-driver-matrix/cluster/mocks"
	"github.com/bitrise-steplib/steps-driver-matrix/drivercommand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_GivenCCM_WhenSessionLifecycleRuns_ThenIssuesCCMCommands(t *testing.T) {
	// Given
	workDir := t.TempDir()
	configDir := filepath.Join(workDir, "ccm")
	runner := mocks.NewRunner(t)
	var calls []string
	runner.On("Run", mock.Anything).Return(func(params drivercommand.Params) (drivercommand.Output, error) {
		assert.Equal(t, "ccm", params.Name)
		assert.Equal(t, configDir, params.Dir)
		calls = append(calls, strings.Join(params.Args, " "))
		if params.Args[0] == "liveset" {
			return drivercommand.Output{RawOut: []byte("127.0.2.1,127.0.2.2\n")}, nil
		}
		return drivercommand.Output{}, nil
	})
	factory := cluster.NewCCMSessionFactory(log.NewLogger(), runner)

	// When
	session, err := factory.Create(cluster.Opts{WorkDir: workDir, ServerVersion: "release:5.4", Nodes: 2}, "127.0.2.")
	require.NoError(t, err)
	descriptor, err := session.Start()
	require.NoError(t, err)
	nodes := session.NodeAddresses()
	require.NoError(t, session.Remove())

	// Then
	assert.DirExists(t, configDir)
	assert.Equal(t, "-rf=2 -clusterSize=2 -cluster=127.0.2.1,127.0.2.2", descriptor)
	assert.Equal(t, map[string]string{"node1": "127.0.2.1", "node2": "127.0.2.2"}, nodes)
	assert.Equal(t, []string{
		"create test --scylla -v release:5.4 -n 2 -i 127.0.2. --config-dir " + configDir,
		"start --wait-for-binary-proto --config-dir " + configDir,
		"liveset --config-dir " + configDir,
		"remove --config-dir " + configDir,
	}, calls)
}

func Test_GivenCreateFails_WhenSessionCreated_ThenPartialClusterIsRemoved(t *testing.T) {
	// Given
	workDir := t.TempDir()
	configDir := filepath.Join(workDir, "ccm")
	runner := mocks.NewRunner(t)
	createArgs := []string{"create", "test", "--scylla", "-v", "release:5.4", "-n", "3", "-i", "127.0.3.", "--config-dir", configDir}
	runner.On("Run", drivercommand.Params{Name: "ccm", Args: createArgs, Dir: configDir}).
		Return(drivercommand.Output{RawOut: []byte("relocatable download failed")}, drivercommand.ErrExternalCommandFailed).Once()
	runner.On("Run", drivercommand.Params{Name: "ccm", Args: []string{"remove", "test", "--config-dir", configDir}, Dir: configDir}).
		Return(drivercommand.Output{}, nil).Once()
	factory := cluster.NewCCMSessionFactory(log.NewLogger(), runner)

	// When
	session, err := factory.Create(cluster.Opts{WorkDir: workDir, ServerVersion: "release:5.4", Nodes: 3}, "127.0.3.")

	// Then
	assert.Nil(t, session)
	assert.True(t, errors.Is(err, drivercommand.ErrExternalCommandFailed))
	assert.Contains(t, err.Error(), "relocatable download failed")
}
