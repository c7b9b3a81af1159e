package drivercommand

import (
	"errors"
	"testing"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenSucceedingCommand_WhenRuns_ThenCapturesOutput(t *testing.T) {
	// Given
	r := createRunner()
	dir := t.TempDir()

	// When
	out, err := r.Run(Shell(dir, "echo $GREETING; pwd", []string{"GREETING=hello"}))

	// Then
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.Contains(t, out.TrimmedOut(), "hello")
	assert.Contains(t, out.TrimmedOut(), dir)
}

func Test_GivenFailingCommand_WhenRuns_ThenReturnsExitCodeAndExternalCommandError(t *testing.T) {
	// Given
	r := createRunner()

	// When
	out, err := r.Run(Shell(t.TempDir(), "echo broken >&2; exit 3", nil))

	// Then
	assert.True(t, errors.Is(err, ErrExternalCommandFailed))
	assert.Equal(t, 3, out.ExitCode)
	assert.Equal(t, "broken", out.TrimmedOut())
}

func createRunner() Runner {
	return NewRunner(log.NewLogger(), command.NewFactory(env.NewRepository()))
}
