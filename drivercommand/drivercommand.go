package drivercommand

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/progress"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
)

// ErrExternalCommandFailed marks a command which exited with a non-zero status or could not be started.
var ErrExternalCommandFailed = errors.New("external command failed")

// Output ...
type Output struct {
	RawOut   []byte
	ExitCode int
}

// TrimmedOut ...
func (o Output) TrimmedOut() string {
	return strings.TrimSpace(string(o.RawOut))
}

// Params describes one command invocation. Dir is always explicit,
// commands never depend on the working directory of the step process.
type Params struct {
	Name string
	Args []string
	Dir  string
	Envs []string
	// Progress prints a dot every minute while the command runs
	Progress bool
}

// Runner ...
type Runner interface {
	Run(params Params) (Output, error)
}

type runner struct {
	logger         log.Logger
	commandFactory command.Factory
}

// NewRunner ...
func NewRunner(logger log.Logger, commandFactory command.Factory) Runner {
	return &runner{
		logger:         logger,
		commandFactory: commandFactory,
	}
}

// Shell returns params running the script with bash, so pipes and redirects work.
func Shell(dir, script string, envs []string) Params {
	return Params{
		Name: "/bin/bash",
		Args: []string{"-c", script},
		Dir:  dir,
		Envs: envs,
	}
}

func (r *runner) Run(params Params) (Output, error) {
	var outBuffer bytes.Buffer

	cmd := r.commandFactory.Create(params.Name, params.Args, &command.Opts{
		Stdout: &outBuffer,
		Stderr: &outBuffer,
		Env:    params.Envs,
		Dir:    params.Dir,
	})

	r.logger.TPrintf("$ %s", cmd.PrintableCommandArgs())

	var (
		err      error
		exitCode int
	)
	run := func() {
		exitCode, err = cmd.RunAndReturnExitCode()
	}
	if params.Progress {
		progress.SimpleProgress(".", time.Minute, run)
	} else {
		run()
	}

	if err != nil {
		var exerr *exec.ExitError
		if errors.As(err, &exerr) {
			exitCode = exerr.ExitCode()
		} else if exitCode == 0 {
			exitCode = -1
		}

		err = fmt.Errorf("%w: %s (exit code: %d): %s", ErrExternalCommandFailed, cmd.PrintableCommandArgs(), exitCode, err)
	}

	return Output{
		RawOut:   outBuffer.Bytes(),
		ExitCode: exitCode,
	}, err
}
