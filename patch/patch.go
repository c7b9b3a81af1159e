package patch

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/bundle"
	"github.com/bitrise-steplib/steps-driver-matrix/drivercommand"
	"github.com/bitrise-steplib/steps-driver-matrix/fileremover"
)

var fixtureConflictRegexp = regexp.MustCompile(`error: (.+): already exists in working directory`)

// DefaultDisplaceableFixtures are the test scaffolding paths of a driver checkout.
var DefaultDisplaceableFixtures = []string{"tests/*", "tests/*/*", "*/tests/*", "*/tests/*/*"}

// PatchError ...
type PatchError struct {
	Patch  string
	Output string
	Err    error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("patch %s can not be applied: %s: %s", filepath.Base(e.Patch), e.Err, e.Output)
}

func (e *PatchError) Unwrap() error {
	return e.Err
}

// Applicator ...
type Applicator interface {
	Apply(b bundle.Bundle, workDir string) error
}

type applicator struct {
	logger      log.Logger
	runner      drivercommand.Runner
	fileRemover fileremover.FileRemover
	fixtures    []string
}

// NewApplicator returns an applicator which may displace the checkout files matching
// the fixtures glob patterns when they block a patch. Without patterns nothing is displaced.
func NewApplicator(logger log.Logger, runner drivercommand.Runner, fileRemover fileremover.FileRemover, fixtures []string) Applicator {
	return &applicator{
		logger:      logger,
		runner:      runner,
		fileRemover: fileRemover,
		fixtures:    fixtures,
	}
}

// Apply applies the bundle patches in order, every patch is checked before it lands.
func (a *applicator) Apply(b bundle.Bundle, workDir string) error {
	if len(b.Patches) == 0 {
		a.logger.Printf("No patches in bundle %s", b.Name)
		return nil
	}

	for _, pth := range b.Patches {
		a.logger.Infof("Applying patch %s", filepath.Base(pth))

		stat, err := a.git(workDir, "apply", "--stat", pth)
		if err != nil {
			return &PatchError{Patch: pth, Output: stat.TrimmedOut(), Err: err}
		}
		a.logger.Printf("%s", stat.TrimmedOut())

		if err := a.checkAndApply(workDir, pth, true); err != nil {
			return err
		}
	}

	return nil
}

func (a *applicator) checkAndApply(workDir, pth string, canDisplace bool) error {
	check, err := a.git(workDir, "apply", "--check", pth)
	if err != nil {
		fixture := conflictingFixture(check.TrimmedOut())
		if !canDisplace || fixture == "" || !a.isDisplaceable(fixture) {
			return &PatchError{Patch: pth, Output: check.TrimmedOut(), Err: err}
		}

		a.logger.Warnf("Patch %s conflicts with %s, removing it and retrying", filepath.Base(pth), fixture)
		if err := a.fileRemover.Remove(workDir, fixture); err != nil {
			return &PatchError{Patch: pth, Output: check.TrimmedOut(), Err: err}
		}

		return a.checkAndApply(workDir, pth, false)
	}

	out, err := a.git(workDir, "apply", pth)
	if err != nil {
		return &PatchError{Patch: pth, Output: out.TrimmedOut(), Err: err}
	}

	a.logger.Donef("Patch %s applied", filepath.Base(pth))
	return nil
}

func (a *applicator) isDisplaceable(fixture string) bool {
	for _, pattern := range a.fixtures {
		if match, err := filepath.Match(pattern, fixture); err == nil && match {
			return true
		}
	}
	return false
}

func (a *applicator) git(workDir string, args ...string) (drivercommand.Output, error) {
	return a.runner.Run(drivercommand.Params{
		Name: "git",
		Args: args,
		Dir:  workDir,
	})
}

func conflictingFixture(checkOutput string) string {
	match := fixtureConflictRegexp.FindStringSubmatch(checkOutput)
	if len(match) != 2 {
		return ""
	}
	return match[1]
}
