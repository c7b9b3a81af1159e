package patch

import (
	"errors"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/bundle"
	"github.com/bitrise-steplib/steps-driver-matrix/drivercommand"
	"github.com/bitrise-steplib/steps-driver-matrix/patch/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const workDir = "/driver"

var errExit = errors.New("exit status 1")

type testingMocks struct {
	runner      *mocks.Runner
	fileRemover *mocks.FileRemover
}

func Test_GivenBundleWithoutPatches_WhenApplies_ThenRunsNothing(t *testing.T) {
	// Given
	applicator, mocks := createApplicatorAndMocks(t, nil)

	// When
	err := applicator.Apply(bundle.Bundle{Name: "1.0.0"}, workDir)

	// Then
	assert.NoError(t, err)
	mocks.runner.AssertNotCalled(t, "Run", mock.Anything)
}

func Test_GivenPatches_WhenApplies_ThenStatCheckApplyInOrder(t *testing.T) {
	// Given
	applicator, mocks := createApplicatorAndMocks(t, nil)
	var calls []string
	mocks.runner.On("Run", mock.Anything).Return(func(params drivercommand.Params) (drivercommand.Output, error) {
		assert.Equal(t, "git", params.Name)
		assert.Equal(t, workDir, params.Dir)
		calls = append(calls, strings.Join(params.Args, " "))
		return drivercommand.Output{}, nil
	})

	// When
	err := applicator.Apply(bundle.Bundle{Patches: []string{"/store/1.0.0/patch_1", "/store/1.0.0/patch_2"}}, workDir)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{
		"apply --stat /store/1.0.0/patch_1",
		"apply --check /store/1.0.0/patch_1",
		"apply /store/1.0.0/patch_1",
		"apply --stat /store/1.0.0/patch_2",
		"apply --check /store/1.0.0/patch_2",
		"apply /store/1.0.0/patch_2",
	}, calls)
}

func Test_GivenFixtureConflict_WhenApplies_ThenRemovesFixtureAndRetriesOnce(t *testing.T) {
	// Given
	applicator, mocks := createApplicatorAndMocks(t, []string{"tests/*"})
	checks := 0
	mocks.runner.On("Run", mock.Anything).Return(func(params drivercommand.Params) (drivercommand.Output, error) {
		if params.Args[1] == "--check" {
			checks++
			if checks == 1 {
				return output("error: tests/conftest.py: already exists in working directory"), errExit
			}
		}
		return drivercommand.Output{}, nil
	})
	mocks.fileRemover.On("Remove", workDir, "tests/conftest.py").Return(nil).Once()

	// When
	err := applicator.Apply(bundle.Bundle{Patches: []string{"patch_1"}}, workDir)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 2, checks)
	mocks.runner.AssertCalled(t, "Run", drivercommand.Params{Name: "git", Args: []string{"apply", "patch_1"}, Dir: workDir})
}

func Test_GivenFixtureConflictPersists_WhenApplies_ThenFailsAfterSingleRetry(t *testing.T) {
	// Given
	applicator, mocks := createApplicatorAndMocks(t, []string{"tests/*"})
	checks := 0
	mocks.runner.On("Run", mock.Anything).Return(func(params drivercommand.Params) (drivercommand.Output, error) {
		if params.Args[1] == "--check" {
			checks++
			return output("error: tests/conftest.py: already exists in working directory"), errExit
		}
		return drivercommand.Output{}, nil
	})
	mocks.fileRemover.On("Remove", workDir, "tests/conftest.py").Return(nil).Once()

	// When
	err := applicator.Apply(bundle.Bundle{Patches: []string{"patch_1"}}, workDir)

	// Then
	var patchErr *PatchError
	require.True(t, errors.As(err, &patchErr))
	assert.Equal(t, "patch_1", patchErr.Patch)
	assert.Equal(t, 2, checks)
}

func Test_GivenOtherCheckFailure_WhenApplies_ThenFailsWithoutRemovingAnything(t *testing.T) {
	// Given
	applicator, mocks := createApplicatorAndMocks(t, nil)
	mocks.runner.On("Run", mock.Anything).Return(func(params drivercommand.Params) (drivercommand.Output, error) {
		if params.Args[1] == "--check" {
			return output("error: patch failed: src/lib.rs:12"), errExit
		}
		return drivercommand.Output{}, nil
	})

	// When
	err := applicator.Apply(bundle.Bundle{Patches: []string{"patch_1", "patch_2"}}, workDir)

	// Then
	var patchErr *PatchError
	require.True(t, errors.As(err, &patchErr))
	assert.Contains(t, patchErr.Output, "patch failed")
	mocks.fileRemover.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	mocks.runner.AssertNotCalled(t, "Run", drivercommand.Params{Name: "git", Args: []string{"apply", "--stat", "patch_2"}, Dir: workDir})
}

func Test_GivenConflictOutsideFixturePatterns_WhenApplies_ThenFails(t *testing.T) {
	// Given
	applicator, mocks := createApplicatorAndMocks(t, []string{"tests/*"})
	mocks.runner.On("Run", mock.Anything).Return(func(params drivercommand.Params) (drivercommand.Output, error) {
		if params.Args[1] == "--check" {
			return output("error: src/lib.rs: already exists in working directory"), errExit
		}
		return drivercommand.Output{}, nil
	})

	// When
	err := applicator.Apply(bundle.Bundle{Patches: []string{"patch_1"}}, workDir)

	// Then
	var patchErr *PatchError
	assert.True(t, errors.As(err, &patchErr))
	mocks.fileRemover.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func Test_GivenNoFixturePatterns_WhenConflictOccurs_ThenNothingIsDisplaced(t *testing.T) {
	// Given
	applicator, mocks := createApplicatorAndMocks(t, nil)
	mocks.runner.On("Run", mock.Anything).Return(func(params drivercommand.Params) (drivercommand.Output, error) {
		if params.Args[1] == "--check" {
			return output("error: tests/conftest.py: already exists in working directory"), errExit
		}
		return drivercommand.Output{}, nil
	})

	// When
	err := applicator.Apply(bundle.Bundle{Patches: []string{"patch_1"}}, workDir)

	// Then
	var patchErr *PatchError
	assert.True(t, errors.As(err, &patchErr))
	mocks.fileRemover.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func Test_GivenDefaultFixturePatterns_WhenMatching_ThenOnlyTestScaffoldingIsDisplaceable(t *testing.T) {
	// Given
	a := &applicator{fixtures: DefaultDisplaceableFixtures}

	// Then
	assert.True(t, a.isDisplaceable("tests/conftest.py"))
	assert.True(t, a.isDisplaceable("scylla/tests/integration/utils.rs"))
	assert.False(t, a.isDisplaceable("scylla/src/lib.rs"))
	assert.False(t, a.isDisplaceable("Cargo.toml"))
}

// Helpers

func createApplicatorAndMocks(t *testing.T, fixtures []string) (Applicator, testingMocks) {
	runner := mocks.NewRunner(t)
	fileRemover := mocks.NewFileRemover(t)

	applicator := NewApplicator(log.NewLogger(), runner, fileRemover, fixtures)

	return applicator, testingMocks{
		runner:      runner,
		fileRemover: fileRemover,
	}
}

func output(s string) drivercommand.Output {
	return drivercommand.Output{RawOut: []byte(s), ExitCode: 1}
}
