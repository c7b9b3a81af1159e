package testartifact

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenResultFiles_WhenCollectedWithMove_ThenOnlyPrefixedFilesAreMoved(t *testing.T) {
	// Given
	fromDir, toDir := prepareResults(t)

	// When
	collected, err := NewCollector(log.NewLogger()).Collect(fromDir, toDir, "rust_results_v0.13.0", true)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(toDir, "rust_results_v0.13.0.json"),
		filepath.Join(toDir, "rust_results_v0.13.0.xml"),
	}, collected)
	assert.NoFileExists(t, filepath.Join(fromDir, "rust_results_v0.13.0.xml"))
	assert.FileExists(t, filepath.Join(fromDir, "Cargo.toml"))
	assert.NoFileExists(t, filepath.Join(toDir, "Cargo.toml"))
}

func Test_GivenResultFilesOfLongerTag_WhenCollected_ThenTheyAreLeftInPlace(t *testing.T) {
	// Given
	fromDir, toDir := prepareResults(t)

	// When
	collected, err := NewCollector(log.NewLogger()).Collect(fromDir, toDir, "rust_results_v0.13.0", true)

	// Then
	require.NoError(t, err)
	assert.NotContains(t, collected, filepath.Join(toDir, "rust_results_v0.13.0-rc1.xml"))
	assert.FileExists(t, filepath.Join(fromDir, "rust_results_v0.13.0-rc1.xml"))
	assert.NoFileExists(t, filepath.Join(toDir, "rust_results_v0.13.0-rc1.xml"))
}

func Test_GivenResultFiles_WhenCollectedWithCopy_ThenSourcesAreKept(t *testing.T) {
	// Given
	fromDir, toDir := prepareResults(t)

	// When
	_, err := NewCollector(log.NewLogger()).Collect(fromDir, toDir, "rust_results_v0.13.0", false)

	// Then
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(fromDir, "rust_results_v0.13.0.xml"))
	assert.FileExists(t, filepath.Join(toDir, "rust_results_v0.13.0.xml"))
}

func Test_GivenNoResultFiles_WhenCollected_ThenFailsWithNoResults(t *testing.T) {
	// Given
	fromDir, toDir := prepareResults(t)

	// When
	_, err := NewCollector(log.NewLogger()).Collect(fromDir, toDir, "rust_results_v0.1.0", true)

	// Then
	assert.True(t, errors.Is(err, ErrNoResults))
}

func prepareResults(t *testing.T) (string, string) {
	tempDir := t.TempDir()
	fromDir := filepath.Join(tempDir, "driver")
	toDir := filepath.Join(tempDir, "results")

	fileManager := fileutil.NewFileManager()
	for _, name := range []string{"rust_results_v0.13.0.xml", "rust_results_v0.13.0.json", "rust_results_v0.13.0-rc1.xml", "Cargo.toml"} {
		require.NoError(t, fileManager.Write(filepath.Join(fromDir, name), name, 0600))
	}

	return fromDir, toDir
}
