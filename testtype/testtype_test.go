package testtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenDefaultRegistry_WhenLooksUpRust_ThenReturnsRustHandler(t *testing.T) {
	// When
	h, err := DefaultRegistry().Lookup("rust")

	// Then
	require.NoError(t, err)
	assert.Equal(t, Rust, h.Type())
	assert.Equal(t, "rust_results_v0.13.0", ResultBase(h, "v0.13.0"))
}

func Test_GivenUnknownTestType_WhenValidates_ThenFails(t *testing.T) {
	// When
	err := DefaultRegistry().Validate([]string{"rust", "python"})

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "python")
}

func Test_GivenNoTestType_WhenValidates_ThenFails(t *testing.T) {
	assert.Error(t, DefaultRegistry().Validate(nil))
}

func Test_GivenRustHandler_WhenBuildsTestCommand_ThenPipesJsonIntoJUnit(t *testing.T) {
	// When
	cmd := NewRustHandler().TestCommand("rust_results_v0.13.0", []string{"--features", "ssl"})

	// Then
	assert.Equal(t, "cargo test --verbose --no-fail-fast --features ssl -- -Z unstable-options --format json --report-time"+
		" | tee rust_results_v0.13.0.json | cargo2junit > rust_results_v0.13.0.xml", cmd)
}
