package sphinx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSphinxBuildSkipEnv(t *testing.T) {
	t.Setenv(EnvSkipSphinx, "1")

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, RunSphinxBuild(t.TempDir(), dst))

	st, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, st.IsDir())
}
