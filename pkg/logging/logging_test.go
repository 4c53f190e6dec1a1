// pkg/logging/logging_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Real filesystem (temp dirs)
// PURPOSE: Test logger setup and log file creation

package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upstack-sh/upstack/pkg/logging"
	"github.com/upstack-sh/upstack/pkg/paths"
)

func TestSetupLoggerCreatesLogFile(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), "state")
	t.Setenv(paths.EnvStateDir, stateDir)

	logging.SetupLogger(0)

	_, err := os.Stat(filepath.Join(stateDir, logging.LogFileName))
	assert.NoError(t, err, "log file is created under the state dir")
}

func TestGetLoggerWritesComponentField(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv(paths.EnvStateDir, stateDir)

	logging.SetupLogger(2)
	logger := logging.GetLogger("stack")
	logger.Debug().Msg("probe")

	data, err := os.ReadFile(filepath.Join(stateDir, logging.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"stack"`)
	assert.Contains(t, string(data), "probe")
}
