package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mathdiff/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mathdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigValidate(t *testing.T) {
	path := writeConfig(t, "mode: tree\ncandidate:\n  name: katex-rs\n  command: [./katex-rs]\n")

	code, stdout, _ := runCLI(t, nil, "config", "validate", path)

	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, path+" is valid (mode tree, reference reference, candidate katex-rs)\n", stdout)
}

func TestConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"unknown field", "mdoe: tree\n", "field mdoe not found"},
		{"bad mode", "mode: svg\n", "E_INVALID_CONFIG"},
		{"throw on error", "settings:\n  throw_on_error: true\n", "throw_on_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, nil, "config", "validate", writeConfig(t, tt.content))

			assert.Equal(t, ExitCommandError, code)
			assert.Contains(t, stderr, tt.contains)
		})
	}
}

func TestConfigValidateJSONError(t *testing.T) {
	code, stdout, _ := runCLI(t, nil, "--format", "json", "config", "validate", filepath.Join(t.TempDir(), "none.yaml"))

	assert.Equal(t, ExitCommandError, code)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, config.ErrCodeConfigNotFound, resp.Error.Code)
}

func TestConfigDefaultsRoundTrip(t *testing.T) {
	code, stdout, _ := runCLI(t, nil, "config", "defaults")
	require.Equal(t, ExitSuccess, code)

	cfg, err := config.Parse([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestConfigDefaultsJSON(t *testing.T) {
	code, stdout, _ := runCLI(t, nil, "--format", "json", "config", "defaults")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Data config.Config `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, *config.Default(), resp.Data)
}
