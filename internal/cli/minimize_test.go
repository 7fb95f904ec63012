package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mathdiff/internal/render"
	"github.com/roach88/mathdiff/internal/testutil"
)

// upperBFactory builds a candidate that renders "b" as "B" and a faithful
// reference, so any expression containing b diverges.
func upperBFactory(pc render.ProcessConfig) (render.Renderer, error) {
	if pc.Name == "reference" {
		return testutil.EchoRenderer(pc.Name, 0), nil
	}
	return render.NewFunc(pc.Name, func(_ context.Context, expr string, _ render.Mode) (render.Output, error) {
		return render.HTMLOutput(testutil.EchoHTML(strings.ReplaceAll(expr, "b", "B"))), nil
	}), nil
}

func TestMinimizeShrinksDivergence(t *testing.T) {
	code, stdout, _ := runCLI(t, upperBFactory, "minimize", `\frac{a}{b} + c`)

	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, `Original  (11 tokens): \frac{a}{b} + c`)
	assert.Contains(t, stdout, "Minimized (1 tokens): b")
}

func TestMinimizeNoDivergence(t *testing.T) {
	code, stdout, _ := runCLI(t, upperBFactory, "minimize", "a+c")

	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "no divergence in html mode; nothing to minimize\n", stdout)
}

func TestMinimizeJSON(t *testing.T) {
	code, stdout, _ := runCLI(t, upperBFactory, "--format", "json", "minimize", "ab")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Data MinimizeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.True(t, resp.Data.Reproduced)
	assert.Equal(t, "ab", resp.Data.Original)
	assert.Equal(t, "b", resp.Data.Minimized)
	assert.Equal(t, 2, resp.Data.OriginalTokens)
	assert.Equal(t, 1, resp.Data.MinimizedTokens)
	assert.Equal(t, "html", resp.Data.Mode)
}

func TestMinimizeInvalidConfig(t *testing.T) {
	code, _, stderr := runCLI(t, upperBFactory, "minimize", "--mode", "svg", "b")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "E_INVALID_CONFIG")
}
