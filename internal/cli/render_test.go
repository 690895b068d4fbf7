package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/pipeline"
)

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "flow.json", flowchartJSON)

	out, err := execute(t, "", "render", "--no-cache", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Start")
	assert.Contains(t, out, "End")
	assert.Contains(t, out, "┌", "unicode borders by default")
}

func TestRenderCommandASCII(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "flow.json", flowchartJSON)

	out, err := execute(t, "", "render", "--no-cache", "--ascii", input)
	require.NoError(t, err)
	assert.Contains(t, out, "+")
	assert.NotContains(t, out, "┌")
}

func TestRenderCommandStdin(t *testing.T) {
	isolate(t)
	out, err := execute(t, pieJSON, "render", "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "Pets")
	assert.Contains(t, out, "75.0%")

	out, err = execute(t, pieJSON, "render", "--no-cache", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Dogs")
}

func TestRenderCommandTOML(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "seq.toml", `
type = "sequence"

[[participants]]
id = "A"
label = "Alice"

[[messages]]
from = "A"
to = "B"
label = "hi"
`)

	out, err := execute(t, "", "render", "--no-cache", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "hi")
}

func TestRenderCommandMultipleFiles(t *testing.T) {
	dir := isolate(t)
	flow := writeFile(t, dir, "flow.json", flowchartJSON)
	pie := writeFile(t, dir, "pie.json", pieJSON)

	out, err := execute(t, "", "render", "--no-cache", pie, flow)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Pets"), strings.Index(out, "Start"), "output keeps argument order")
}

func TestRenderCommandMaxWidth(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "pie.json", pieJSON)

	out, err := execute(t, "", "render", "--no-cache", "--max-width", "20", input)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 20, "line %q", line)
	}
}

func TestRenderCommandOutputFile(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "pie.json", pieJSON)
	output := filepath.Join(dir, "pie.txt")

	out, err := execute(t, "", "render", "--no-cache", "--stats", "-o", output, input)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dogs")
}

func TestRenderCommandCaches(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "flow.json", flowchartJSON)

	first, err := execute(t, "", "render", input)
	require.NoError(t, err)
	second, err := execute(t, "", "render", input)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	refreshed, err := execute(t, "", "render", "--refresh", input)
	require.NoError(t, err)
	assert.Equal(t, first, refreshed)
}

func TestRenderCommandErrors(t *testing.T) {
	dir := isolate(t)
	bad := writeFile(t, dir, "bad.json", `{"nodes": [`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  terr.Code
	}{
		{"missing file", "", []string{"render", filepath.Join(dir, "missing.json")}, terr.ErrCodeFileNotFound},
		{"parse error", "", []string{"render", bad}, terr.ErrCodeParse},
		{"empty stdin", "  ", []string{"render"}, terr.ErrCodeEmptyInput},
		{"bad format flag", "{}", []string{"render", "--format", "yaml"}, terr.ErrCodeInvalidFormat},
		{"negative padding", pieJSON, []string{"render", "--padding-x=-1"}, terr.ErrCodeInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, terr.GetCode(err), "got %v", err)
		})
	}
}

func TestStatsTable(t *testing.T) {
	results := []*pipeline.Result{
		{Kind: "flowchart", Stats: pipeline.Stats{NodeCount: 2, EdgeCount: 1}},
		{Kind: "pie", CacheHit: true},
	}
	out := statsTable([]string{"flow.json", "pie.json"}, results)
	assert.Contains(t, out, "flow.json")
	assert.Contains(t, out, "flowchart")
	assert.Contains(t, out, iconCached)
	assert.Contains(t, out, iconFresh)
}
