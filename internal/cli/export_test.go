package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/io"
)

func TestExportDOT(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "flow.json", flowchartJSON)

	out, err := execute(t, "", "export", input)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph G {")
	assert.Contains(t, out, "rankdir=LR;")
	assert.Contains(t, out, `"a" -> "b";`)
}

func TestExportJSON(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "pie.toml", `
type = "pie"
title = "Pets"

[[slices]]
label = "Dogs"
value = 3.0
`)

	out, err := execute(t, "", "export", "--to", "json", input)
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "pie"`)
	assert.Contains(t, out, `"Dogs"`)
}

func TestExportJSONFile(t *testing.T) {
	dir := isolate(t)
	output := filepath.Join(dir, "out.json")

	_, err := execute(t, flowchartJSON, "export", "--to", "json", "-o", output)
	require.NoError(t, err)

	doc, err := io.ImportFile(output, "")
	require.NoError(t, err)
	assert.Equal(t, io.KindFlowchart, doc.Kind)
	assert.Len(t, doc.Flowchart.Nodes, 2)
}

func TestExportDOTFile(t *testing.T) {
	dir := isolate(t)
	output := filepath.Join(dir, "flow.dot")

	out, err := execute(t, flowchartJSON, "export", "-o", output)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph G {")
}

func TestExportErrors(t *testing.T) {
	isolate(t)

	_, err := execute(t, pieJSON, "export")
	assert.Equal(t, terr.ErrCodeUnsupported, terr.GetCode(err), "DOT needs a flowchart")

	_, err = execute(t, flowchartJSON, "export", "--to", "svg")
	assert.Equal(t, terr.ErrCodeInvalidFormat, terr.GetCode(err))
}
