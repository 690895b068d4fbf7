package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/graph"
)

// ReadDocument decodes a document in the given format from r.
//
// ReadDocument returns an error if:
//   - The input is empty (EMPTY_INPUT)
//   - The input cannot be decoded (PARSE_ERROR with a line number)
//   - The "type" field names no known kind (INVALID_FORMAT)
//   - A flowchart has duplicate node IDs or dangling subgraph references
//     (INVALID_GRAPH)
//
// Missing edge endpoints are not an error; they become rectangle nodes
// labelled with their ID. ReadDocument does not close r.
func ReadDocument(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, terr.MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Decode(data, format)
}

// Decode is [ReadDocument] over a byte slice.
func Decode(data []byte, format Format) (*Document, error) {
	if err := terr.ValidateInput(data); err != nil {
		return nil, err
	}

	var (
		w        wireDocument
		warnings []graph.Warning
	)
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &w)
		if err != nil {
			return nil, tomlError(err)
		}
		for _, key := range md.Undecoded() {
			warnings = append(warnings, graph.UnsupportedFeature{Feature: "key " + key.String()})
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, jsonError(data, err)
		}
	default:
		return nil, terr.New(terr.ErrCodeInvalidFormat, "unknown format %q", format)
	}

	doc, err := w.toDocument()
	if err != nil {
		return nil, err
	}
	doc.Warnings = warnings
	return doc, nil
}

// ImportFile reads the document at path. An empty format is picked from
// the file extension.
func ImportFile(path string, format Format) (*Document, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, terr.Wrap(terr.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if format == "" {
		format = FormatFromPath(path)
	}
	doc, err := ReadDocument(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func jsonError(data []byte, err error) error {
	pe := &terr.ParseError{Message: err.Error(), Cause: err}

	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syn):
		pe.Line = lineAt(data, syn.Offset)
		pe.Suggestion = "check for a missing comma or quote"
	case errors.As(err, &typ):
		pe.Line = lineAt(data, typ.Offset)
		pe.Message = fmt.Sprintf("field %q: cannot use %s as %s", typ.Field, typ.Value, typ.Type)
	case errors.Is(err, graph.ErrUnknownVariant):
		pe.Suggestion = unknownVariantHint(err)
	}
	return pe
}

func tomlError(err error) error {
	pe := &terr.ParseError{Message: err.Error(), Cause: err}

	var perr toml.ParseError
	if errors.As(err, &perr) {
		pe.Line = perr.Position.Line
		pe.Message = perr.Message
		pe.Suggestion = perr.Usage
	}
	if errors.Is(err, graph.ErrUnknownVariant) {
		pe.Suggestion = unknownVariantHint(err)
	}
	return pe
}

func unknownVariantHint(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "direction"):
		return "use LR, RL, TB, TD or BT"
	case strings.Contains(msg, "shape"):
		names := make([]string, 0, len(graph.Shapes()))
		for _, s := range graph.Shapes() {
			names = append(names, s.String())
		}
		return "use one of " + strings.Join(names, ", ")
	case strings.Contains(msg, "edge style"):
		return "use arrow, line, dotted_arrow, dotted_line, thick_arrow or thick_line"
	case strings.Contains(msg, "arrow style"):
		return "use solid, dotted, solid_line, dotted_line or async"
	}
	return ""
}

// lineAt returns the 1-based line of a byte offset.
func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}
