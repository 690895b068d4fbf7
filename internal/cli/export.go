package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/io"
)

// Export formats.
const (
	exportDOT  = "dot"
	exportJSON = "json"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		inFormat string
		format   string
		output   string
		layout   bool
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Convert a diagram document to DOT or canonical JSON",
		Long: `Convert a diagram document for use with other tools.

DOT output describes flowcharts for Graphviz; subgraphs become clusters.
With --layout the DOT is run through the Graphviz dot engine and comes back
annotated with positions. JSON output is the canonical form of any
document, which also converts TOML to JSON.`,
		Example: `  termdiag export flow.toml > flow.dot
  termdiag export --layout -o flow.xdot flow.json
  termdiag export --to json flow.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := terr.ValidateFormat(format, exportDOT, exportJSON); err != nil {
				return err
			}
			if output != "" {
				if err := terr.ValidatePath(output); err != nil {
					return err
				}
			}
			var in io.Format
			if inFormat != "" {
				f, err := io.ParseFormat(inFormat)
				if err != nil {
					return err
				}
				in = f
			}
			arg := stdinName
			if len(args) == 1 {
				arg = args[0]
			}
			doc, err := readInput(cmd, arg, in)
			if err != nil {
				return err
			}

			if format == exportJSON && output != "" {
				if err := io.ExportJSON(doc, output); err != nil {
					return err
				}
				printSuccess("Exported %s", doc.Kind)
				printFile(output)
				return nil
			}

			data, err := exportDocument(cmd, doc, format, layout)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Exported %s", doc.Kind)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&inFormat, "format", "", "input format: json, toml (default: from file extension)")
	cmd.Flags().StringVar(&format, "to", exportDOT, "output format: dot, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&layout, "layout", false, "run Graphviz layout on DOT output")

	return cmd
}

func exportDocument(cmd *cobra.Command, doc *io.Document, format string, layout bool) ([]byte, error) {
	if format == exportJSON {
		var buf bytes.Buffer
		if err := io.WriteJSON(doc, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if doc.Kind != io.KindFlowchart {
		return nil, terr.New(terr.ErrCodeUnsupported, "DOT export supports flowcharts, not %s", doc.Kind)
	}
	dot := io.ToDOT(doc.Flowchart)
	if !layout {
		return []byte(dot), nil
	}

	s := startSpinner(cmd.Context(), "Running Graphviz layout...")
	data, err := io.Layout(cmd.Context(), dot)
	s.stop()
	if err != nil {
		return nil, err
	}
	return data, nil
}
