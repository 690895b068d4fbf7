package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/termdiag/pkg/cache"
	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/io"
	"github.com/matzehuels/termdiag/pkg/pipeline"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// renderFlags holds the flags shared by render and view.
type renderFlags struct {
	format        string
	ascii         bool
	colors        bool
	maxWidth      int
	paddingX      int
	paddingY      int
	borderPadding int
	noCache       bool
	refresh       bool
}

func (f *renderFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.format, "format", "", "input format: json, toml (default: from file extension)")
	fs.BoolVar(&f.ascii, "ascii", false, "draw with plain ASCII instead of box-drawing characters")
	fs.BoolVar(&f.colors, "color", false, "color nodes that reference a style class")
	fs.IntVar(&f.maxWidth, "max-width", 0, "truncate lines to this display width (0 = unlimited)")
	fs.IntVar(&f.paddingX, "padding-x", graph.DefaultPaddingX, "horizontal gap between nodes")
	fs.IntVar(&f.paddingY, "padding-y", graph.DefaultPaddingY, "vertical gap between nodes")
	fs.IntVar(&f.borderPadding, "border-padding", graph.DefaultBorderPadding, "space between label and border")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	fs.BoolVar(&f.refresh, "refresh", false, "re-render even when a cached result exists")
}

// options merges configured defaults with the flags the user set.
func (f *renderFlags) options(cmd *cobra.Command, base graph.RenderOptions) pipeline.Options {
	fs := cmd.Flags()
	ro := base
	if fs.Changed("ascii") {
		ro.ASCII = f.ascii
	}
	if fs.Changed("color") {
		ro.Colors = f.colors
	}
	if fs.Changed("max-width") {
		ro.MaxWidth = f.maxWidth
	}
	if fs.Changed("padding-x") {
		ro.PaddingX = f.paddingX
	}
	if fs.Changed("padding-y") {
		ro.PaddingY = f.paddingY
	}
	if fs.Changed("border-padding") {
		ro.BorderPadding = f.borderPadding
	}
	return pipeline.Options{Render: ro, Refresh: f.refresh}
}

func (f *renderFlags) inputFormat() (io.Format, error) {
	if f.format == "" {
		return "", nil
	}
	return io.ParseFormat(f.format)
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render diagrams to the terminal",
		Long: `Render one or more diagram documents as text.

Documents are JSON or TOML with a "type" of flowchart, sequence or pie.
Without arguments, or with "-", the document is read from standard input.
Several files are rendered concurrently and printed in argument order.`,
		Example: `  termdiag render flow.json
  termdiag render --ascii --max-width 80 flow.toml
  cat flow.json | termdiag render -o flow.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				if err := terr.ValidatePath(output); err != nil {
					return err
				}
			}
			ctx := cmd.Context()
			names, results, err := c.renderInputs(ctx, cmd, &flags, args)
			if err != nil {
				return err
			}

			var out strings.Builder
			for i, res := range results {
				if i > 0 {
					out.WriteString("\n")
				}
				out.WriteString(res.Output)
				out.WriteString("\n")
				if len(results) > 1 {
					printWarnings(names[i], res)
				} else {
					printWarnings("", res)
				}
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(out.String()), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printSuccess("Rendered %d diagram(s)", len(results))
				printFile(output)
			} else if _, err := fmt.Fprint(cmd.OutOrStdout(), out.String()); err != nil {
				return err
			}

			if stats {
				fmt.Fprintln(statusOut, statsTable(names, results))
			} else if output != "" {
				for _, res := range results {
					printSummary(res)
				}
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the diagram to a file instead of stdout")
	cmd.Flags().BoolVar(&stats, "stats", false, "print render statistics")

	return cmd
}

// renderInputs reads and renders every argument. An empty argument list
// reads standard input.
func (c *CLI) renderInputs(ctx context.Context, cmd *cobra.Command, flags *renderFlags, args []string) ([]string, []*pipeline.Result, error) {
	format, err := flags.inputFormat()
	if err != nil {
		return nil, nil, err
	}
	opts := flags.options(cmd, c.Config.Render)
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	if len(args) == 0 {
		args = []string{stdinName}
	}
	docs := make([]*io.Document, len(args))
	for i, arg := range args {
		doc, err := readInput(cmd, arg, format)
		if err != nil {
			return nil, nil, err
		}
		docs[i] = doc
	}

	runner, err := c.newRunner(ctx, flags.noCache, cache.NewScopedKeyer(nil, "cli:"))
	if err != nil {
		return nil, nil, err
	}
	defer runner.Close()

	sw := startStopwatch(loggerFromContext(ctx))
	results, err := runner.ExecuteAll(ctx, docs, opts)
	if err != nil {
		return nil, nil, err
	}
	sw.done("Rendered %d diagram(s)", len(results))
	return args, results, nil
}

// readInput decodes a file argument, or standard input for "-".
func readInput(cmd *cobra.Command, arg string, format io.Format) (*io.Document, error) {
	if arg != stdinName {
		if err := terr.ValidatePath(arg); err != nil {
			return nil, err
		}
		return io.ImportFile(arg, format)
	}
	if format == "" {
		format = io.FormatJSON
	}
	doc, err := io.ReadDocument(cmd.InOrStdin(), format)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return doc, nil
}
