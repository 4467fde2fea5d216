// Package main provides an offline command line for cleaning and exporting
// spreadsheets without running the server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetclean/internal/export"
	"github.com/JonMunkholm/sheetclean/internal/ingest"
	"github.com/JonMunkholm/sheetclean/internal/logging"
	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

func main() {
	// Logs go to stderr so that stdout only carries command output.
	slog.SetDefault(logging.New(os.Stderr, os.Getenv("LOG_LEVEL"), "text"))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sheetclean",
		Short:         "Clean and export spreadsheets",
		Long:          "sheetclean normalizes and sorts the rows of a spreadsheet (.xlsx, .csv, .txt) and exports the result.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSessionsCmd())

	return rootCmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the title, headers and row count of a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:   %s\n", state.Title())
			fmt.Fprintln(out, "Headers:")
			for i, h := range state.Headers() {
				fmt.Fprintf(out, "  %d  %s\n", i, h)
			}
			fmt.Fprintf(out, "Rows:    %d\n", len(state.Data()))
			return nil
		},
	}
}

type exportOptions struct {
	format     string
	out        string
	concat     []int
	header     string
	mergedOnly bool
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Clean a spreadsheet and write it in another format",
		Long: `Loads the file, normalizes and sorts its rows, optionally concatenates
columns into a new trailing column, and writes the export.

Without --out the file is written to the current directory under its
generated name. When --out names a directory the generated name is used
inside it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", string(export.FormatXLSX), "Output format: xlsx, csv, txt, docx")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file or directory")
	cmd.Flags().IntSliceVar(&opts.concat, "concat", nil, "Column indices to concatenate, e.g. 0,2")
	cmd.Flags().StringVar(&opts.header, "header", sheet.DefaultMergedHeader, "Header for the concatenated column")
	cmd.Flags().BoolVar(&opts.mergedOnly, "merged-only", false, "Export only the merged column")

	return cmd
}

func runExport(cmd *cobra.Command, path string, opts exportOptions) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	state, err := load(cmd.Context(), path)
	if err != nil {
		return err
	}

	if len(opts.concat) > 0 {
		res, err := state.Concatenate(opts.concat, opts.header)
		if err != nil {
			return fmt.Errorf("concatenate: %w", err)
		}
		if !res.Applied {
			return fmt.Errorf("concatenate: %s", res.Message)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "added column %q\n", res.Header)
	}

	file, err := export.Export(state.Title(), state.Headers(), state.Data(), format, export.Options{
		OnlyMergedColumn: opts.mergedOnly,
		MergedHeader:     state.MergedHeader(),
	})
	if err != nil {
		return err
	}

	dest := outputPath(opts.out, file.Name)
	if err := os.WriteFile(dest, file.Data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), dest)
	return nil
}

// load reads and extracts the file at path.
func load(ctx context.Context, path string) (*sheet.State, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !ingest.Supported(path) {
		return nil, fmt.Errorf("%w: %s", ingest.ErrUnsupportedFile, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ex, err := ingest.Load(ctx, path, f)
	if err != nil {
		return nil, err
	}
	return sheet.New(ex), nil
}

func outputPath(out, name string) string {
	if out == "" {
		return name
	}
	if strings.HasSuffix(out, string(os.PathSeparator)) {
		return filepath.Join(out, name)
	}
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}
