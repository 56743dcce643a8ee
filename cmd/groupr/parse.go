package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/groupr/internal/bulk"
	"github.com/vbonduro/groupr/internal/domain"
)

type parseOptions struct {
	kind     string
	category string
	file     string
}

func newParseCmd() *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse bulk input and print the resulting submissions as JSON",
		Long: `Reads bulk add input from --file (text or .xlsx) or stdin and prints the
submissions the web form would store. Dropped lines are reported on stderr.`,
		// Parsing needs neither config nor logging.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		PersistentPostRun: func(*cobra.Command, []string) {},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParse(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "text", "Item type: text, link or user")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Category applied to every item")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Input file; .xlsx is read as a spreadsheet (default stdin)")
	return cmd
}

func runParse(cmd *cobra.Command, opts *parseOptions) error {
	kind, err := domain.ParseItemType(opts.kind)
	if err != nil {
		return err
	}

	var (
		items   []bulk.ParsedItem
		skipped []int
	)
	if strings.EqualFold(filepath.Ext(opts.file), ".xlsx") {
		f, err := os.Open(opts.file)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		items, err = bulk.ParseSpreadsheet(f, kind)
		if err != nil {
			return err
		}
	} else {
		in := cmd.InOrStdin()
		if opts.file != "" {
			f, err := os.Open(opts.file)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			in = f
		}
		text, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		items, skipped = bulk.ParseReport(string(text), kind)
	}

	if len(skipped) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "ignored lines: %v\n", skipped)
	}
	if len(items) == 0 {
		return fmt.Errorf("no valid items found")
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(bulk.BuildSubmissions(items, domain.StringPtr(strings.TrimSpace(opts.category)), kind))
}
