package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"postreach/internal/console"
	"postreach/internal/domain"
	"postreach/internal/export"
	"postreach/internal/metrics"
	"postreach/internal/posturl"
	"postreach/internal/report"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatHTML  = "html"
)

type extractOptions struct {
	format     string
	output     string
	engagement string
	search     string
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <post-url>",
		Short: "Extract reactions and comments from a LinkedIn post",
		Example: `  postreach extract https://www.linkedin.com/feed/update/urn:li:activity:7123456789012345678/
  postreach extract --format csv --output engagement.csv <post-url>
  postreach extract --filter comment --search engineer <post-url>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.extract(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", formatTable, "output format: table, json, csv, xlsx or html")
	f.StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout")
	f.StringVar(&opts.engagement, "filter", "all", "engagement type to keep: all, reaction or comment")
	f.StringVar(&opts.search, "search", "", "keep profiles whose name, headline, URL or comment contains this")
	return cmd
}

func (a *app) extract(cmd *cobra.Command, postURL string, opts *extractOptions) error {
	format := strings.ToLower(opts.format)
	switch format {
	case formatTable, formatJSON, formatHTML, export.FormatCSV, export.FormatXLSX:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	svc, err := a.newExtractor(metrics.New())
	if err != nil {
		return err
	}

	res, err := svc.Extract(cmd.Context(), postURL)
	if err != nil {
		var invalid *posturl.InvalidURLError
		if errors.As(err, &invalid) {
			return errors.New(invalid.Reason)
		}
		return err
	}

	res.Profiles = domain.FilterProfiles(res.Profiles, opts.engagement, opts.search)

	out := cmd.OutOrStdout()
	if opts.output == "" && format == export.FormatXLSX {
		opts.output = export.Filename(format, time.Now())
	}
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := writeResult(out, format, res); err != nil {
		return err
	}
	if opts.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d profiles to %s\n", len(res.Profiles), opts.output)
	}
	return nil
}

func writeResult(w io.Writer, format string, res *domain.ExtractionResult) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case formatHTML:
		return report.Render(w, res.PostURL, res.Profiles)
	case export.FormatCSV, export.FormatXLSX:
		return export.Write(w, format, res.Profiles)
	default:
		console.RenderResult(w, res)
		return nil
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <post-url>",
		Short: "Check whether a URL looks like a LinkedIn post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, message := posturl.Validate(args[0])
			if !ok {
				return errors.New(message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			if id, found := posturl.ExtractPostID(args[0]); found {
				fmt.Fprintf(cmd.OutOrStdout(), "Activity ID: %s\n", id)
			}
			return nil
		},
	}
}
