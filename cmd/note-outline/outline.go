// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/note-outline/internal/outline"
	"github.com/pdiddy/note-outline/internal/search"
	"github.com/pdiddy/note-outline/pkg/types"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Print the outline for one query",
	Long: `Outline runs the same pipeline as the HTTP endpoint for a single query
and writes the response to stdout as JSON or YAML.`,
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().StringP("query", "q", "", "free-text search query")
	outlineCmd.Flags().IntP("num", "n", search.DefaultNum, "number of articles (1-10)")
	outlineCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	num, _ := cmd.Flags().GetInt("num")
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q: use json or yaml", format)
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	resp, err := newService(cfg, logger).Build(context.Background(), query, num)
	if err != nil {
		e := outline.Classify(err)
		if e.Detail != "" {
			return fmt.Errorf("%s (HTTP %d): %s", e.Message, e.Kind.HTTPStatus(), e.Detail)
		}
		return fmt.Errorf("%s (HTTP %d)", e.Message, e.Kind.HTTPStatus())
	}
	return writeOutline(os.Stdout, resp, format)
}

// writeOutline encodes resp to w as indented JSON or YAML.
func writeOutline(w io.Writer, resp types.OutlineResponse, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
