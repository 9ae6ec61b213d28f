// Package cmd implements the omocfg command line tool.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacchi/omocfg"
	"github.com/yacchi/omocfg/format"
	"github.com/yacchi/omocfg/source"
	"github.com/yacchi/omocfg/source/bytes"
	"github.com/yacchi/omocfg/source/fs"
	"github.com/yacchi/omocfg/source/s3"
)

const (
	s3Scheme = "s3://"
	stdinArg = "-"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	output  string
	input   string
	verbose bool
}

// NewRootCommand builds the omocfg command tree.
func NewRootCommand(version string) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "omocfg <command>",
		Short:         "Normalize, merge and render oh-my-opencode configuration records",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", string(format.JSON), "output format (json, jsonc, yaml, toml)")
	root.PersistentFlags().StringVarP(&flags.input, "input", "i", string(format.JSON), "format of records read from stdin (\"-\")")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(newNormalizeCommand(flags))
	root.AddCommand(newMergeCommand(flags))
	root.AddCommand(newRenderCommand(flags))
	return root
}

// logger returns the logger that receives adapter diagnostics and progress
// messages. Everything goes to stderr so stdout carries only documents.
func (f *globalFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (f *globalFlags) outputFormat() (format.Format, error) {
	out, err := format.ParseName(f.output)
	if err != nil {
		return "", fmt.Errorf("invalid --output: %w", err)
	}
	return out, nil
}

// adapter builds an Adapter reporting diagnostics to logger.
func adapter(logger *slog.Logger) *omocfg.Adapter {
	return omocfg.New(omocfg.WithLogger(logger))
}

// openStore returns the store for a command line location: "-" for stdin,
// an s3://bucket/key URL or a file path.
func (f *globalFlags) openStore(cmd *cobra.Command, location string) (source.Store, error) {
	if location == stdinArg {
		in, err := format.ParseName(f.input)
		if err != nil {
			return nil, fmt.Errorf("invalid --input: %w", err)
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return bytes.New(data, in), nil
	}
	return openStore(location)
}

func openStore(location string) (source.Store, error) {
	if rest, ok := strings.CutPrefix(location, s3Scheme); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid S3 location %q: want s3://bucket/key", location)
		}
		return s3.New(bucket, key), nil
	}
	return fs.New(location), nil
}

// loadDocument loads the record at location. A missing record yields an
// empty document when optional is set.
func (f *globalFlags) loadDocument(cmd *cobra.Command, location string, optional bool) (map[string]any, error) {
	store, err := f.openStore(cmd, location)
	if err != nil {
		return nil, err
	}
	rec, err := store.Load(cmd.Context())
	if err != nil {
		if optional && errors.Is(err, source.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", location, err)
	}
	return rec, nil
}

// writeRecord prints rec to the command output in the selected format.
func writeRecord(cmd *cobra.Command, f format.Format, rec map[string]any) error {
	data, err := format.Marshal(f, rec)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// baseName returns the last path element of location without its extension.
func baseName(location string) string {
	name := filepath.Base(strings.TrimPrefix(location, s3Scheme))
	return strings.TrimSuffix(name, filepath.Ext(name))
}
