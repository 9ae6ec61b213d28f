package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/yacchi/omocfg"
	"github.com/yacchi/omocfg/format"
	"github.com/yacchi/omocfg/source"
	"github.com/yacchi/omocfg/source/fs"
)

const (
	kindProfile = "profile"
	kindGlobal  = "global"
)

func newNormalizeCommand(flags *globalFlags) *cobra.Command {
	var (
		kind  string
		write bool
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Rewrite a stored record with canonical keys",
		Long: `Reads a profile or global configuration record, accepting legacy
camelCase keys, and prints it again with canonical snake_case keys.

FILE may be a local path, an s3://bucket/key URL or "-" for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != kindProfile && kind != kindGlobal {
				return fmt.Errorf("invalid --kind %q (must be %s or %s)", kind, kindProfile, kindGlobal)
			}
			out, err := flags.outputFormat()
			if err != nil {
				return err
			}
			logger := flags.logger(cmd.ErrOrStderr())
			a := adapter(logger)

			if args[0] == stdinArg && (write || watch) {
				return fmt.Errorf("--write and --watch need a file, not stdin")
			}
			store, err := flags.openStore(cmd, args[0])
			if err != nil {
				return err
			}

			if write {
				if err := saveNormalized(cmd.Context(), store, kind, a); err != nil {
					return err
				}
				logger.Info("normalized record", "location", args[0], "kind", kind)
				return nil
			}

			rec, err := loadNormalized(cmd.Context(), store, kind, a)
			if err != nil {
				return err
			}
			if err := writeRecord(cmd, out, rec); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			fsStore, ok := store.(*fs.Source)
			if !ok {
				return fmt.Errorf("--watch is only supported for local files")
			}
			return watchNormalized(cmd, fsStore, kind, a, out, logger)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", kindProfile, "record kind (profile or global)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the canonical record back to FILE instead of printing it")
	cmd.Flags().BoolVar(&watch, "watch", false, "print the record again every time FILE changes")
	cmd.MarkFlagsMutuallyExclusive("write", "watch")
	return cmd
}

// canonical runs rec through the read path and back through the write path.
func canonical(a *omocfg.Adapter, kind string, rec map[string]any) (map[string]any, error) {
	if kind == kindGlobal {
		return a.EncodeGlobal(a.GlobalFromRecord(rec).Content())
	}
	return a.EncodeProfile(a.FromRecord(rec).Content())
}

func loadNormalized(ctx context.Context, store source.Store, kind string, a *omocfg.Adapter) (map[string]any, error) {
	if kind == kindGlobal {
		g, err := source.LoadGlobal(ctx, store)
		if err != nil {
			return nil, err
		}
		return a.EncodeGlobal(g.Content())
	}
	p, err := source.LoadProfile(ctx, store)
	if err != nil {
		return nil, err
	}
	return a.EncodeProfile(p.Content())
}

func saveNormalized(ctx context.Context, store source.Store, kind string, a *omocfg.Adapter) error {
	if kind == kindGlobal {
		g, err := source.LoadGlobal(ctx, store)
		if err != nil {
			return err
		}
		return source.SaveGlobal(ctx, store, a, g.Content())
	}
	p, err := source.LoadProfile(ctx, store)
	if err != nil {
		return err
	}
	return source.SaveProfile(ctx, store, a, p.Content())
}

func watchNormalized(cmd *cobra.Command, store *fs.Source, kind string, a *omocfg.Adapter, out format.Format, logger *slog.Logger) error {
	ctx := cmd.Context()
	stop, err := store.Watch(ctx, func(rec map[string]any, err error) {
		if err != nil {
			logger.Warn("reload failed", "path", store.Path(), "error", err)
			return
		}
		normalized, err := canonical(a, kind, rec)
		if err != nil {
			// reported through the adapter's diagnostics
			return
		}
		if err := writeRecord(cmd, out, normalized); err != nil {
			logger.Warn("failed to print record", "error", err)
		}
	})
	if err != nil {
		return err
	}
	logger.Debug("watching for changes", "path", store.ResolvedPath())

	<-ctx.Done()
	return stop()
}
