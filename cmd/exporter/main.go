package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/choco-shop/internal/export"
	"github.com/niksmo/choco-shop/pkg/sigctx"
	"github.com/spf13/cobra"
)

var (
	manifestPath string
	force        bool
	verbose      bool

	rewriteDir  string
	rewriteBase string
)

var rootCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Build a static copy of the storefront",
	Long: `Build a static copy of the storefront for hosting on a static file
host under a subdirectory, with API responses replaced by JSON snapshots.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{Level: level}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the site described by a manifest",
	Long: `Copy the SPA build, fetch the snapshots from the live API, prefix
root-absolute URLs with the base path and materialize every route.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite URLs of an existing build in place",
	Args:  cobra.NoArgs,
	RunE:  runRewrite,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	exportCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "export.yaml", "manifest file")
	exportCmd.Flags().BoolVar(&force, "force", false, "remove a non-empty out dir")

	rewriteCmd.Flags().StringVarP(&rewriteDir, "dir", "d", "", "build directory")
	rewriteCmd.Flags().StringVarP(&rewriteBase, "base", "b", "", "base path, e.g. /shop/")
	_ = rewriteCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(exportCmd, rewriteCmd)
}

func main() {
	ctx, cancel := sigctx.NotifyContext(context.Background())
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	m, err := export.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	e := export.New(m, export.NewFetcher(m.APIURL, nil))
	report, err := e.Export(cmd.Context(), force)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"exported to %s (base %s): %d snapshots, %d files rewritten, %d routes\n",
		m.OutDir, m.BasePath, report.Snapshots, report.Rewritten, report.Routes,
	)
	return nil
}

func runRewrite(cmd *cobra.Command, args []string) error {
	rw := export.NewRewriter(rewriteBase)
	n, err := rw.Dir(rewriteDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d files rewritten for base %s\n", n, rw.Base())
	return nil
}
