package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/jklynch/suitcase-sas/internal/export"
	"github.com/jklynch/suitcase-sas/internal/h5"
)

var (
	templatePath  string
	documentsPath string
	outPath       string
	verbose       bool
)

func init() {
	rootCmd.Flags().StringVarP(&templatePath, "template", "t", "", "Path to the nexus metadata template (JSON)")
	rootCmd.Flags().StringVarP(&documentsPath, "documents", "d", "", "Path to the bluesky document bundle (JSON)")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination hierarchy file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   "sascat",
	Short: "sascat: export bluesky run documents into a nexus-style hierarchy file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if templatePath == "" || documentsPath == "" || outPath == "" {
			return fmt.Errorf("--template, --documents and --out are required")
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		// The exporter reads through a billy filesystem rooted at /, so
		// flag paths are made absolute first.
		tmplAbs, err := filepath.Abs(templatePath)
		if err != nil {
			return fmt.Errorf("resolve template path: %w", err)
		}
		docsAbs, err := filepath.Abs(documentsPath)
		if err != nil {
			return fmt.Errorf("resolve documents path: %w", err)
		}
		outAbs, err := filepath.Abs(outPath)
		if err != nil {
			return fmt.Errorf("resolve output path: %w", err)
		}

		e := export.New(osfs.New("/"), log)
		tmpl, err := e.LoadTemplate(tmplAbs)
		if err != nil {
			return err
		}
		docs, err := e.LoadDocuments(docsAbs)
		if err != nil {
			return err
		}

		store, err := h5.OpenSQLiteStore(outAbs)
		if err != nil {
			return err
		}
		f, err := h5.NewFile(store)
		if err != nil {
			_ = store.Close() // ignore error
			return err
		}

		if err := e.Export(f, tmpl, docs); err != nil {
			_ = store.Close() // ignore error
			return err
		}
		if err := store.Close(); err != nil {
			return fmt.Errorf("close %s: %w", outPath, err)
		}

		fmt.Printf("Exported %s\n", outPath)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
