package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"i18n-extractor/internal/cache"
	"i18n-extractor/internal/config"
	"i18n-extractor/internal/extractor"
	"i18n-extractor/internal/filewalker"
	"i18n-extractor/internal/keyname"
	"i18n-extractor/internal/store"
	"i18n-extractor/internal/textutil"
	"i18n-extractor/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := NewRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Flag defaults come from cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "i18n-extractor",
		Short: "Extract hard-coded strings from HAML templates into locale files",
		Long: `Scans HAML view templates for user-visible text, replaces each string
with a t() call under a generated key and merges the default texts into
a sorted locale YAML file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cfg.LogLevel, verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(extractCmd(cfg))
	rootCmd.AddCommand(scanCmd(cfg))

	return rootCmd
}

func setupLogging(level string, verbose bool) error {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func bindRunFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.Locale, "locale", cfg.Locale, "Top-level locale scope of the YAML file")
	cmd.Flags().StringVar(&cfg.BasePath, "base-path", cfg.BasePath, "Directory stripped from template paths when building key prefixes")
	cmd.Flags().StringSliceVar(&cfg.Excludes, "exclude", cfg.Excludes, "Glob of template paths to skip, relative to the scanned directory")
	cmd.Flags().BoolVar(&cfg.AddFilenamePrefix, "add-filename-prefix", cfg.AddFilenamePrefix, "Use absolute keys prefixed with the template path")
	cmd.Flags().IntVar(&cfg.WorkerCount, "workers", cfg.WorkerCount, "Number of templates processed concurrently")
}

func extractCmd(cfg *config.Config) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "extract <path>",
		Short: "Rewrite templates with t() calls and write the locale file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.OutOrStdout(), cfg, args[0], dryRun)
		},
	}

	bindRunFlags(cmd, cfg)
	cmd.Flags().StringVar(&cfg.YAMLFile, "yaml-file", cfg.YAMLFile, "Locale file to merge into (default config/locales/<locale>.yml)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing templates or locale files")

	return cmd
}

func scanCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "List the strings that extract would replace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.OutOrStdout(), cfg, args[0])
		},
	}

	bindRunFlags(cmd, cfg)

	return cmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func keyOptions(cfg *config.Config) keyname.Options {
	return keyname.Options{
		AddFilenamePrefix: cfg.AddFilenamePrefix,
		BasePath:          cfg.BasePath,
	}
}

// processTemplates discovers the templates under root and runs each one
// through the extractor. Results keep discovery order; templates that fail
// to parse or process are logged and left out.
func processTemplates(ctx context.Context, cfg *config.Config, root string) ([]*extractor.FileResult, error) {
	w := filewalker.NewWalker(cfg.Excludes...)
	entries, err := w.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("walk templates: %w", err)
	}

	extractionCache, err := cache.NewExtractionCache(nil, cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create extraction cache: %w", err)
	}
	defer extractionCache.LogStats()

	ex := extractor.New(extractionCache, keyOptions(cfg))

	pool := worker.NewPool[filewalker.FileEntry, *extractor.FileResult](cfg.WorkerCount,
		func(ctx context.Context, entry filewalker.FileEntry) (*extractor.FileResult, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			parsed, err := entry.Parser.Parse(entry.Path)
			if err != nil {
				return nil, err
			}
			return ex.ProcessFile(entry.Parser, parsed)
		},
	)

	var results []*extractor.FileResult
	for _, task := range pool.Execute(ctx, entries) {
		if task.Err != nil {
			log.Error().Err(task.Err).Str("file", task.Input.Path).Msg("Template skipped")
			continue
		}
		results = append(results, task.Result)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// localeFiles groups stores by the YAML file they flush to.
type localeFiles struct {
	cfg    *config.Config
	stores map[string]*store.Store
	order  []string
}

func newLocaleFiles(cfg *config.Config) *localeFiles {
	return &localeFiles{cfg: cfg, stores: make(map[string]*store.Store)}
}

func (l *localeFiles) storeFor(templatePath string) *store.Store {
	target := l.cfg.YAMLFile
	if target == "" {
		target = store.DefaultPath(l.cfg.Locale, templatePath, keyOptions(l.cfg))
	}
	s, ok := l.stores[target]
	if !ok {
		s = store.New(l.cfg.Locale, keyOptions(l.cfg))
		l.stores[target] = s
		l.order = append(l.order, target)
	}
	return s
}

// runExtract handles the `extract` command. Locale files are merged and
// written before any template is touched, so a template never refers to a
// key that was not stored.
func runExtract(out io.Writer, cfg *config.Config, root string, dryRun bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	results, err := processTemplates(ctx, cfg, root)
	if err != nil {
		return err
	}

	files := newLocaleFiles(cfg)
	collisions := 0
	for _, fr := range results {
		for _, rec := range fr.Records {
			if err := files.storeFor(rec.Path).Record(rec.Path, rec.Key, rec.Text); err != nil {
				collisions++
				reportCollision(out, fr, rec, err)
			}
		}
	}

	if dryRun {
		for _, fr := range results {
			printChanges(out, fr)
		}
		log.Info().Int("files", len(results)).Int("collisions", collisions).Msg("Dry run complete, nothing written")
		return nil
	}

	pending := make([]*store.PendingWrite, 0, len(files.order))
	for _, target := range files.order {
		w, err := files.stores[target].Prepare(target)
		if err != nil {
			return fmt.Errorf("merge %s: %w", target, err)
		}
		pending = append(pending, w)
	}
	for _, w := range pending {
		if err := w.Write(); err != nil {
			return fmt.Errorf("flush %s: %w", w.Path, err)
		}
		log.Info().
			Str("path", w.Path).
			Int("existing", w.Report.Existing).
			Int("new", w.Report.New).
			Int("total", w.Report.Final).
			Msg("Locale file written")
	}

	rewritten := 0
	for _, fr := range results {
		if !fr.Changed() {
			continue
		}
		if err := writeTemplate(fr.Path, fr.Output); err != nil {
			log.Error().Err(err).Str("file", fr.Path).Msg("Write template")
			continue
		}
		rewritten++
		log.Debug().Str("file", fr.Path).Int("lines", len(fr.Changes)).Msg("Template rewritten")
	}

	log.Info().
		Int("files", len(results)).
		Int("rewritten", rewritten).
		Int("collisions", collisions).
		Msg("Extraction complete")

	return nil
}

// reportCollision points at the rewritten line whose key now resolves to
// another text.
func reportCollision(out io.Writer, fr *extractor.FileResult, rec extractor.Record, err error) {
	after := ""
	for _, c := range fr.Changes {
		if c.Number == rec.Line {
			after = strings.TrimSpace(c.After)
			break
		}
	}
	log.Warn().
		Err(err).
		Str("file", rec.Path).
		Int("line", rec.Line).
		Str("key", rec.Key).
		Str("rewritten", after).
		Msg("Key collision, keeping first text")
	fmt.Fprintf(out, "%s:%d: collision on %s, %q not stored; line reads %s\n", rec.Path, rec.Line, rec.Key, rec.Text, after)
}

// runScan handles the `scan` command.
func runScan(out io.Writer, cfg *config.Config, root string) error {
	ctx, cancel := setupContext()
	defer cancel()

	results, err := processTemplates(ctx, cfg, root)
	if err != nil {
		return err
	}

	total := 0
	for _, fr := range results {
		printChanges(out, fr)
		total += len(fr.Records)
	}

	log.Info().Int("files", len(results)).Int("strings", total).Msg("Scan complete")
	return nil
}

func printChanges(out io.Writer, fr *extractor.FileResult) {
	for _, rec := range fr.Records {
		fmt.Fprintf(out, "%s:%d: %s => %q\n", rec.Path, rec.Line, rec.Key, textutil.Truncate(rec.Text, 60))
	}
}

// writeTemplate replaces path with data, keeping its file mode.
func writeTemplate(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}
