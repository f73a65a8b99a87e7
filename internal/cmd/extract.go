package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jfields/jfields/internal/cache"
	"github.com/jfields/jfields/internal/extract"
	"github.com/jfields/jfields/internal/output"
	"github.com/jfields/jfields/internal/parser"
	"github.com/jfields/jfields/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [path|-]...",
	Short: "List the fields declared in Java source",
	Long: `List every field declaration with its type, name, access modifier and
leading comment.

Each argument is a .java file, a directory (searched recursively for .java
files, honoring .gitignore, configured exclude patterns and build output
directories such as target/ and build/) or "-" for stdin. With no arguments
source is read from stdin.

Declarations such as "int x, y;" produce one record per variable by default;
--multi first keeps only the first.

All inputs are reported. The exit status is non-zero when any input fails to
parse.`,
	Example: `  jfields extract User.java
  jfields extract src/main/java --format tsv > fields.tsv
  jfields extract --encoding gbk Legacy.java
  jfields extract . --changed`,
	RunE: runExtract,
}

var (
	extractMulti    string
	extractEncoding string
	extractNoCache  bool
	extractExclude  []string
	extractChanged  bool
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractMulti, "multi", "", "Multi-variable declarations: each (default) or first")
	extractCmd.Flags().StringVar(&extractEncoding, "encoding", "", "Fallback charset for input that is not UTF-8 (e.g. gbk)")
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "Skip the extraction cache")
	extractCmd.Flags().StringSliceVar(&extractExclude, "exclude", nil, "Additional gitignore-style exclude patterns")
	extractCmd.Flags().BoolVar(&extractChanged, "changed", false, "Only report files changed since the last --changed run")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	format, err := resolveFormat(cfg, w)
	if err != nil {
		return err
	}

	opts, err := extractOptions(cfg)
	if err != nil {
		return err
	}

	loader := source.NewLoader(sourceOptions(cfg))
	inputs, err := loader.Load(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var c *cache.Cache
	if !extractNoCache && !cfg.Cache.Disabled {
		c, err = cfg.openCache()
		if err != nil {
			logger.Warn("cache unavailable", zap.Error(err))
			c = nil
		}
		defer closeCache(c)
	}
	if extractChanged && c == nil {
		return fmt.Errorf("--changed needs the cache: run 'jfields init' and drop --no-cache")
	}

	run := &extraction{ctx: cmd.Context(), opts: opts, cache: c, changedOnly: extractChanged}
	results, failed, runErr := run.all(inputs, cmd.ErrOrStderr())
	if runErr == nil && extractChanged {
		run.prune(args, inputs)
	}

	formatter, err := output.GetFormatter(format, output.Options{Headers: cfg.Output.Headers})
	if err != nil {
		return err
	}
	if err := formatter.FormatToWriter(w, results); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if runErr != nil {
		return &exitError{code: 130, err: fmt.Errorf("interrupted after %d inputs: %w", len(results), runErr)}
	}
	if failed > 0 {
		return &exitError{code: 1, err: fmt.Errorf("%d of %d inputs failed to parse", failed, len(results))}
	}
	return nil
}

// extractOptions merges --multi over the config.
func extractOptions(cfg *projectConfig) (extract.Options, error) {
	policy := cfg.Extract.MultiVariable
	if extractMulti != "" {
		policy = extractMulti
	}
	mv, err := extract.ParseMultiVariable(policy)
	if err != nil {
		return extract.Options{}, err
	}
	return extract.Options{MultiVariable: mv, Logger: logger}, nil
}

// sourceOptions merges --encoding and --exclude over the config.
func sourceOptions(cfg *projectConfig) source.Options {
	opts := source.Options{
		Encoding:        cfg.Source.Encoding,
		Exclude:         append(append([]string(nil), cfg.Source.Exclude...), extractExclude...),
		IgnoreGitignore: cfg.Source.IgnoreGitignore,
		Logger:          logger,
	}
	if extractEncoding != "" {
		opts.Encoding = extractEncoding
	}
	return opts
}

// extraction runs the extractor over inputs with optional caching.
type extraction struct {
	ctx         context.Context
	opts        extract.Options
	cache       *cache.Cache
	changedOnly bool
}

// all extracts every input in order. Parse failures are written to stderr
// and counted; they still produce a result carrying the error. Cancellation
// stops the run and is returned with the results gathered so far.
func (x *extraction) all(inputs []source.Input, stderr io.Writer) ([]extract.Result, int, error) {
	results := make([]extract.Result, 0, len(inputs))
	failed := 0

	for _, in := range inputs {
		if err := x.context().Err(); err != nil {
			return results, failed, err
		}

		key := cache.Key(in.Content, x.opts)
		if x.changedOnly && in.Path != source.StdinPath && !x.changed(in.Path, key) {
			logger.Debug("unchanged, skipping", zap.String("path", in.Path))
			continue
		}

		r := extract.Result{Path: in.Path}
		fields, err := x.one(in, key)
		if err != nil && x.context().Err() != nil {
			return results, failed, x.context().Err()
		}
		if err != nil {
			var perr *parser.ParseError
			if errors.As(err, &perr) {
				perr.File = in.Path
			} else {
				err = fmt.Errorf("%s: %w", in.Path, err)
			}
			fmt.Fprintln(stderr, err)
			r.Fields = []extract.FieldRecord{}
			r.Error = err.Error()
			failed++
		} else {
			r.Fields = fields
			x.markScanned(in.Path, key)
		}
		results = append(results, r)
	}

	return results, failed, nil
}

// one extracts a single input, consulting the cache first.
func (x *extraction) one(in source.Input, key string) ([]extract.FieldRecord, error) {
	if x.cache != nil {
		fields, ok, err := x.cache.Get(key)
		if err != nil {
			logger.Warn("cache lookup failed", zap.String("path", in.Path), zap.Error(err))
		} else if ok {
			logger.Debug("cache hit", zap.String("path", in.Path))
			return fields, nil
		}
	}

	fields, err := extract.FromSourceContext(x.context(), in.Content, x.opts)
	if err != nil {
		return nil, err
	}

	if x.cache != nil {
		if err := x.cache.Put(key, fields); err != nil {
			logger.Warn("cache store failed", zap.String("path", in.Path), zap.Error(err))
		}
	}
	return fields, nil
}

func (x *extraction) context() context.Context {
	if x.ctx == nil {
		return context.Background()
	}
	return x.ctx
}

// changed reports whether path differs from its last --changed run.
func (x *extraction) changed(path, key string) bool {
	changed, err := x.cache.IsFileChanged(indexPath(path), key)
	if err != nil {
		logger.Warn("file index lookup failed", zap.String("path", path), zap.Error(err))
		return true
	}
	return changed
}

// markScanned records path in the file index for later --changed runs.
func (x *extraction) markScanned(path, key string) {
	if x.cache == nil || path == source.StdinPath {
		return
	}
	if err := x.cache.SetFileScanned(indexPath(path), key); err != nil {
		logger.Warn("file index update failed", zap.String("path", path), zap.Error(err))
	}
}

// prune drops file index entries under each directory argument that the
// walk no longer lists, such as deleted or newly excluded files.
func (x *extraction) prune(args []string, inputs []source.Input) {
	valid := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.Path != source.StdinPath {
			valid[indexPath(in.Path)] = true
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			continue
		}
		n, err := x.cache.PruneStaleEntries(indexPath(arg), valid)
		if err != nil {
			logger.Warn("file index prune failed", zap.String("dir", arg), zap.Error(err))
			continue
		}
		if n > 0 {
			logger.Debug("pruned file index", zap.String("dir", arg), zap.Int("entries", n))
		}
	}
}

// indexPath is the file index key for path: absolute when it can be resolved.
func indexPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
