// Package source loads Java source text for extraction.
//
// Inputs come from files, directory trees or a reader such as stdin. All
// content is decoded to UTF-8 before it reaches the parser. Directory walks
// only pick up .java files and skip anything excluded by .gitignore, by
// configured patterns or by detected build output directories.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jfields/jfields/internal/exclude"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// StdinPath is the path argument that selects standard input.
const StdinPath = "-"

// JavaExt is the extension of files picked up by directory walks.
const JavaExt = ".java"

// Input is one decoded source text.
type Input struct {
	// Path is the file path, or StdinPath.
	Path string
	// Content is the UTF-8 source text.
	Content []byte
	// Encoding is the charset the raw bytes were decoded from.
	Encoding string
}

// Options controls loading.
type Options struct {
	// Encoding is the fallback charset for input that is not valid UTF-8.
	Encoding string
	// Exclude holds gitignore-style patterns matched against paths
	// relative to the walked root.
	Exclude []string
	// IgnoreGitignore disables .gitignore handling during directory walks.
	IgnoreGitignore bool
	Logger          *zap.Logger
}

// Loader reads inputs according to Options.
type Loader struct {
	opts    Options
	exclude *ignore.GitIgnore
	log     *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(opts Options) *Loader {
	l := &Loader{opts: opts, log: opts.Logger}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	if len(opts.Exclude) > 0 {
		l.exclude = ignore.CompileIgnoreLines(opts.Exclude...)
	}
	return l
}

// Load resolves every path argument into inputs, in argument order.
// Directories expand to their .java files in lexical order; StdinPath reads
// stdin. No arguments means stdin.
func (l *Loader) Load(paths []string, stdin io.Reader) ([]Input, error) {
	if len(paths) == 0 {
		paths = []string{StdinPath}
	}

	var inputs []Input
	for _, path := range paths {
		if path == StdinPath {
			in, err := l.LoadReader(StdinPath, stdin)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, in)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			dirInputs, err := l.LoadDir(path)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, dirInputs...)
			continue
		}

		in, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// LoadFile reads and decodes a single file, whatever its extension.
func (l *Loader) LoadFile(path string) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return l.LoadReader(path, f)
}

// LoadReader reads and decodes everything from r.
func (l *Loader) LoadReader(path string, r io.Reader) (Input, error) {
	if r == nil {
		return Input{}, fmt.Errorf("no reader for %s", path)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("reading %s: %w", path, err)
	}

	content, enc, err := Decode(raw, l.opts.Encoding)
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", path, err)
	}
	if enc != "utf-8" {
		l.log.Debug("decoded input", zap.String("path", path), zap.String("encoding", enc))
	}
	return Input{Path: path, Content: content, Encoding: enc}, nil
}

// LoadDir walks root and loads every included .java file.
func (l *Loader) LoadDir(root string) ([]Input, error) {
	files, err := l.JavaFiles(root)
	if err != nil {
		return nil, err
	}

	inputs := make([]Input, 0, len(files))
	for _, path := range files {
		in, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// JavaFiles lists the .java files under root that survive exclusion.
func (l *Loader) JavaFiles(root string) ([]string, error) {
	var gitignore *ignore.GitIgnore
	if !l.opts.IgnoreGitignore {
		gitignore = loadGitignore(root)
	}
	auto := exclude.DetectAutoExcludes(root)
	for _, dir := range auto.Directories {
		l.log.Debug("auto-excluding directory", zap.String("dir", dir), zap.String("reason", auto.Reasons[dir]))
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if d.IsDir() && (d.Name() == ".git" || auto.Contains(relPath)) {
			return filepath.SkipDir
		}
		if l.matches(gitignore, relPath, d.IsDir()) || l.matches(l.exclude, relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), JavaExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

// matches applies an ignore matcher to a root-relative path.
// Directories are also tried with a trailing slash so "build/" style
// patterns match them.
func (l *Loader) matches(m *ignore.GitIgnore, relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	slashed := filepath.ToSlash(relPath)
	if m.MatchesPath(slashed) {
		return true
	}
	return isDir && m.MatchesPath(slashed+"/")
}

// loadGitignore loads .gitignore from root if it exists.
func loadGitignore(root string) *ignore.GitIgnore {
	gitignorePath := filepath.Join(root, ".gitignore")

	if _, err := os.Stat(gitignorePath); err == nil {
		if gitignore, err := ignore.CompileIgnoreFile(gitignorePath); err == nil {
			return gitignore
		}
	}

	return nil
}
