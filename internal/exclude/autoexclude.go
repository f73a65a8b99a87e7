// Package exclude provides automatic detection and exclusion of Java build
// output directories.
package exclude

import (
	"os"
	"path/filepath"
	"strings"
)

// AutoExcludeResult contains the directories to exclude and why.
type AutoExcludeResult struct {
	// Directories to exclude (relative to project root)
	Directories []string
	// Reasons maps each directory to why it was excluded
	Reasons map[string]string
}

// Contains reports whether relPath is an excluded directory or lies under one.
func (r *AutoExcludeResult) Contains(relPath string) bool {
	for _, dir := range r.Directories {
		if relPath == dir || strings.HasPrefix(relPath, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// buildMarkers maps a build file to the output directories it implies.
// Output directories only count when they exist next to the marker.
var buildMarkers = map[string]struct {
	dirs   []string
	reason string
}{
	"pom.xml":             {[]string{"target"}, "Maven build output (pom.xml detected)"},
	"build.gradle":        {[]string{"build", ".gradle"}, "Gradle build output (build.gradle detected)"},
	"build.gradle.kts":    {[]string{"build", ".gradle"}, "Gradle build output (build.gradle.kts detected)"},
	"settings.gradle":     {[]string{"build", ".gradle"}, "Gradle build output (settings.gradle detected)"},
	"settings.gradle.kts": {[]string{"build", ".gradle"}, "Gradle build output (settings.gradle.kts detected)"},
	".classpath":          {[]string{"bin"}, "Eclipse build output (.classpath detected)"},
}

// DetectAutoExcludes scans the project root for Java build output directories
// that should be excluded. Only uses file existence checks.
// Recursively detects nested modules (e.g., services/api/target/).
func DetectAutoExcludes(projectRoot string) *AutoExcludeResult {
	result := &AutoExcludeResult{
		Directories: []string{},
		Reasons:     make(map[string]string),
	}

	// Walk the directory tree to find marker files at any depth
	_ = filepath.WalkDir(projectRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip directories we can't read
		}

		if path == projectRoot {
			return nil
		}

		relPath, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			// Skip anything already excluded
			if result.Contains(relPath) {
				return filepath.SkipDir
			}

			// Never worth descending into
			switch d.Name() {
			case ".git", "node_modules", "target", ".gradle":
				return filepath.SkipDir
			}
			return nil
		}

		marker, ok := buildMarkers[d.Name()]
		if !ok {
			return nil
		}

		relDirPath, err := filepath.Rel(projectRoot, filepath.Dir(path))
		if err != nil {
			return nil
		}

		for _, name := range marker.dirs {
			outDir := name
			if relDirPath != "." {
				outDir = filepath.Join(relDirPath, name)
			}
			if dirExists(filepath.Join(projectRoot, outDir)) && !contains(result.Directories, outDir) {
				result.Directories = append(result.Directories, outDir)
				result.Reasons[outDir] = marker.reason
			}
		}

		return nil
	})

	return result
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// contains checks if a string is in a slice.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
