package exclude

import (
	"os"
	"path/filepath"
	"testing"
)

func mkfile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func TestDetectAutoExcludes_Empty(t *testing.T) {
	tmpDir := t.TempDir()

	result := DetectAutoExcludes(tmpDir)

	if len(result.Directories) != 0 {
		t.Errorf("expected 0 directories, got %d: %v", len(result.Directories), result.Directories)
	}
}

func TestDetectAutoExcludes_Maven(t *testing.T) {
	tmpDir := t.TempDir()
	mkfile(t, filepath.Join(tmpDir, "pom.xml"))
	mkdir(t, filepath.Join(tmpDir, "target"))

	result := DetectAutoExcludes(tmpDir)

	if len(result.Directories) != 1 {
		t.Fatalf("expected 1 directory, got %d: %v", len(result.Directories), result.Directories)
	}
	if !contains(result.Directories, "target") {
		t.Errorf("expected 'target' in directories, got %v", result.Directories)
	}
	if result.Reasons["target"] == "" {
		t.Error("expected reason for target directory")
	}
}

func TestDetectAutoExcludes_Maven_NoTarget(t *testing.T) {
	tmpDir := t.TempDir()
	mkfile(t, filepath.Join(tmpDir, "pom.xml"))

	result := DetectAutoExcludes(tmpDir)

	if len(result.Directories) != 0 {
		t.Errorf("expected 0 directories (no target/), got %d: %v", len(result.Directories), result.Directories)
	}
}

func TestDetectAutoExcludes_GradleMultiModule(t *testing.T) {
	tmpDir := t.TempDir()
	mkfile(t, filepath.Join(tmpDir, "settings.gradle.kts"))
	mkdir(t, filepath.Join(tmpDir, ".gradle"))
	mkfile(t, filepath.Join(tmpDir, "app", "build.gradle.kts"))
	mkdir(t, filepath.Join(tmpDir, "app", "build"))

	result := DetectAutoExcludes(tmpDir)

	for _, want := range []string{".gradle", filepath.Join("app", "build")} {
		if !contains(result.Directories, want) {
			t.Errorf("expected %q in directories, got %v", want, result.Directories)
		}
	}
	if contains(result.Directories, "build") {
		t.Errorf("root build/ does not exist and must not be excluded: %v", result.Directories)
	}
}

func TestAutoExcludeResult_Contains(t *testing.T) {
	result := &AutoExcludeResult{Directories: []string{"target", filepath.Join("app", "build")}}

	tests := []struct {
		path string
		want bool
	}{
		{"target", true},
		{filepath.Join("target", "classes", "A.java"), true},
		{filepath.Join("app", "build", "gen", "B.java"), true},
		{"targets", false},
		{filepath.Join("src", "main", "java", "C.java"), false},
	}
	for _, tt := range tests {
		if got := result.Contains(tt.path); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
