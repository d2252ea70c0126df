package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig(t *testing.T) {
	// /tmp/
	//   project/ (notehub.yaml)
	//     subdir/
	//       nested/
	//   legacy/ (notehub.yml)
	//   empty/

	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	legacyDir := filepath.Join(baseDir, "legacy")
	emptyDir := filepath.Join(baseDir, "empty")

	for _, dir := range []string{nestedDir, legacyDir, emptyDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(projectDir, "notehub.yaml"), []byte("page_size: 6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(legacyDir, "notehub.yml"), []byte("page_size: 6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// A directory with a config name is not a config file.
	if err := os.Mkdir(filepath.Join(emptyDir, "notehub.yaml"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		want      string
		wantErr   bool
	}{
		{
			name:      "Start at Project",
			startPath: projectDir,
			want:      filepath.Join(projectDir, "notehub.yaml"),
		},
		{
			name:      "Start Nested Deeply",
			startPath: nestedDir,
			want:      filepath.Join(projectDir, "notehub.yaml"),
		},
		{
			name:      "Yml Extension",
			startPath: legacyDir,
			want:      filepath.Join(legacyDir, "notehub.yml"),
		},
		{
			name:      "No Config Found",
			startPath: emptyDir,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConfig(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrConfigNotFound) {
					t.Errorf("FindConfig() error = %v, want ErrConfigNotFound", err)
				}
				return
			}
			if filepath.Clean(got) != filepath.Clean(tt.want) {
				t.Errorf("FindConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}
