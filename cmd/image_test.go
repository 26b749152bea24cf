package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"oscontrol/internal/cloud"
	"oscontrol/internal/config"
)

func writeImageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.raw")
	if err := os.WriteFile(path, []byte("raw disk bytes"), 0644); err != nil {
		t.Fatalf("failed to write image file: %v", err)
	}
	return path
}

func TestImageUploadCommand(t *testing.T) {
	t.Run("replaces an existing image", func(t *testing.T) {
		fi := &fakeImages{existing: &cloud.Image{ID: "img-old", Name: "lab-image"}}
		mockEnv(t, &fakeCompute{}, fi, config.Defaults{})

		output, err := executeCommand(rootCmd, "image", "upload", "lab-image", "--image-path", writeImageFile(t))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}

		want := []string{"find", "delete", "create", "upload"}
		if !reflect.DeepEqual(fi.events, want) {
			t.Errorf("expected image calls %v, got %v", want, fi.events)
		}
		if !strings.Contains(output, "uploaded") {
			t.Errorf("expected a confirmation message, got %q", output)
		}
	})

	t.Run("path defaults to the settings file", func(t *testing.T) {
		fi := &fakeImages{}
		mockEnv(t, &fakeCompute{}, fi, config.Defaults{ImagePath: writeImageFile(t)})

		if _, err := executeCommand(rootCmd, "image", "upload", "lab-image"); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		want := []string{"find", "create", "upload"}
		if !reflect.DeepEqual(fi.events, want) {
			t.Errorf("expected image calls %v, got %v", want, fi.events)
		}
	})

	t.Run("no path anywhere is an error", func(t *testing.T) {
		mockEnv(t, &fakeCompute{}, &fakeImages{}, config.Defaults{})

		_, err := executeCommand(rootCmd, "image", "upload", "lab-image")
		if err == nil {
			t.Fatal("expected an error when no image path is available")
		}
		if !strings.Contains(err.Error(), "image-path") {
			t.Errorf("expected the error to mention the missing path, got: %v", err)
		}
	})
}

func TestImageDeleteCommand(t *testing.T) {
	t.Run("existing image", func(t *testing.T) {
		fi := &fakeImages{existing: &cloud.Image{ID: "img-1", Name: "lab-image"}}
		mockEnv(t, &fakeCompute{}, fi, config.Defaults{})

		output, err := executeCommand(rootCmd, "image", "delete", "lab-image")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		want := []string{"find", "delete"}
		if !reflect.DeepEqual(fi.events, want) {
			t.Errorf("expected image calls %v, got %v", want, fi.events)
		}
		if !strings.Contains(output, "deleted") {
			t.Errorf("expected a confirmation message, got %q", output)
		}
	})

	t.Run("missing image is an error", func(t *testing.T) {
		mockEnv(t, &fakeCompute{}, &fakeImages{}, config.Defaults{})

		_, err := executeCommand(rootCmd, "image", "delete", "ghost-image")
		if err == nil {
			t.Fatal("expected an error for a missing image")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected a not-found error, got: %v", err)
		}
	})
}
