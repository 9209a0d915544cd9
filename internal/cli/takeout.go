package cli

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/keep-export/internal/importers"
	"github.com/mrlokans/keep-export/internal/utils"
)

// maxExtractedFileSize caps a single archive member; Keep notes with
// embedded images stay well below it.
const maxExtractedFileSize = 512 << 20

// ResolveKeepDir turns a Takeout directory or archive into the directory
// holding the Keep notes. The returned cleanup removes anything extracted
// and must always be called.
func ResolveKeepDir(input string) (string, func(), error) {
	noop := func() {}

	info, err := os.Stat(input)
	if err != nil {
		return "", noop, fmt.Errorf("takeout not found: %w", err)
	}

	if info.IsDir() {
		keepDir, err := importers.FindKeepDir(input)
		return keepDir, noop, err
	}

	if !strings.EqualFold(filepath.Ext(input), ".zip") {
		return "", noop, fmt.Errorf("%s is neither a directory nor a .zip archive", input)
	}

	tmpDir, err := os.MkdirTemp("", "keep-export-takeout-")
	if err != nil {
		return "", noop, fmt.Errorf("failed to create extraction directory: %w", err)
	}
	cleanup := func() {
		_ = utils.Retry(5, 200*time.Millisecond, func() error { return os.RemoveAll(tmpDir) }, nil)
	}

	fmt.Printf("Extracting %s ...\n", input)
	if err := extractZip(input, tmpDir); err != nil {
		cleanup()
		return "", noop, err
	}

	keepDir, err := importers.FindKeepDir(tmpDir)
	if err != nil {
		cleanup()
		return "", noop, err
	}
	return keepDir, cleanup, nil
}

func extractZip(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		target := filepath.Join(dest, filepath.FromSlash(file.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes the extraction directory", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to read %s from archive: %w", file.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, maxExtractedFileSize+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", file.Name, err)
	}
	if written > maxExtractedFileSize {
		return fmt.Errorf("archive entry %s is larger than %d bytes", file.Name, maxExtractedFileSize)
	}
	return nil
}

// ensureOutsideInput refuses an output directory that is, or contains, one
// of the inputs, since recreating it would delete the notes being exported.
func ensureOutsideInput(outputDir string, inputs ...string) error {
	for _, input := range inputs {
		if input == "" {
			continue
		}
		absInput, err := filepath.Abs(input)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %s: %w", input, err)
		}

		rel, err := filepath.Rel(outputDir, absInput)
		if err != nil {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			continue
		}
		return fmt.Errorf("output directory %s contains the input %s; choose another -output or pass -keep-output", outputDir, absInput)
	}
	return nil
}

// recreateDir empties dir by removing and recreating it, retrying while
// another process still holds files inside it.
func recreateDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		fmt.Printf("Removing %s\n", dir)
	}

	err := utils.Retry(20, 100*time.Millisecond, func() error {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		return os.MkdirAll(dir, 0755)
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate output directory %s: %w", dir, err)
	}
	return nil
}
