// =============================================================================
// Product File Generator - File Manager Utility
// =============================================================================
//
// This module provides the file handling shared by the pipeline:
//   - Input discovery in a directory
//   - Directory management
//   - The per-run scratch directory
//   - Copying and moving files
//
// SCRATCH DIRECTORY:
//   Every run works in <output>/.scratch-<run id>. The template copy and the
//   unfinished workbooks live there. Keeping it inside the output directory
//   means finished workbooks are moved with a rename on the same device.
//   The directory is removed when the run ends, whatever the outcome.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DefaultInputExtensions are the file types picked up by input discovery.
var DefaultInputExtensions = []string{".xlsx", ".xls", ".csv"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles the input and output directories of a run.
type FileManager struct {
	// InputDir is scanned for input files.
	InputDir string

	// OutputDir receives the finished workbooks and the report.
	OutputDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir string) *FileManager {
	return &FileManager{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
}

// EnsureDirectories creates the output directory if it doesn't exist.
// The input directory is never created.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files in the input directory whose extension
// is one of extensions, sorted by name. Subdirectories and hidden files are
// skipped.
//
// PARAMETERS:
//   - extensions: Extensions including the dot, compared case-insensitively.
//                 If empty, DefaultInputExtensions is used.
//
// RETURNS:
//   - A slice of file paths.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles(extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultInputExtensions
	}

	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if hasExtension(entry.Name(), extensions) {
			result = append(result, filepath.Join(fm.InputDir, entry.Name()))
		}
	}

	sort.Strings(result)
	return result, nil
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// =============================================================================
// SCRATCH DIRECTORY
// =============================================================================

// ScratchDir is a temporary working directory owned by one run.
type ScratchDir struct {
	// RunID identifies the run; it is part of the directory name.
	RunID string

	// Path is the directory.
	Path string
}

// NewScratchDir creates <parent>/.scratch-<uuid>. The caller must call
// Cleanup, usually with defer.
func NewScratchDir(parent string) (*ScratchDir, error) {
	runID := uuid.New().String()
	path := filepath.Join(parent, ".scratch-"+runID)

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return &ScratchDir{RunID: runID, Path: path}, nil
}

// Join returns a path inside the scratch directory.
func (s *ScratchDir) Join(name string) string {
	return filepath.Join(s.Path, name)
}

// Cleanup removes the scratch directory and everything in it.
func (s *ScratchDir) Cleanup() error {
	if err := os.RemoveAll(s.Path); err != nil {
		return fmt.Errorf("failed to remove scratch directory: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// CopyFile copies a file from src to dst, replacing dst.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// MoveFile renames src to dst. If the rename fails (e.g., cross-device), it
// falls back to copy and delete.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := CopyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove original file: %w", err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
