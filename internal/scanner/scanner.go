// Package scanner discovers disassembly listing files under a directory
// tree. It respects .ccmignore files with gitignore-style patterns and
// skips the usual build and VCS directories.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/go-ccm/pkg/dis"
)

// FileInfo represents information about a discovered listing file.
type FileInfo struct {
	Path     string // Relative path from root
	FullPath string // Absolute path
	Size     int64  // File size in bytes
}

// Options configures the scanner behavior.
type Options struct {
	SkipHidden      bool     // Skip hidden files and directories (starting with .)
	FollowSymlinks  bool     // Follow symlinks (within root only)
	DefaultExcludes []string // Default directories to exclude
	IgnoreFileName  string   // Name of the ignore file (default: .ccmignore)
}

// DefaultOptions returns scanner options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		SkipHidden:     true,
		FollowSymlinks: false,
		IgnoreFileName: ".ccmignore",
		DefaultExcludes: []string{
			"node_modules",
			".git",
			"__pycache__",
			".venv",
			"venv",
			"dist",
			"build",
			".idea",
			".vscode",
			"vendor",
			".hg",
			".svn",
			".tox",
			".nox",
		},
	}
}

// Scanner provides listing discovery over a directory tree.
type Scanner struct {
	opts Options
	root string
}

// New creates a new Scanner with the given options.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Scan recursively scans the directory at root and returns the listing
// files found, respecting .ccmignore patterns and default exclusions.
func (s *Scanner) Scan(root string) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	s.root = absRoot

	// Load ignore patterns from root
	ignorePatterns, err := s.loadIgnorePatterns(absRoot)
	if err != nil {
		return nil, fmt.Errorf("loading ignore patterns: %w", err)
	}

	var files []FileInfo

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Log error but continue walking
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}

		// Skip root itself
		if relPath == "." {
			return nil
		}

		// Normalize path for pattern matching (use forward slashes)
		relPathSlash := filepath.ToSlash(relPath)

		if s.opts.SkipHidden && s.isHidden(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if s.isDefaultExcluded(info.Name()) {
				return filepath.SkipDir
			}
			// Load nested .ccmignore if present
			nestedPatterns, err := s.loadIgnorePatterns(path)
			if err == nil && len(nestedPatterns) > 0 {
				ignorePatterns = append(ignorePatterns, nestedPatterns...)
			}
			return nil
		}

		if !dis.IsListingPath(path) {
			return nil
		}

		if s.matchesIgnorePatterns(relPathSlash, ignorePatterns) {
			return nil
		}

		// Handle symlinks
		if info.Mode()&os.ModeSymlink != 0 {
			if !s.opts.FollowSymlinks {
				return nil
			}
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil // Skip broken symlinks
			}
			realAbs, err := filepath.Abs(realPath)
			if err != nil {
				return nil
			}
			// Ensure symlink target is within root
			if !strings.HasPrefix(realAbs, absRoot+string(filepath.Separator)) && realAbs != absRoot {
				return nil
			}
			targetInfo, err := os.Stat(realPath)
			if err != nil {
				return nil
			}
			if targetInfo.IsDir() {
				return nil // Don't follow directory symlinks
			}
			info = targetInfo
		}

		files = append(files, FileInfo{
			Path:     relPathSlash,
			FullPath: path,
			Size:     info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return files, nil
}

// isHidden checks if a file or directory name indicates it's hidden.
func (s *Scanner) isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// isDefaultExcluded checks if the name matches default exclusion patterns.
func (s *Scanner) isDefaultExcluded(name string) bool {
	for _, exclude := range s.opts.DefaultExcludes {
		if strings.EqualFold(name, exclude) {
			return true
		}
	}
	return false
}

// loadIgnorePatterns loads ignore patterns from the .ccmignore file in the
// given directory.
func (s *Scanner) loadIgnorePatterns(dir string) ([]IgnorePattern, error) {
	ignorePath := filepath.Join(dir, s.opts.IgnoreFileName)
	file, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var patterns []IgnorePattern
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, ParseIgnorePattern(line))
	}

	return patterns, scanner.Err()
}

// matchesIgnorePatterns checks if the given path should be ignored based on
// patterns. It implements gitignore semantics: patterns are checked in
// order, and negation patterns can override previous positive matches.
func (s *Scanner) matchesIgnorePatterns(relPath string, patterns []IgnorePattern) bool {
	ignored := false
	for _, pattern := range patterns {
		if pattern.Match(relPath) {
			if pattern.IsNegation() {
				ignored = false
			} else {
				ignored = true
			}
		}
	}
	return ignored
}

// Scan is a convenience function that scans a directory with default options.
func Scan(root string) ([]FileInfo, error) {
	scanner := New(DefaultOptions())
	return scanner.Scan(root)
}

// ScanWithOptions scans a directory with custom options.
func ScanWithOptions(root string, opts Options) ([]FileInfo, error) {
	scanner := New(opts)
	return scanner.Scan(root)
}
