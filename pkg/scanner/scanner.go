package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/frankyxhl/fx-metrics/pkg/config"
	"github.com/frankyxhl/fx-metrics/pkg/parser"
)

// Scanner resolves command-line targets to an ordered list of source files.
type Scanner struct {
	config *config.Config
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// Resolve expands CLI arguments into the list of files to analyze. Files are
// included as-is; directories expand recursively to Python source files sorted
// lexicographically. Every argument is validated up front: any target that is
// neither an existing file nor directory fails the whole invocation before any
// file is opened.
func (s *Scanner) Resolve(args []string) ([]string, error) {
	infos := make([]os.FileInfo, len(args))
	for i, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("no such file or directory: %s", arg)
		}
		infos[i] = info
	}

	var files []string
	for i, arg := range args {
		if !infos[i].IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := s.ScanDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", arg, err)
		}
		files = append(files, found...)
	}

	return files, nil
}

// ScanDir recursively scans a directory for Python source files and returns
// them in lexicographic path order. Output ordering is a user-visible
// contract, so the sort is unconditional. Exclusion state is built per call;
// one directory's .gitignore never affects another.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	excludes := s.buildExcludes(absRoot)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		if relPath == "." {
			return nil
		}

		// Skip symlinks that escape the root.
		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if excludes.match(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if excludes.match(relPath, false) {
			return nil
		}
		if parser.IsSourceFile(path) {
			files = append(files, path)
		}

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(files)
	return files, nil
}

// scopedMatcher pairs a gitignore matcher with the path from the matcher's
// base directory down to the scan root, so patterns rooted elsewhere (a git
// repository root above the scan root) still see the path they were written
// against.
type scopedMatcher struct {
	matcher gitignore.Matcher
	prefix  []string
}

// excludeSet holds the exclusion matchers for one ScanDir call.
type excludeSet struct {
	matchers []scopedMatcher
}

// match checks a path relative to the scan root against every matcher.
func (e excludeSet) match(relPath string, isDir bool) bool {
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, m := range e.matchers {
		scoped := parts
		if len(m.prefix) > 0 {
			scoped = append(append(make([]string, 0, len(m.prefix)+len(parts)), m.prefix...), parts...)
		}
		if m.matcher.Match(scoped, isDir) {
			return true
		}
	}
	return false
}

// buildExcludes combines config exclude patterns with .gitignore files found
// under the enclosing git repository. Config patterns are rooted at the scan
// root; gitignore patterns keep their git-root base.
func (s *Scanner) buildExcludes(absRoot string) excludeSet {
	var ex excludeSet

	if len(s.config.Exclude.Patterns) > 0 {
		patterns := make([]gitignore.Pattern, 0, len(s.config.Exclude.Patterns))
		for _, pattern := range s.config.Exclude.Patterns {
			patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
		}
		ex.matchers = append(ex.matchers, scopedMatcher{matcher: gitignore.NewMatcher(patterns)})
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(absRoot); gitRoot != "" {
			fsys := osfs.New(gitRoot)
			if patterns, err := gitignore.ReadPatterns(fsys, nil); err == nil && len(patterns) > 0 {
				var prefix []string
				if rel, err := filepath.Rel(gitRoot, absRoot); err == nil && rel != "." {
					prefix = strings.Split(rel, string(filepath.Separator))
				}
				ex.matchers = append(ex.matchers, scopedMatcher{
					matcher: gitignore.NewMatcher(patterns),
					prefix:  prefix,
				})
			}
		}
	}

	return ex
}

// findGitRoot finds the root of the git repository by looking for a .git
// directory. Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}
