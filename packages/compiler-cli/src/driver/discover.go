package driver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"ngc-ir/packages/compiler/src/config"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".angular":     {},
	"dist":         {},
}

// Discover returns the component manifests under the configured include
// directories, sorted and without duplicates. Hidden directories, the
// output and cache directories and paths ignored by the root .gitignore
// are skipped.
func Discover(cfg *config.CompilerConfig) ([]string, error) {
	gi := loadGitignore(cfg.Root)
	excluded := map[string]struct{}{
		filepath.Clean(cfg.OutputDir()): {},
		filepath.Clean(cfg.CacheDir()):  {},
	}

	seen := make(map[string]struct{})
	var results []string
	for _, include := range cfg.Compiler.Include {
		start := cfg.Resolve(include)
		err := filepath.WalkDir(start, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			rel, relErr := filepath.Rel(cfg.Root, path)
			if relErr != nil {
				rel = path
			}

			if d.IsDir() {
				if path == start {
					return nil
				}
				if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				if _, skip := excluded[filepath.Clean(path)]; skip {
					return filepath.SkipDir
				}
				if gi != nil && gi.MatchesPath(rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}

			if !strings.HasSuffix(name, config.ManifestSuffix) {
				return nil
			}
			if gi != nil && gi.MatchesPath(rel) {
				return nil
			}
			if _, dup := seen[path]; !dup {
				seen[path] = struct{}{}
				results = append(results, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(results)
	return results, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
