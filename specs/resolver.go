package specs

import (
	"os"
	"path/filepath"
	"strings"
)

// PathResolver performs the filesystem-dependent half of path-vs-basename
// lookup: turning a command word into a candidate executable path, and
// canonicalizing a path through any symlinks. Both methods degrade to
// "undefined" on any failure — lookup never upgrades a decision on the
// strength of a filesystem error, per the registry's LookupUnavailable rule.
type PathResolver interface {
	Resolve(word, pathEnv string) (path string, ok bool)
	Canonicalize(path string) (resolved string, ok bool)
}

// FSResolver is the real, OS-backed PathResolver: it scans PATH left to
// right for the first existing, executable entry, and canonicalizes through
// filepath.EvalSymlinks.
type FSResolver struct{}

func (FSResolver) Resolve(word, pathEnv string) (string, bool) {
	if strings.ContainsRune(word, '/') {
		if abs, err := filepath.Abs(word); err == nil {
			if isExecutableFile(abs) {
				return abs, true
			}
		}
		return "", false
	}
	for _, dir := range strings.Split(pathEnv, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, word)
		if isExecutableFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (FSResolver) Canonicalize(path string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	return resolved, true
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}
