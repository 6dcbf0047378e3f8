package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	appName = "inkwell"

	EnvSessionFile = "INKWELL_SESSION_FILE"
	EnvConfig      = "INKWELL_CONFIG"
	EnvAPIURL      = "INKWELL_API_URL"

	sessionFileName       = "session.json"
	configFileName        = "config.yaml"
	projectConfigFileName = ".inkwell.yaml"
)

// ErrNoProjectConfig is returned by FindProjectConfig when no directory up
// to the filesystem root holds a project config.
var ErrNoProjectConfig = errors.New("project config not found")

// ConfigDir returns $XDG_CONFIG_HOME/inkwell, falling back to
// ~/.config/inkwell.
func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultSessionPath returns $INKWELL_SESSION_FILE or session.json inside
// ConfigDir.
func DefaultSessionPath() (string, error) {
	if path := os.Getenv(EnvSessionFile); path != "" {
		return path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveSessionPath re-roots path into a temporary directory when sandbox
// is set. Paths already under the system temp directory (t.TempDir() and
// friends) are trusted as is.
func ResolveSessionPath(path string, sandbox bool) string {
	if !sandbox {
		return path
	}

	clean := filepath.Clean(path)
	if rel, err := filepath.Rel(os.TempDir(), clean); err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	name := filepath.Base(clean)
	if path == "" || name == "." || name == string(os.PathSeparator) {
		name = sessionFileName
	}
	return filepath.Join(os.TempDir(), appName+"-dev", name)
}

// FindProjectConfig walks up from startDir looking for a .inkwell.yaml file
// and returns its absolute path.
func FindProjectConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, projectConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProjectConfig
		}
		dir = parent
	}
}
