package securefile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const EnvVar = "HERONFT_ENV"

// EnvFolder maps HERONFT_ENV to a config subfolder. Empty means production.
func EnvFolder() (string, error) {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(EnvVar)))
	switch raw {
	case "", "prod", "production":
		return "", nil
	case "local":
		return "local", nil
	case "dev", "develop", "development":
		return "develop", nil
	default:
		return "", errors.Newf("invalid %s %q (allowed: local, develop, empty)", EnvVar, raw)
	}
}

// ConfigPathCandidates returns the places to look for filename, highest
// priority first: $SNAP_REAL_HOME/.config/<app>, $HOME/.config/<app>, then
// the OS user config dir. The env folder is appended to each.
func ConfigPathCandidates(app, filename string) ([]string, error) {
	if app == "" {
		return nil, errors.New("app must not be empty")
	}
	if filename == "" {
		return nil, errors.New("filename must not be empty")
	}

	envFolder, err := EnvFolder()
	if err != nil {
		return nil, err
	}

	var paths []string
	seen := map[string]bool{}
	add := func(dir string) {
		if envFolder != "" {
			dir = filepath.Join(dir, envFolder)
		}
		p := filepath.Join(dir, filename)
		if seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	for _, key := range []string{"SNAP_REAL_HOME", "HOME"} {
		if home := os.Getenv(key); home != "" {
			add(filepath.Join(home, ".config", app))
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		add(filepath.Join(dir, app))
	} else if len(paths) == 0 {
		return nil, errors.Wrap(err, "UserConfigDir")
	}

	return paths, nil
}

// FirstExisting returns the first candidate that exists, or the first
// candidate when none do.
func FirstExisting(candidates []string) (path string, exists bool) {
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], false
}
