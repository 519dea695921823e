package securefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestEncryptedJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keyring.json")
	opts := Options{KDF: FastKDF, AAD: []byte("test:v1")}

	require.NoError(t, WriteEncryptedJSON(path, doc{Name: "hero", Count: 3}, []byte("pw"), opts))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "hero")

	got, err := ReadEncryptedJSON[doc](path, []byte("pw"), []byte("test:v1"))
	require.NoError(t, err)
	require.Equal(t, doc{Name: "hero", Count: 3}, got)
}

func TestReadEncryptedJSONWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k.json")
	require.NoError(t, WriteEncryptedJSON(path, doc{Name: "x"}, []byte("right"), Options{KDF: FastKDF}))

	_, err := ReadEncryptedJSON[doc](path, []byte("wrong"), nil)
	require.True(t, errors.Is(err, ErrInvalidPasswordOrCorrupt))
}

func TestReadEncryptedJSONWrongAAD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k.json")
	require.NoError(t, WriteEncryptedJSON(path, doc{}, []byte("pw"), Options{KDF: FastKDF, AAD: []byte("a")}))

	_, err := ReadEncryptedJSON[doc](path, []byte("pw"), []byte("b"))
	require.True(t, errors.Is(err, ErrInvalidPasswordOrCorrupt))
}

func TestOpenRejectsVersion(t *testing.T) {
	env, err := Seal([]byte("x"), []byte("pw"), Options{KDF: FastKDF})
	require.NoError(t, err)
	env.Version = 2
	_, err = Open(env, []byte("pw"), nil)
	require.Error(t, err)
}

func TestConfigPathCandidates(t *testing.T) {
	t.Setenv("SNAP_REAL_HOME", "")
	t.Setenv("HOME", "/home/u")
	t.Setenv(EnvVar, "dev")

	paths, err := ConfigPathCandidates("heronft", "config.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	require.Equal(t, filepath.Join("/home/u", ".config", "heronft", "develop", "config.yaml"), paths[0])

	t.Setenv(EnvVar, "staging")
	_, err = ConfigPathCandidates("heronft", "config.yaml")
	require.Error(t, err)
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")

	p, ok := FirstExisting([]string{a, b})
	require.False(t, ok)
	require.Equal(t, a, p)

	require.NoError(t, os.WriteFile(b, []byte("x"), 0o600))
	p, ok = FirstExisting([]string{a, b})
	require.True(t, ok)
	require.Equal(t, b, p)
}
