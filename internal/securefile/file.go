// Package securefile stores JSON documents encrypted under a password.
// Argon2id derives the key and XChaCha20-Poly1305 seals the payload.
package securefile

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrInvalidPasswordOrCorrupt is returned when the envelope does not open.
var ErrInvalidPasswordOrCorrupt = errors.New("invalid password or corrupted file")

const envelopeVersion = 1

// Envelope is the on-disk form: KDF parameters plus the sealed payload.
type Envelope struct {
	Version int `json:"version"`

	ArgonTime    uint32 `json:"argon_time"`
	ArgonMemory  uint32 `json:"argon_memory_kib"`
	ArgonThreads uint8  `json:"argon_threads"`
	ArgonKeyLen  uint32 `json:"argon_key_len"`

	Salt       string `json:"salt_b64"`
	Nonce      string `json:"nonce_b64"`
	Ciphertext string `json:"ct_b64"`
}

type KDF struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

var DefaultKDF = KDF{Time: 2, Memory: 64 * 1024, Threads: 1, KeyLen: 32}

// FastKDF is only suitable for tests.
var FastKDF = KDF{Time: 1, Memory: 8, Threads: 1, KeyLen: 32}

type Options struct {
	KDF KDF
	// AAD is bound into the seal and must match on read.
	AAD []byte

	FilePerm      os.FileMode
	DirectoryPerm os.FileMode
}

func (o Options) withDefaults() Options {
	if o.KDF == (KDF{}) {
		o.KDF = DefaultKDF
	}
	if o.FilePerm == 0 {
		o.FilePerm = 0o600
	}
	if o.DirectoryPerm == 0 {
		o.DirectoryPerm = 0o700
	}
	return o
}

// Seal encrypts plain with a key derived from password.
func Seal(plain, password []byte, opts Options) (Envelope, error) {
	opts = opts.withDefaults()

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return Envelope{}, errors.Wrap(err, "rand salt")
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return Envelope{}, errors.Wrap(err, "rand nonce")
	}

	key := argon2.IDKey(password, salt, opts.KDF.Time, opts.KDF.Memory, opts.KDF.Threads, opts.KDF.KeyLen)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return Envelope{}, errors.Wrap(err, "aead")
	}

	return Envelope{
		Version:      envelopeVersion,
		ArgonTime:    opts.KDF.Time,
		ArgonMemory:  opts.KDF.Memory,
		ArgonThreads: opts.KDF.Threads,
		ArgonKeyLen:  opts.KDF.KeyLen,
		Salt:         base64.StdEncoding.EncodeToString(salt),
		Nonce:        base64.StdEncoding.EncodeToString(nonce),
		Ciphertext:   base64.StdEncoding.EncodeToString(aead.Seal(nil, nonce, plain, opts.AAD)),
	}, nil
}

// Open reverses Seal. Any authentication failure maps to
// ErrInvalidPasswordOrCorrupt.
func Open(env Envelope, password []byte, aad []byte) ([]byte, error) {
	if env.Version != envelopeVersion {
		return nil, errors.Newf("unsupported envelope version: %d", env.Version)
	}

	decode := func(name, s string) ([]byte, error) {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", name)
		}
		return b, nil
	}
	salt, err := decode("salt", env.Salt)
	if err != nil {
		return nil, err
	}
	nonce, err := decode("nonce", env.Nonce)
	if err != nil {
		return nil, err
	}
	ct, err := decode("ciphertext", env.Ciphertext)
	if err != nil {
		return nil, err
	}

	key := argon2.IDKey(password, salt, env.ArgonTime, env.ArgonMemory, env.ArgonThreads, env.ArgonKeyLen)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "aead")
	}
	if len(nonce) != aead.NonceSize() {
		return nil, ErrInvalidPasswordOrCorrupt
	}

	plain, err := aead.Open(nil, nonce, ct, aad)
	if err != nil {
		return nil, ErrInvalidPasswordOrCorrupt
	}
	return plain, nil
}

// WriteEncryptedJSON marshals v, seals it and writes the envelope atomically.
func WriteEncryptedJSON[T any](path string, v T, password []byte, opts Options) error {
	opts = opts.withDefaults()

	if err := os.MkdirAll(filepath.Dir(path), opts.DirectoryPerm); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}

	plain, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}

	env, err := Seal(plain, password, opts)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal envelope")
	}
	return atomicWriteFile(path, b, opts.FilePerm)
}

// ReadEncryptedJSON reads and opens the envelope at path into T.
func ReadEncryptedJSON[T any](path string, password []byte, aad []byte) (T, error) {
	var zero T

	b, err := os.ReadFile(path)
	if err != nil {
		return zero, errors.Wrap(err, "read file")
	}

	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return zero, errors.Wrap(err, "unmarshal envelope")
	}

	plain, err := Open(env, password, aad)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(plain, &out); err != nil {
		return zero, errors.Wrap(err, "unmarshal json")
	}
	return out, nil
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrap(err, "write tmp")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "rename")
	}
	return nil
}
