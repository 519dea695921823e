package local

import (
	"crypto/ecdsa"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/heronft/heronft-client/internal/securefile"
)

const (
	AppName     = "heronft"
	KeyringFile = "keyring.json"
	AADConstant = "heronft:keyring:v1"
)

type Account struct {
	AddressHex string `json:"address"`
	PrivKeyHex string `json:"priv_key_hex"`
	Label      string `json:"label,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"` // RFC3339
}

func (a Account) Address() common.Address {
	return common.HexToAddress(a.AddressHex)
}

func (a Account) privateKey() (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(a.PrivKeyHex, "0x"), "0X"))
	if err != nil {
		return nil, errors.Wrapf(err, "account %s: private key", a.AddressHex)
	}
	return key, nil
}

// Keyring is the decrypted content of the keyring file.
type Keyring struct {
	Version  int       `json:"version"`
	Accounts []Account `json:"accounts"`
	Selected string    `json:"selected"`
}

// Ordered returns the accounts with the selected one first, the way
// providers report eth_accounts.
func (k *Keyring) Ordered() []common.Address {
	out := make([]common.Address, 0, len(k.Accounts))
	sel := common.HexToAddress(k.Selected)
	if i := k.index(sel); i >= 0 {
		out = append(out, sel)
	}
	for _, a := range k.Accounts {
		if a.Address() != sel {
			out = append(out, a.Address())
		}
	}
	return out
}

func (k *Keyring) index(addr common.Address) int {
	for i, a := range k.Accounts {
		if a.Address() == addr {
			return i
		}
	}
	return -1
}

func (k *Keyring) add(acc Account) (common.Address, error) {
	addr := acc.Address()
	if k.index(addr) >= 0 {
		return addr, errors.Newf("account %s already in keyring", addr.Hex())
	}
	k.Accounts = append(k.Accounts, acc)
	k.Selected = addr.Hex()
	return addr, nil
}

// Store persists the keyring encrypted on disk.
type Store struct {
	Path string
	Opt  securefile.Options
}

// NewStore places the keyring at path, or at the canonical config location
// when path is empty.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		paths, err := securefile.ConfigPathCandidates(AppName, KeyringFile)
		if err != nil {
			return nil, err
		}
		path, _ = securefile.FirstExisting(paths)
	}

	return &Store{
		Path: path,
		Opt:  securefile.Options{AAD: []byte(AADConstant)},
	}, nil
}

func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

func (s *Store) Load(password []byte) (*Keyring, error) {
	k, err := securefile.ReadEncryptedJSON[Keyring](s.Path, password, s.Opt.AAD)
	if err != nil {
		return nil, errors.Wrapf(err, "load keyring %s", s.Path)
	}
	return &k, nil
}

func (s *Store) Save(k *Keyring, password []byte) error {
	return securefile.WriteEncryptedJSON(s.Path, *k, password, s.Opt)
}

// Ensure loads the keyring, or creates one holding a fresh account when the
// file does not exist yet.
func (s *Store) Ensure(password []byte) (*Keyring, error) {
	k, err := s.Load(password)
	if err == nil {
		return k, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	acc, err := NewRandomAccount("Account 1")
	if err != nil {
		return nil, err
	}
	k = &Keyring{Version: 1}
	if _, err := k.add(acc); err != nil {
		return nil, err
	}
	if err := s.Save(k, password); err != nil {
		return nil, err
	}
	return k, nil
}

func NewRandomAccount(label string) (Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return Account{}, errors.Wrap(err, "generate key")
	}
	return accountFromKey(key, label), nil
}

// ImportedAccount parses a hex secp256k1 private key, with or without 0x.
func ImportedAccount(privHex, label string) (Account, error) {
	raw := strings.TrimSpace(privHex)
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		raw = "0x" + raw
	}
	b, err := hexutil.Decode(raw)
	if err != nil {
		return Account{}, errors.Wrap(err, "decode private key")
	}
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return Account{}, errors.Wrap(err, "invalid private key")
	}
	return accountFromKey(key, label), nil
}

func accountFromKey(key *ecdsa.PrivateKey, label string) Account {
	return Account{
		AddressHex: crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivKeyHex: hexutil.Encode(crypto.FromECDSA(key))[2:],
		Label:      label,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}
