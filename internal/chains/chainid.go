package chains

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrInvalidChainID = errors.New("invalid chain id")

// ParseChainID accepts the forms wallets and configs use for chain ids:
// "0xaa36a7", "0XAA36A7" and "11155111" all yield 11155111. Zero and
// negative ids are rejected.
func ParseChainID(s string) (*big.Int, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return nil, errors.Wrap(ErrInvalidChainID, "empty chain id")
	}

	id := new(big.Int)
	var ok bool
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		_, ok = id.SetString(raw[2:], 16)
	} else {
		_, ok = id.SetString(raw, 10)
	}
	if !ok || id.Sign() <= 0 {
		return nil, errors.Wrapf(ErrInvalidChainID, "%q", s)
	}
	return id, nil
}

// ChainIDHex renders a chain id the way wallet_switchEthereumChain expects it.
func ChainIDHex(id *big.Int) string {
	if id == nil || id.Sign() == 0 {
		return "0x0"
	}
	return "0x" + id.Text(16)
}

// SameChain reports whether two canonical chain ids are equal. Nil never
// matches.
func SameChain(a, b *big.Int) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Cmp(b) == 0
}

// CanonicalChainID reconciles ChainID and ChainIDHex. When both are set they
// must agree.
func (n NetworkConfig) CanonicalChainID() (*big.Int, error) {
	var fromHex *big.Int
	if strings.TrimSpace(n.ChainIDHex) != "" {
		id, err := ParseChainID(n.ChainIDHex)
		if err != nil {
			return nil, errors.Wrapf(err, "network %q", n.Name)
		}
		fromHex = id
	}

	switch {
	case n.ChainID == 0 && fromHex == nil:
		return nil, errors.Wrapf(ErrInvalidChainID, "network %q has no chain id", n.Name)
	case fromHex == nil:
		return new(big.Int).SetUint64(n.ChainID), nil
	case n.ChainID != 0 && fromHex.Cmp(new(big.Int).SetUint64(n.ChainID)) != 0:
		return nil, errors.Wrapf(ErrInvalidChainID, "network %q: chainId %d does not match chainIdHex %s", n.Name, n.ChainID, n.ChainIDHex)
	default:
		return fromHex, nil
	}
}
