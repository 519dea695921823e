package heronft

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Rarity is the on-chain rarity tier of a hero.
type Rarity uint8

const (
	Common Rarity = iota
	Rare
	Legendary
	Mythical
)

var rarityNames = [...]string{"Common", "Rare", "Legendary", "Mythical"}

func (r Rarity) Known() bool {
	return int(r) < len(rarityNames)
}

func (r Rarity) String() string {
	if r.Known() {
		return rarityNames[r]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(r))
}

func (r Rarity) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rarity) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for i, n := range rarityNames {
		if n == name {
			*r = Rarity(i)
			return nil
		}
	}
	var n uint8
	if _, err := fmt.Sscanf(name, "Unknown(%d)", &n); err != nil {
		return fmt.Errorf("heronft: unknown rarity %q", name)
	}
	*r = Rarity(n)
	return nil
}

// Hero is the immutable attribute record fixed at mint time.
type Hero struct {
	Rarity       Rarity `json:"rarity"`
	Strength     uint64 `json:"strength"`
	Agility      uint64 `json:"agility"`
	Intelligence uint64 `json:"intelligence"`
}

// Token is a read-only snapshot of one HeroNFT. ListingPrice is in wei;
// zero means not listed.
type Token struct {
	TokenID      uint64         `json:"tokenId"`
	Owner        common.Address `json:"owner"`
	ListingPrice *big.Int       `json:"listingPrice"`
	Hero
}

func (t Token) Listed() bool {
	return IsListed(t.ListingPrice)
}

// IsListed reports whether a listing price marks a token for sale. Any
// positive amount counts.
func IsListed(price *big.Int) bool {
	return price != nil && price.Sign() > 0
}

// SameAddress compares two addresses. Hex case is irrelevant once parsed.
func SameAddress(a, b common.Address) bool {
	return a == b
}
