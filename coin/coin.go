package coin

import (
	"fmt"
	"regexp"

	"github.com/iov-one/gringotts/errors"
	"gopkg.in/yaml.v3"
)

var (
	// IsDenom is the RegExp to ensure valid denominations.
	IsDenom = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._\-]{2,127}$`).MatchString

	coinText = regexp.MustCompile(`^([0-9]+)\s*([a-zA-Z][a-zA-Z0-9/:._\-]{2,127})$`)
)

// Coin is an amount of tokens of a single denomination.
type Coin struct {
	_      struct{} `cbor:",toarray"`
	Denom  string   `yaml:"denom"`
	Amount Amount   `yaml:"amount"`
}

// NewCoin creates a new coin object.
func NewCoin(amount uint64, denom string) Coin {
	return Coin{Denom: denom, Amount: NewAmount(amount)}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, denom string) *Coin {
	c := NewCoin(amount, denom)
	return &c
}

// ParseCoin reads a coin from a "<amount><denom>" string, for example
// "1000usei".
func ParseCoin(s string) (Coin, error) {
	chunks := coinText.FindStringSubmatch(s)
	if chunks == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin %q", s)
	}
	amount, err := ParseAmount(chunks[1])
	if err != nil {
		return Coin{}, err
	}
	return Coin{Denom: chunks[2], Amount: amount}, nil
}

// UnmarshalYAML accepts both the "<amount><denom>" text form and a mapping
// with denom and amount attributes.
func (c *Coin) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParseCoin(node.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	type plain Coin
	return node.Decode((*plain)(c))
}

// Validate returns an error if the denomination is malformed.
func (c Coin) Validate() error {
	if !IsDenom(c.Denom) {
		return errors.Wrapf(errors.ErrInput, "invalid denomination %q", c.Denom)
	}
	return nil
}

// IsZero returns true if the amount is zero.
func (c Coin) IsZero() bool {
	return c.Amount.IsZero()
}

// Equals returns true if both coins have the same denomination and amount.
func (c Coin) Equals(o Coin) bool {
	return c.Denom == o.Denom && c.Amount.Equals(o.Amount)
}

func (c Coin) String() string {
	return fmt.Sprintf("%s%s", c.Amount, c.Denom)
}

// Coins is a list of coins, usually a deposit.
type Coins []Coin

// AmountOf returns the total amount of given denomination.
func (cs Coins) AmountOf(denom string) (Amount, error) {
	var total Amount
	for _, c := range cs {
		if c.Denom != denom {
			continue
		}
		var err error
		if total, err = total.Add(c.Amount); err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}

// Validate returns an error if any of the coins is invalid.
func (cs Coins) Validate() error {
	var err error
	for i, c := range cs {
		err = errors.AppendField(err, fmt.Sprintf("%d", i), c.Validate())
	}
	return err
}
