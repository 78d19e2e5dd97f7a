// Package naming defines the on-disk naming scheme for boot environment
// archives and the generator for their identifiers.
//
// Every store-managed file is named <family>.<identifier>.<extension>,
// where the family tag and archive extension are fixed literals and the
// identifier is either a generated decimal token or the reserved token
// "current". The scheme is bit-compatible with existing store layouts:
// family matching is substring containment on the first dot component,
// not exact equality.
package naming

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Family is the fixed literal tag identifying store-managed files.
	Family = "boot_env"
	// Extension is the fixed archive suffix for boot environment files.
	Extension = "tar.gz"
	// CurrentToken is the reserved identifier naming the current pointer.
	CurrentToken = "current"

	// idWidth is the number of decimal digits in a generated identifier.
	idWidth = 8
)

// idRange is 10^idWidth, the modulus applied to the digest.
var idRange = new(big.Int).Exp(big.NewInt(10), big.NewInt(idWidth), nil)

var (
	// ErrMalformedName reports a file name with fewer than three dot components.
	ErrMalformedName = errors.New("malformed environment file name")
	// ErrInvalidIdentifier reports an identifier token that fails validation.
	ErrInvalidIdentifier = errors.New("invalid environment identifier")
)

// Identifier names one boot environment. It is a tagged variant: either
// the reserved current pointer or a generated token. The zero value is
// not a valid identifier.
type Identifier struct {
	token   string
	current bool
}

// Current returns the reserved identifier of the current pointer.
func Current() Identifier {
	return Identifier{current: true}
}

// Generated wraps a raw token as a generated identifier.
func Generated(token string) Identifier {
	return Identifier{token: token}
}

// FromToken classifies a raw token, mapping the reserved token to the
// current pointer identifier.
func FromToken(token string) Identifier {
	if token == CurrentToken {
		return Current()
	}
	return Generated(token)
}

// IsCurrent reports whether the identifier is the reserved current pointer.
func (id Identifier) IsCurrent() bool {
	return id.current
}

// String returns the identifier token as it appears in file names.
func (id Identifier) String() string {
	if id.current {
		return CurrentToken
	}
	return id.token
}

// Generate derives a fixed-width decimal identifier from the seed string
// by hashing it and reducing the digest modulo 10^8. The result is a pure
// function of the seed: callers wanting uniqueness must seed with a
// wall-clock timestamp of at least second granularity. A seed collision
// names an existing environment and silently overwrites it on build; this
// is a known limitation of the scheme, not detected here.
func Generate(seed string) Identifier {
	sum := sha256.Sum256([]byte(seed))
	n := new(big.Int).SetBytes(sum[:])
	n.Mod(n, idRange)
	return Generated(fmt.Sprintf("%0*d", idWidth, n))
}

// DecodeMode selects how strictly Decode validates identifier tokens.
type DecodeMode int

const (
	// Strict accepts only all-decimal tokens besides the reserved token.
	Strict DecodeMode = iota
	// Lenient accepts any non-empty token.
	Lenient
)

// Name is the decoded form of a store-managed file name.
type Name struct {
	Family    string
	ID        Identifier
	Extension string
}

// Encode builds the canonical file name for an identifier.
func Encode(id Identifier) string {
	return fmt.Sprintf("%s.%s.%s", Family, id.String(), Extension)
}

// Decode splits a file name into family, identifier and extension.
// Names with fewer than three dot components are rejected. The identifier
// token is validated according to mode; the reserved token is accepted in
// both modes. Decode does not check the family tag, use MatchesFamily.
func Decode(name string, mode DecodeMode) (Name, error) {
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return Name{}, fmt.Errorf("%w: %q has %d dot components, want at least 3", ErrMalformedName, name, len(parts))
	}

	token := parts[1]
	if token != CurrentToken {
		if token == "" {
			return Name{}, fmt.Errorf("%w: empty token in %q", ErrInvalidIdentifier, name)
		}
		if mode == Strict && !allDigits(token) {
			return Name{}, fmt.Errorf("%w: token %q is not numeric", ErrInvalidIdentifier, token)
		}
	}

	return Name{
		Family:    parts[0],
		ID:        FromToken(token),
		Extension: strings.Join(parts[2:], "."),
	}, nil
}

// MatchesFamily reports whether the first dot component of name contains
// the family tag. Containment rather than equality is intentional and
// preserved from the historical layout; a differently-prefixed file whose
// first component embeds the tag is still claimed by the store.
func MatchesFamily(name string) bool {
	first, _, _ := strings.Cut(name, ".")
	return strings.Contains(first, Family)
}

// allDigits reports whether s consists only of ASCII decimal digits.
func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
