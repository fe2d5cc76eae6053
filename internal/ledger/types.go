// internal/ledger/types.go
package ledger

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Address is a 32-byte account or object address, rendered as 0x-hex.
type Address [32]byte

// ObjectID identifies an on-ledger object. Same layout as Address but
// the two are never interchangeable in call arguments.
type ObjectID [32]byte

// Digest is the 32-byte content digest of an object version or a
// submitted unit. Rendered base58, matching the ledger's explorers.
type Digest [32]byte

func (a Address) String() string  { return "0x" + hex.EncodeToString(a[:]) }
func (o ObjectID) String() string { return "0x" + hex.EncodeToString(o[:]) }
func (d Digest) String() string   { return base58.Encode(d[:]) }

// ParseAddress parses a 0x-prefixed hex address. Short input is
// left-padded with zeros, matching the ledger's canonical form.
func ParseAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(s, "0x")
	if len(s) == 0 || len(s) > 64 {
		return a, fmt.Errorf("invalid address length %d", len(s))
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %w", s, err)
	}
	copy(a[32-len(raw):], raw)
	return a, nil
}

// ParseObjectID parses a 0x-prefixed hex object id.
func ParseObjectID(s string) (ObjectID, error) {
	a, err := ParseAddress(s)
	return ObjectID(a), err
}

// ObjectRef names an owned object at an exact version.
type ObjectRef struct {
	ID      ObjectID
	Version uint64
	Digest  Digest
}

// SharedRef names a shared object. Mutable declares whether the call
// takes the object by mutable reference; the ledger schedules around
// this, so it must match the target function's signature.
type SharedRef struct {
	ID                   ObjectID
	InitialSharedVersion uint64
	Mutable              bool
}

// Target is the fully qualified callee: package object, module name,
// function name.
type Target struct {
	Package  ObjectID
	Module   string
	Function string
}

func (t Target) String() string {
	return fmt.Sprintf("%s::%s::%s", t.Package, t.Module, t.Function)
}

// TypeTag is a fully qualified type parameter, e.g.
// "0x2::coin::Coin<0xabc::asset::ASSET>". Opaque to the client.
type TypeTag string

// CoinTypeTag builds the tag for a coin type declared by pkg.
func CoinTypeTag(pkg ObjectID, module, name string) TypeTag {
	return TypeTag(fmt.Sprintf("%s::%s::%s", pkg, module, name))
}
