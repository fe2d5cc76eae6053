// internal/ledger/args.go
package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// CallArg is one value argument of a Call. The variant set is closed:
// owned object, shared object, pure scalar bytes, or a reference to an
// earlier call's result within the same unit.
type CallArg interface {
	isCallArg()
}

// ObjectArg passes an owned object at an exact version.
type ObjectArg struct {
	Ref ObjectRef
}

// SharedArg passes a shared object.
type SharedArg struct {
	Ref SharedRef
}

// PureArg carries a canonically serialized scalar, option or vector.
type PureArg struct {
	Bytes []byte
}

// ResultArg references the result of a previous call in the same
// unit. Nested selects one element of a multi-value result; -1 takes
// the whole result.
type ResultArg struct {
	Index  int
	Nested int
}

func (ObjectArg) isCallArg() {}
func (SharedArg) isCallArg() {}
func (PureArg) isCallArg()   {}
func (ResultArg) isCallArg() {}

// Pure encoders. The ledger's canonical serialization is
// little-endian fixed-width integers, single-byte booleans, raw
// 32-byte addresses, and ULEB128-length-prefixed strings/vectors.
// Options encode as a 0/1 presence byte followed by the payload.

func PureBool(v bool) PureArg {
	if v {
		return PureArg{Bytes: []byte{1}}
	}
	return PureArg{Bytes: []byte{0}}
}

func PureU8(v uint8) PureArg { return PureArg{Bytes: []byte{v}} }

func PureU16(v uint16) PureArg {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return PureArg{Bytes: b}
}

func PureU32(v uint32) PureArg {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return PureArg{Bytes: b}
}

func PureU64(v uint64) PureArg {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return PureArg{Bytes: b}
}

// PureU128 encodes a 128-bit amount. Values above 2^128-1 are a
// caller bug surfaced as an error, not truncated.
func PureU128(v *uint256.Int) (PureArg, error) {
	if v == nil {
		return PureArg{}, fmt.Errorf("nil u128 value")
	}
	if v.BitLen() > 128 {
		return PureArg{}, fmt.Errorf("value %s exceeds u128 range", v)
	}
	b := make([]byte, 16)
	full := v.Bytes32() // big-endian, zero-padded
	for i := 0; i < 16; i++ {
		b[i] = full[31-i]
	}
	return PureArg{Bytes: b}, nil
}

func PureAddress(a Address) PureArg {
	b := make([]byte, 32)
	copy(b, a[:])
	return PureArg{Bytes: b}
}

func PureObjectID(o ObjectID) PureArg {
	b := make([]byte, 32)
	copy(b, o[:])
	return PureArg{Bytes: b}
}

func PureString(s string) PureArg {
	raw := []byte(s)
	return PureArg{Bytes: append(uleb128(uint64(len(raw))), raw...)}
}

func PureBytes(raw []byte) PureArg {
	return PureArg{Bytes: append(uleb128(uint64(len(raw))), raw...)}
}

// PureOptionU64 encodes an optional u64. nil means absent; a present
// zero is distinct from absence.
func PureOptionU64(v *uint64) PureArg {
	if v == nil {
		return PureArg{Bytes: []byte{0}}
	}
	inner := PureU64(*v)
	return PureArg{Bytes: append([]byte{1}, inner.Bytes...)}
}

func PureOptionAddress(a *Address) PureArg {
	if a == nil {
		return PureArg{Bytes: []byte{0}}
	}
	inner := PureAddress(*a)
	return PureArg{Bytes: append([]byte{1}, inner.Bytes...)}
}

func PureOptionString(s *string) PureArg {
	if s == nil {
		return PureArg{Bytes: []byte{0}}
	}
	inner := PureString(*s)
	return PureArg{Bytes: append([]byte{1}, inner.Bytes...)}
}

// PureVectorU64 encodes a u64 vector with a ULEB128 length prefix.
func PureVectorU64(vs []uint64) PureArg {
	out := uleb128(uint64(len(vs)))
	for _, v := range vs {
		out = append(out, PureU64(v).Bytes...)
	}
	return PureArg{Bytes: out}
}

// PureVectorString encodes a string vector.
func PureVectorString(vs []string) PureArg {
	out := uleb128(uint64(len(vs)))
	for _, v := range vs {
		out = append(out, PureString(v).Bytes...)
	}
	return PureArg{Bytes: out}
}

func uleb128(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}
