// internal/ledger/args_test.go
package ledger

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPureU64LittleEndian(t *testing.T) {
	arg := PureU64(0x0102030405060708)
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, arg.Bytes)
}

func TestPureBool(t *testing.T) {
	assert.Equal(t, []byte{1}, PureBool(true).Bytes)
	assert.Equal(t, []byte{0}, PureBool(false).Bytes)
}

func TestPureString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{name: "empty", input: "", want: []byte{0}},
		{name: "short", input: "abc", want: []byte{3, 'a', 'b', 'c'}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PureString(tc.input).Bytes)
		})
	}
}

func TestPureStringLongLengthPrefix(t *testing.T) {
	// 130 bytes needs a two-byte ULEB128 prefix: 0x82 0x01.
	long := make([]byte, 130)
	for i := range long {
		long[i] = 'x'
	}
	arg := PureString(string(long))
	require.Equal(t, byte(0x82), arg.Bytes[0])
	require.Equal(t, byte(0x01), arg.Bytes[1])
	assert.Len(t, arg.Bytes, 132)
}

func TestPureOptionU64(t *testing.T) {
	assert.Equal(t, []byte{0}, PureOptionU64(nil).Bytes)

	v := uint64(7)
	got := PureOptionU64(&v).Bytes
	assert.Equal(t, []byte{1, 7, 0, 0, 0, 0, 0, 0, 0}, got)

	// Present zero is distinct from absent.
	zero := uint64(0)
	assert.NotEqual(t, PureOptionU64(nil).Bytes, PureOptionU64(&zero).Bytes)
}

func TestPureU128(t *testing.T) {
	arg, err := PureU128(uint256.NewInt(258))
	require.NoError(t, err)
	require.Len(t, arg.Bytes, 16)
	assert.Equal(t, byte(2), arg.Bytes[0])
	assert.Equal(t, byte(1), arg.Bytes[1])
	assert.Equal(t, byte(0), arg.Bytes[2])
}

func TestPureU128RejectsOverflow(t *testing.T) {
	over := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	_, err := PureU128(over)
	require.Error(t, err)

	_, err = PureU128(nil)
	require.Error(t, err)
}

func TestPureVectorU64(t *testing.T) {
	arg := PureVectorU64([]uint64{1, 2})
	require.Equal(t, byte(2), arg.Bytes[0])
	assert.Len(t, arg.Bytes, 17)
}

func TestParseAddressPadsShortInput(t *testing.T) {
	a, err := ParseAddress("0x2")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000002", a.String())
}

func TestParseAddressRejectsBadInput(t *testing.T) {
	_, err := ParseAddress("")
	assert.Error(t, err)

	_, err = ParseAddress("0xzz")
	assert.Error(t, err)

	_, err = ParseAddress("0x" + strings.Repeat("0", 65))
	assert.Error(t, err)
}
