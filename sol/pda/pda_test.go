package pda

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testProgram     = solana.MPK("J7r5mzvVUjSNQteoqn6Hd3LjZ3ksmwoD5xsnUvMJwPZo")
	metadataProgram = solana.MPK("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
	sellerA         = solana.MPK("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5")
	sellerB         = solana.MPK("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe")
	mint            = solana.MPK("HeLp6NuQkmYB4pYWo2zYs22mESHXPQYzXbB8n4V98jwC")
)

func TestFindProgramAddress_MatchesRuntime(t *testing.T) {
	cases := []struct {
		name    string
		seeds   [][]byte
		program solana.PublicKey
	}{
		{"auction", [][]byte{[]byte("auction"), sellerA.Bytes(), mint.Bytes()}, testProgram},
		{"vault", [][]byte{[]byte("vault"), sellerB.Bytes()}, testProgram},
		{"metadata", [][]byte{[]byte("metadata"), metadataProgram.Bytes(), mint.Bytes()}, metadataProgram},
		{"empty seed", [][]byte{{}}, testProgram},
		{"no seeds", nil, testProgram},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FindProgramAddress(tc.seeds, tc.program)
			require.NoError(t, err)

			want, bump, err := solana.FindProgramAddress(tc.seeds, tc.program)
			require.NoError(t, err)
			assert.Equal(t, want, got.Address)
			assert.Equal(t, bump, got.Bump)
		})
	}
}

func TestFindProgramAddress_MetadataMatchesHelper(t *testing.T) {
	got, err := FindProgramAddress([][]byte{[]byte("metadata"), metadataProgram.Bytes(), mint.Bytes()}, metadataProgram)
	require.NoError(t, err)

	want, bump, err := solana.FindTokenMetadataAddress(mint)
	require.NoError(t, err)
	assert.Equal(t, want, got.Address)
	assert.Equal(t, bump, got.Bump)
}

func TestFindProgramAddress_Deterministic(t *testing.T) {
	seeds := [][]byte{[]byte("auction"), sellerA.Bytes(), mint.Bytes()}
	first, err := FindProgramAddress(seeds, testProgram)
	require.NoError(t, err)
	second, err := FindProgramAddress(seeds, testProgram)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindProgramAddress_OffCurve(t *testing.T) {
	for _, seller := range []solana.PublicKey{sellerA, sellerB, mint, testProgram} {
		p, err := FindProgramAddress([][]byte{[]byte("auction"), seller.Bytes(), mint.Bytes()}, testProgram)
		require.NoError(t, err)
		assert.False(t, IsOnCurve(p.Address), p.String())
	}
	// Keypair public keys are curve points.
	assert.True(t, IsOnCurve(solana.NewWallet().PublicKey()))
}

func TestFindProgramAddress_SeedSensitivity(t *testing.T) {
	a, err := FindProgramAddress([][]byte{[]byte("auction"), sellerA.Bytes(), mint.Bytes()}, testProgram)
	require.NoError(t, err)
	b, err := FindProgramAddress([][]byte{[]byte("auction"), sellerB.Bytes(), mint.Bytes()}, testProgram)
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, b.Address)

	c, err := FindProgramAddress([][]byte{[]byte("auction"), sellerA.Bytes(), mint.Bytes()}, metadataProgram)
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, c.Address)
}

func TestFindProgramAddress_InvalidSeeds(t *testing.T) {
	_, err := FindProgramAddress([][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)}, testProgram)
	assert.ErrorIs(t, err, types.ErrInvalidSeeds)

	tooMany := make([][]byte, MaxSeeds)
	_, err = FindProgramAddress(tooMany, testProgram)
	assert.ErrorIs(t, err, types.ErrInvalidSeeds)

	_, err = CreateProgramAddress(make([][]byte, MaxSeeds+1), testProgram)
	assert.ErrorIs(t, err, types.ErrInvalidSeeds)

	_, err = FindProgramAddress([][]byte{bytes.Repeat([]byte{1}, MaxSeedLength)}, testProgram)
	assert.NoError(t, err)
}

func TestCreateProgramAddress_MatchesRuntime(t *testing.T) {
	p, err := FindProgramAddress([][]byte{[]byte("vault"), sellerA.Bytes()}, testProgram)
	require.NoError(t, err)

	seeds := [][]byte{[]byte("vault"), sellerA.Bytes(), {p.Bump}}
	got, err := CreateProgramAddress(seeds, testProgram)
	require.NoError(t, err)
	want, err := solana.CreateProgramAddress(seeds, testProgram)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, p.Address, got)
}

type fakeCrypto struct {
	onCurve int
	calls   int
	inputs  [][]byte
}

func (f *fakeCrypto) Hash(data []byte) []byte {
	f.inputs = append(f.inputs, append([]byte(nil), data...))
	sum := sha256.Sum256(data)
	return sum[:]
}

func (f *fakeCrypto) IsOnCurve([]byte) bool {
	f.calls++
	return f.onCurve < 0 || f.calls <= f.onCurve
}

func TestDeriver_BumpSearchOrder(t *testing.T) {
	fake := &fakeCrypto{onCurve: 3}
	d := NewDeriver(fake)

	p, err := d.FindProgramAddress([][]byte{[]byte("deposit"), sellerA.Bytes()}, testProgram)
	require.NoError(t, err)
	assert.Equal(t, uint8(252), p.Bump)
	require.Len(t, fake.inputs, 4)

	var want []byte
	want = append(want, []byte("deposit")...)
	want = append(want, sellerA.Bytes()...)
	want = append(want, 252)
	want = append(want, testProgram.Bytes()...)
	want = append(want, []byte("ProgramDerivedAddress")...)
	assert.Equal(t, want, fake.inputs[3])

	sum := sha256.Sum256(want)
	assert.Equal(t, solana.PublicKeyFromBytes(sum[:]), p.Address)
}

func TestDeriver_NoValidBump(t *testing.T) {
	fake := &fakeCrypto{onCurve: -1}
	d := NewDeriver(fake)

	_, err := d.FindProgramAddress([][]byte{[]byte("auction")}, testProgram)
	assert.ErrorIs(t, err, types.ErrNoValidBumpFound)
	assert.Equal(t, 256, fake.calls)
}

type shortHash struct{}

func (shortHash) Hash([]byte) []byte    { return []byte{1, 2, 3} }
func (shortHash) IsOnCurve([]byte) bool { return false }

func TestDeriver_RejectsShortHash(t *testing.T) {
	_, err := NewDeriver(shortHash{}).FindProgramAddress([][]byte{[]byte("auction")}, testProgram)
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrNoValidBumpFound)
}
