// Package metaplex reads Metaplex token metadata accounts.
package metaplex

import (
	"encoding/binary"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/outcry-labs/go-outcry/sol/pda"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/outcry-labs/go-outcry/utils"
)

var ProgramID = solana.MPK("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const (
	MetadataSeed = "metadata"

	KeyMetadataV1 uint8 = 4

	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200

	creatorLength = solana.PublicKeyLength + 1 + 1

	// MinMetadataLength covers key, update authority, mint, the three bounded
	// strings, the fee and the creators presence byte.
	MinMetadataLength = 1 + 2*solana.PublicKeyLength +
		(4 + MaxNameLength) + (4 + MaxSymbolLength) + (4 + MaxURILength) +
		2 + 1
)

type Metadata struct {
	Key                  uint8
	UpdateAuthority      solana.PublicKey
	Mint                 solana.PublicKey
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []types.Creator
	PrimarySaleHappened  bool
	IsMutable            bool
}

// boundedString is a u32 length prefix followed by a fixed-capacity field. The
// declared length is advisory and is clamped to the capacity.
type boundedString struct {
	declaredLength uint32
	capacity       int
}

func (s boundedString) length() int {
	if uint64(s.declaredLength) > uint64(s.capacity) {
		return s.capacity
	}
	return int(s.declaredLength)
}

func readBoundedString(dec *bin.Decoder, capacity int) (string, bool) {
	declared, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return "", false
	}
	field, err := dec.ReadNBytes(capacity)
	if err != nil {
		return "", false
	}
	s := boundedString{declaredLength: declared, capacity: capacity}
	return utils.TrimSpace(strings.ToValidUTF8(string(field[:s.length()]), "\uFFFD")), true
}

func readPublicKey(dec *bin.Decoder) (solana.PublicKey, bool) {
	b, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, false
	}
	return solana.PublicKeyFromBytes(b), true
}

// Decode parses a metadata account. It returns nil when the buffer is too
// short for the fixed fields or when the creators section is truncated; a
// partial creators list is never returned.
func Decode(data []byte) *Metadata {
	if len(data) < MinMetadataLength {
		return nil
	}

	var (
		m   Metadata
		ok  bool
		err error
	)
	dec := bin.NewBinDecoder(data)

	if m.Key, err = dec.ReadUint8(); err != nil {
		return nil
	}
	if m.UpdateAuthority, ok = readPublicKey(dec); !ok {
		return nil
	}
	if m.Mint, ok = readPublicKey(dec); !ok {
		return nil
	}
	if m.Name, ok = readBoundedString(dec, MaxNameLength); !ok {
		return nil
	}
	if m.Symbol, ok = readBoundedString(dec, MaxSymbolLength); !ok {
		return nil
	}
	if m.URI, ok = readBoundedString(dec, MaxURILength); !ok {
		return nil
	}
	if m.SellerFeeBasisPoints, err = dec.ReadUint16(binary.LittleEndian); err != nil {
		return nil
	}

	if m.Creators, ok = readCreators(dec); !ok {
		return nil
	}

	if v, err := dec.ReadUint8(); err == nil {
		m.PrimarySaleHappened = v != 0
	}
	if v, err := dec.ReadUint8(); err == nil {
		m.IsMutable = v != 0
	}

	return &m
}

func readCreators(dec *bin.Decoder) ([]types.Creator, bool) {
	present, err := dec.ReadUint8()
	if err != nil {
		return nil, false
	}
	switch present {
	case 0:
		return []types.Creator{}, true
	case 1:
	default:
		return nil, false
	}

	n, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil || uint64(n)*creatorLength > uint64(dec.Remaining()) {
		return nil, false
	}

	creators := make([]types.Creator, n)
	for i := range creators {
		address, ok := readPublicKey(dec)
		if !ok {
			return nil, false
		}
		verified, err := dec.ReadUint8()
		if err != nil {
			return nil, false
		}
		share, err := dec.ReadUint8()
		if err != nil {
			return nil, false
		}
		creators[i] = types.Creator{
			Address:  address,
			Verified: verified != 0,
			Share:    share,
		}
	}
	return creators, true
}

// CreatorShareTotal sums the creator shares. Well-formed metadata sums to 100
// when creators are present; Decode does not check it.
func (m *Metadata) CreatorShareTotal() int {
	total := 0
	for _, c := range m.Creators {
		total += int(c.Share)
	}
	return total
}

// FindMetadata derives the metadata account of mint under the metadata
// program.
func FindMetadata(programID, mint solana.PublicKey) (pda.PDA, error) {
	return pda.FindProgramAddress(
		[][]byte{
			[]byte(MetadataSeed),
			programID.Bytes(),
			mint.Bytes(),
		},
		programID,
	)
}
