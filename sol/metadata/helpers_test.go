package metadata

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/outcry-labs/go-outcry/sol/metaplex"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/stretchr/testify/require"
)

func metadataAccount(mint solana.PublicKey, name, symbol, uri string) []byte {
	buf := []byte{metaplex.KeyMetadataV1}
	buf = append(buf, solana.NewWallet().PublicKey().Bytes()...)
	buf = append(buf, mint.Bytes()...)
	for _, f := range []struct {
		value    string
		capacity int
	}{{name, metaplex.MaxNameLength}, {symbol, metaplex.MaxSymbolLength}, {uri, metaplex.MaxURILength}} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(f.value)))
		field := make([]byte, f.capacity)
		copy(field, f.value)
		buf = append(buf, field...)
	}
	buf = binary.LittleEndian.AppendUint16(buf, 500)
	buf = append(buf, 0)
	buf = append(buf, 1, 1)
	return buf
}

type fakeReader struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey][]byte
	err      error
	calls    atomic.Int32
	gate     chan struct{}
}

func newFakeReader() *fakeReader {
	return &fakeReader{accounts: make(map[solana.PublicKey][]byte)}
}

func (f *fakeReader) put(t *testing.T, mint solana.PublicKey, data []byte) {
	t.Helper()
	address, err := metaplex.FindMetadata(metaplex.ProgramID, mint)
	require.NoError(t, err)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[address.Address] = data
}

func (f *fakeReader) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeReader) ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts[address], nil
}

type fakeFetcher struct {
	mu    sync.Mutex
	docs  map[string]string
	err   error
	calls atomic.Int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{docs: make(map[string]string)}
}

func (f *fakeFetcher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeFetcher) FetchJSON(ctx context.Context, uri string) ([]byte, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[uri]
	if !ok {
		return nil, types.ErrOffchainUnavailable
	}
	return []byte(doc), nil
}

var errRPC = errors.New("rpc unavailable")

func newTestCache(t *testing.T, cfg types.CacheConfig) *Cache {
	t.Helper()
	c, err := NewCache(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}
