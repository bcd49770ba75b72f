package sol

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
	"github.com/outcry-labs/go-outcry/sol/metaplex"
	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeRPC serves JSON-RPC requests from in-memory accounts.
type fakeRPC struct {
	t        *testing.T
	srv      *httptest.Server
	mu       sync.Mutex
	accounts map[solana.PublicKey]account
	handlers map[string]func(params []json.RawMessage) interface{}
	docs     map[string]string
	calls    map[string]int
}

type account struct {
	data     []byte
	lamports uint64
	owner    solana.PublicKey
}

func newFakeRPC(t *testing.T) *fakeRPC {
	f := &fakeRPC{
		t:        t,
		accounts: make(map[solana.PublicKey]account),
		handlers: make(map[string]func(params []json.RawMessage) interface{}),
		docs:     make(map[string]string),
		calls:    make(map[string]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeRPC) put(address solana.PublicKey, data []byte, lamports uint64) {
	f.putOwned(address, data, lamports, outcry.ProgramID)
}

func (f *fakeRPC) putOwned(address solana.PublicKey, data []byte, lamports uint64, owner solana.PublicKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[address] = account{data: data, lamports: lamports, owner: owner}
}

func (f *fakeRPC) remove(address solana.PublicKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.accounts, address)
}

func (f *fakeRPC) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeRPC) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		f.mu.Lock()
		doc, ok := f.docs[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(doc))
		return
	}

	var req rpcRequest
	if !assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req)) {
		return
	}

	f.mu.Lock()
	f.calls[req.Method]++
	handler, ok := f.handlers[req.Method]
	f.mu.Unlock()

	var result interface{}
	switch {
	case ok:
		result = handler(req.Params)
	case req.Method == "getAccountInfo":
		result = map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   f.accountJSON(f.paramKey(req.Params[0])),
		}
	case req.Method == "getMultipleAccounts":
		var keys []string
		assert.NoError(f.t, json.Unmarshal(req.Params[0], &keys))
		values := make([]interface{}, len(keys))
		for i, k := range keys {
			values[i] = f.accountJSON(solana.MPK(k))
		}
		result = map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   values,
		}
	case req.Method == "getBalance":
		var lamports uint64
		if acct := f.accountJSON(f.paramKey(req.Params[0])); acct != nil {
			lamports = acct["lamports"].(uint64)
		}
		result = map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   lamports,
		}
	default:
		f.t.Errorf("unexpected rpc method %s", req.Method)
	}

	w.Header().Set("Content-Type", "application/json")
	assert.NoError(f.t, json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	}))
}

func (f *fakeRPC) paramKey(raw json.RawMessage) solana.PublicKey {
	var key string
	assert.NoError(f.t, json.Unmarshal(raw, &key))
	return solana.MPK(key)
}

func (f *fakeRPC) accountJSON(address solana.PublicKey) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	acct, ok := f.accounts[address]
	if !ok {
		return nil
	}
	return map[string]interface{}{
		"data":       []string{base64.StdEncoding.EncodeToString(acct.data), "base64"},
		"executable": false,
		"lamports":   acct.lamports,
		"owner":      acct.owner.String(),
		"rentEpoch":  0,
		"space":      len(acct.data),
	}
}

func contextForTest(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func newTestSolana(t *testing.T, f *fakeRPC) *Solana {
	t.Helper()
	return newTestSolanaWithConfig(t, &types.Config{
		RPC:        f.srv.URL,
		WSRPC:      "ws" + f.srv.URL[len("http"):],
		Commitment: types.CommitmentConfirmed,
	})
}

// newTestSolanaWithRollup serves delegated auctions from rollup.
func newTestSolanaWithRollup(t *testing.T, f, rollup *fakeRPC) *Solana {
	t.Helper()
	return newTestSolanaWithConfig(t, &types.Config{
		RPC:          f.srv.URL,
		WSRPC:        "ws" + f.srv.URL[len("http"):],
		EphemeralRPC: rollup.srv.URL,
		Commitment:   types.CommitmentConfirmed,
	})
}

func newTestSolanaWithConfig(t *testing.T, cfg *types.Config) *Solana {
	t.Helper()
	s, err := NewSolana(contextForTest(t), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// programAccounts answers getProgramAccounts per owner program and records
// the filters of each query.
func (f *fakeRPC) programAccounts(byOwner map[solana.PublicKey][]solana.PublicKey) map[solana.PublicKey][]json.RawMessage {
	queries := make(map[solana.PublicKey][]json.RawMessage)
	f.handlers["getProgramAccounts"] = func(p []json.RawMessage) interface{} {
		owner := f.paramKey(p[0])
		f.mu.Lock()
		queries[owner] = p
		f.mu.Unlock()
		out := make([]interface{}, 0, len(byOwner[owner]))
		for _, pk := range byOwner[owner] {
			out = append(out, map[string]interface{}{"pubkey": pk.String(), "account": f.accountJSON(pk)})
		}
		return out
	}
	return queries
}

type programFilter struct {
	DataSize *uint64 `json:"dataSize"`
	Memcmp   *struct {
		Offset uint64 `json:"offset"`
		Bytes  string `json:"bytes"`
	} `json:"memcmp"`
}

func decodeFilters(t *testing.T, raw json.RawMessage) []programFilter {
	t.Helper()
	var opts struct {
		Filters []programFilter `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(raw, &opts))
	return opts.Filters
}

func encodeAuction(t *testing.T, state outcry.AuctionState) []byte {
	t.Helper()
	body, err := borsh.Serialize(state)
	require.NoError(t, err)
	disc := outcry.AuctionStateDiscriminator
	return append(disc[:], body...)
}

func encodeVault(t *testing.T, auction solana.PublicKey) []byte {
	t.Helper()
	body, err := borsh.Serialize(outcry.AuctionVault{Auction: auction, Bump: 254})
	require.NoError(t, err)
	disc := outcry.AuctionVaultDiscriminator
	return append(disc[:], body...)
}

func encodeDeposit(t *testing.T, deposit outcry.BidderDeposit) []byte {
	t.Helper()
	body, err := borsh.Serialize(deposit)
	require.NoError(t, err)
	disc := outcry.BidderDepositDiscriminator
	return append(disc[:], body...)
}

func encodeEvent(t *testing.T, event types.Event) string {
	t.Helper()
	var buf bytes.Buffer
	disc := outcry.EventDiscriminator(event.EventName())
	buf.Write(disc[:])
	require.NoError(t, bin.NewBorshEncoder(&buf).Encode(event))
	return "Program data: " + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func metadataAccount(mint solana.PublicKey, name, symbol, uri string) []byte {
	buf := []byte{metaplex.KeyMetadataV1}
	buf = append(buf, solana.SystemProgramID.Bytes()...)
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
	buf = binary.LittleEndian.AppendUint16(buf, 250)
	return append(buf, 0)
}
