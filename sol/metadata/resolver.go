// Package metadata resolves Metaplex metadata for a mint, combining the
// on-chain account with its off-chain JSON document.
package metadata

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/outcry-labs/go-outcry/sol/metaplex"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/outcry-labs/go-outcry/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultResolveTimeout = 30 * time.Second

// Resolver turns a mint into ResolvedMetadata. Results are cached per mint and
// concurrent requests for the same mint share one resolution. Failures are
// reported as absent and are never cached.
type Resolver struct {
	reader            types.AccountReader
	fetcher           types.JSONFetcher
	cache             *Cache
	metadataProgramID solana.PublicKey
	timeout           time.Duration
	logger            *zap.Logger

	group    singleflight.Group
	mu       sync.Mutex
	inflight map[string]struct{}
}

var _ types.MetadataSource = (*Resolver)(nil)

type Option func(*Resolver)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithMetadataProgram(programID solana.PublicKey) Option {
	return func(r *Resolver) {
		r.metadataProgramID = programID
	}
}

// WithResolveTimeout bounds a single resolution, which runs independently of
// the caller's context.
func WithResolveTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewResolver(reader types.AccountReader, fetcher types.JSONFetcher, cache *Cache, opts ...Option) *Resolver {
	r := &Resolver{
		reader:            reader,
		fetcher:           fetcher,
		cache:             cache,
		metadataProgramID: metaplex.ProgramID,
		timeout:           DefaultResolveTimeout,
		logger:            zap.NewNop(),
		inflight:          make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Loading reports whether a resolution for mint is currently in flight.
func (r *Resolver) Loading(mint solana.PublicKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[mint.String()]
	return ok
}

// Resolve returns the metadata for mint, or false when it is unavailable.
// Cancelling ctx stops the wait but not the resolution, whose result still
// lands in the cache.
func (r *Resolver) Resolve(ctx context.Context, mint solana.PublicKey) (*types.ResolvedMetadata, bool) {
	key := mint.String()
	if v, ok := r.cache.Get(ctx, key); ok {
		return v, true
	}

	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		r.setLoading(key, true)
		defer r.setLoading(key, false)

		if v, ok := r.cache.Get(detached, key); ok {
			return v, nil
		}

		rctx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()
		v := r.resolve(rctx, mint)
		if v == nil {
			return nil, nil
		}
		if err := r.cache.Set(detached, key, v); err != nil {
			r.logger.Warn("cache metadata", zap.String("mint", key), zap.Error(err))
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, false
	case res := <-ch:
		v, _ := res.Val.(*types.ResolvedMetadata)
		return v, v != nil
	}
}

// ResolveMany resolves mints concurrently. Mints that could not be resolved
// are left out of the result.
func (r *Resolver) ResolveMany(ctx context.Context, mints []solana.PublicKey) map[string]*types.ResolvedMetadata {
	var (
		mu     sync.Mutex
		result = make(map[string]*types.ResolvedMetadata, len(mints))
		procs  utils.Subprocesses
	)
	for _, mint := range mints {
		mint := mint
		procs.Go(func() {
			v, ok := r.Resolve(ctx, mint)
			if !ok {
				return
			}
			mu.Lock()
			result[mint.String()] = v
			mu.Unlock()
		})
	}
	procs.Wait()
	return result
}

func (r *Resolver) setLoading(key string, loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if loading {
		r.inflight[key] = struct{}{}
	} else {
		delete(r.inflight, key)
	}
}

func (r *Resolver) resolve(ctx context.Context, mint solana.PublicKey) *types.ResolvedMetadata {
	logger := r.logger.With(zap.String("mint", mint.String()))

	address, err := metaplex.FindMetadata(r.metadataProgramID, mint)
	if err != nil {
		logger.Error("derive metadata address", zap.Error(err))
		return nil
	}

	data, err := r.reader.ReadAccount(ctx, address.Address)
	if err != nil {
		logger.Warn("read metadata account", zap.Stringer("address", address.Address), zap.Error(err))
		return nil
	}
	if data == nil {
		logger.Debug("metadata account not found", zap.Stringer("address", address.Address))
		return nil
	}

	meta := metaplex.Decode(data)
	if meta == nil {
		logger.Warn("malformed metadata account", zap.Stringer("address", address.Address), zap.Int("length", len(data)))
		return nil
	}
	if !meta.Mint.Equals(mint) {
		logger.Warn("metadata account belongs to another mint", zap.Stringer("decoded_mint", meta.Mint))
		return nil
	}

	if len(meta.Creators) > 0 && meta.CreatorShareTotal() != 100 {
		logger.Debug("creator shares do not total 100", zap.Int("total", meta.CreatorShareTotal()))
	}

	resolved := &types.ResolvedMetadata{
		Mint:                 mint.String(),
		MetadataAddress:      address.Address.String(),
		Name:                 meta.Name,
		Symbol:               meta.Symbol,
		URI:                  meta.URI,
		SellerFeeBasisPoints: meta.SellerFeeBasisPoints,
		Creators:             meta.Creators,
		PrimarySaleHappened:  meta.PrimarySaleHappened,
		IsMutable:            meta.IsMutable,
		OnChainName:          meta.Name,
	}
	if meta.URI == "" {
		return resolved
	}

	doc, err := r.fetchDocument(ctx, meta.URI)
	if err != nil {
		logger.Warn("off-chain metadata unavailable", zap.String("uri", meta.URI), zap.Error(err))
		return resolved
	}

	resolved.HasOffchain = true
	if doc.Name != "" {
		resolved.Name = doc.Name
	}
	resolved.Image = doc.Image
	resolved.Description = doc.Description
	resolved.ExternalURL = doc.ExternalURL
	resolved.AnimationURL = doc.AnimationURL
	resolved.Attributes = doc.Attributes
	return resolved
}

var errNotObject = errors.New("document is not a json object")

func (r *Resolver) fetchDocument(ctx context.Context, uri string) (document, error) {
	body, err := r.fetcher.FetchJSON(ctx, uri)
	if err != nil {
		return document{}, err
	}
	doc, ok := parseDocument(body)
	if !ok {
		return document{}, errNotObject
	}
	return doc, nil
}
