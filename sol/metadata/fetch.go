package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/outcry-labs/go-outcry/types"
	"github.com/tidwall/gjson"
)

const (
	DefaultTimeout         = 10 * time.Second
	DefaultMaxDocumentSize = 1 << 20
	DefaultIPFSGateway     = "https://ipfs.io/ipfs/"
	DefaultArweaveGateway  = "https://arweave.net/"
)

// HTTPFetcher fetches off-chain metadata documents over HTTP.
type HTTPFetcher struct {
	client         *http.Client
	maxSize        int64
	ipfsGateway    string
	arweaveGateway string
}

type FetcherOption func(*HTTPFetcher)

func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

func WithMaxDocumentSize(n int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxSize = n
		}
	}
}

func WithGateways(ipfs, arweave string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ipfs != "" {
			f.ipfsGateway = ensureSlash(ipfs)
		}
		if arweave != "" {
			f.arweaveGateway = ensureSlash(arweave)
		}
	}
}

func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:         &http.Client{Timeout: DefaultTimeout},
		maxSize:        DefaultMaxDocumentSize,
		ipfsGateway:    DefaultIPFSGateway,
		arweaveGateway: DefaultArweaveGateway,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func ensureSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// ResolveURI rewrites ipfs:// and ar:// URIs to their HTTP gateways.
func (f *HTTPFetcher) ResolveURI(uri string) string {
	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		path := strings.TrimPrefix(uri, "ipfs://")
		path = strings.TrimPrefix(path, "ipfs/")
		return f.ipfsGateway + path
	case strings.HasPrefix(uri, "ar://"):
		return f.arweaveGateway + strings.TrimPrefix(uri, "ar://")
	}
	return uri
}

func (f *HTTPFetcher) FetchJSON(ctx context.Context, uri string) ([]byte, error) {
	url := f.ResolveURI(uri)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrOffchainUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrOffchainUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", types.ErrOffchainUnavailable, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", types.ErrOffchainUnavailable, err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", types.ErrOffchainUnavailable, f.maxSize)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s is not valid json", types.ErrOffchainUnavailable, url)
	}
	return body, nil
}
