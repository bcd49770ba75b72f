package types

import "time"

type (
	Config struct {
		Type       int
		Name       string
		RPC        string
		WSRPC      string
		Commitment string

		// EphemeralRPC and EphemeralWSRPC point at the rollup that serves
		// delegated auctions. Empty disables rollup reads.
		EphemeralRPC   string
		EphemeralWSRPC string

		ProgramID           string
		MetadataProgramID   string
		DelegationProgramID string

		HTTPTimeout     time.Duration
		MaxDocumentSize int64
		IPFSGateway     string
		ArweaveGateway  string

		WatchInterval time.Duration
		LogLevel      string

		Cache CacheConfig
	}

	// CacheConfig sizes the metadata cache. A zero TTL keeps entries for the
	// lifetime of the cache.
	CacheConfig struct {
		TTL         time.Duration
		NumCounters int64
		MaxCost     int64
		BufferItems int64
	}
)
