// Package conf loads client configuration from an optional file and
// OUTCRY_ prefixed environment variables.
package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/outcry-labs/go-outcry/sol/metaplex"
	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/spf13/viper"
)

const EnvPrefix = "OUTCRY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "devnet")
	v.SetDefault("rpc", "https://api.devnet.solana.com")
	v.SetDefault("ws_rpc", "wss://api.devnet.solana.com")
	v.SetDefault("ephemeral_rpc", "https://devnet.magicblock.app")
	v.SetDefault("ephemeral_ws_rpc", "wss://devnet.magicblock.app")
	v.SetDefault("commitment", types.CommitmentConfirmed)
	v.SetDefault("program_id", outcry.ProgramID.String())
	v.SetDefault("metadata_program_id", metaplex.ProgramID.String())
	v.SetDefault("delegation_program_id", outcry.DelegationProgramID.String())
	v.SetDefault("log_level", "info")
	v.SetDefault("watch_interval", 5*time.Second)

	v.SetDefault("metadata.http_timeout", 10*time.Second)
	v.SetDefault("metadata.max_document_size", 1<<20)
	v.SetDefault("metadata.ipfs_gateway", "https://ipfs.io/ipfs/")
	v.SetDefault("metadata.arweave_gateway", "https://arweave.net/")

	v.SetDefault("cache.ttl", 0)
	v.SetDefault("cache.num_counters", 100000)
	v.SetDefault("cache.max_cost", 10000)
	v.SetDefault("cache.buffer_items", 64)
}

// Load reads configuration from path, which may be empty. Environment
// variables override file values, e.g. OUTCRY_RPC or OUTCRY_CACHE_TTL.
func Load(path string) (*types.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &types.Config{
		Type:              types.NetworkTypeSol,
		Name:              v.GetString("name"),
		RPC:               v.GetString("rpc"),
		WSRPC:             v.GetString("ws_rpc"),
		EphemeralRPC:      v.GetString("ephemeral_rpc"),
		EphemeralWSRPC:    v.GetString("ephemeral_ws_rpc"),
		Commitment:        v.GetString("commitment"),
		ProgramID:         v.GetString("program_id"),
		MetadataProgramID: v.GetString("metadata_program_id"),

		DelegationProgramID: v.GetString("delegation_program_id"),

		HTTPTimeout:     v.GetDuration("metadata.http_timeout"),
		MaxDocumentSize: v.GetInt64("metadata.max_document_size"),
		IPFSGateway:     v.GetString("metadata.ipfs_gateway"),
		ArweaveGateway:  v.GetString("metadata.arweave_gateway"),

		WatchInterval: v.GetDuration("watch_interval"),
		LogLevel:      v.GetString("log_level"),

		Cache: types.CacheConfig{
			TTL:         v.GetDuration("cache.ttl"),
			NumCounters: v.GetInt64("cache.num_counters"),
			MaxCost:     v.GetInt64("cache.max_cost"),
			BufferItems: v.GetInt64("cache.buffer_items"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Validate(cfg *types.Config) error {
	if cfg.RPC == "" {
		return errors.New("rpc endpoint is required")
	}
	switch cfg.Commitment {
	case types.CommitmentProcessed, types.CommitmentConfirmed, types.CommitmentFinalized:
	default:
		return fmt.Errorf("unknown commitment %q", cfg.Commitment)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", cfg.Cache.TTL)
	}
	return nil
}
