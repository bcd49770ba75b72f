package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	gooutcry "github.com/outcry-labs/go-outcry"
	"github.com/outcry-labs/go-outcry/conf"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/outcry-labs/go-outcry/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	rpcURL     string
	logLevel   string
	raw        bool

	cfg     *types.Config
	logger  *zap.Logger
	network types.NetworkInterface
)

var rootCmd = &cobra.Command{
	Use:   "outcry",
	Short: "Inspect Outcry auctions and Metaplex metadata on Solana",
	Long: `outcry reads auction state, bidder deposits and program events of the
Outcry auction program, derives its program addresses and resolves the
Metaplex metadata of auctioned mints.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = conf.Load(configPath)
		if err != nil {
			return err
		}
		if rpcURL != "" {
			cfg.RPC = rpcURL
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		logger, err = utils.NewLogger(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}

		network, err = gooutcry.NewNetwork(cmd.Context(), *cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if network != nil {
			_ = network.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (yaml, json or toml). Environment variables prefixed with OUTCRY_ override it.")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc", "", "Solana JSON-RPC endpoint, overrides the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&raw, "raw", false, "Dump raw response structures")
}

// show prints v with spew when --raw is set and calls pretty otherwise.
func show(v interface{}, pretty func()) {
	if raw {
		spew.Dump(v)
		return
	}
	pretty()
}

func row(label string, value interface{}) {
	fmt.Printf("%-16s %v\n", label+":", value)
}
