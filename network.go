package gooutcry

import (
	"context"

	"github.com/outcry-labs/go-outcry/sol"
	"github.com/outcry-labs/go-outcry/types"
	"go.uber.org/zap"
)

func NewNetwork(ctx context.Context, cfg types.Config, logger *zap.Logger) (types.NetworkInterface, error) {
	if cfg.Type == types.NetworkTypeSol {
		return sol.NewSolana(ctx, &cfg, logger)
	}
	return nil, types.ErrNotImplemented
}
