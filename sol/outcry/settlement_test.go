package outcry

import (
	"testing"

	"github.com/outcry-labs/go-outcry/types"
	"github.com/stretchr/testify/assert"
)

func TestEstimateSettlement(t *testing.T) {
	creators := []types.Creator{
		{Address: testSeller, Share: 80, Verified: true},
		{Address: testBidder, Share: 20},
	}

	s := EstimateSettlement(3_000_000_000, 500, creators)
	assert.Equal(t, uint64(3_000_000_000), s.FinalPrice)
	assert.Zero(t, s.ProtocolFee)
	assert.Equal(t, uint64(150_000_000), s.Royalties)
	assert.Equal(t, []uint64{120_000_000, 30_000_000}, s.CreatorRoyalties)
	assert.Equal(t, uint64(2_850_000_000), s.SellerReceives)
}

func TestEstimateSettlement_NoCreators(t *testing.T) {
	s := EstimateSettlement(1_000, 10_000, nil)
	assert.Equal(t, uint64(1_000), s.Royalties)
	assert.Empty(t, s.CreatorRoyalties)
	assert.Zero(t, s.SellerReceives)
}
