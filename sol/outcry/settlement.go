package outcry

import (
	"github.com/outcry-labs/go-outcry/types"
	"github.com/outcry-labs/go-outcry/utils"
)

// Settlement splits a winning bid between the protocol, the creators and
// the seller.
type Settlement struct {
	FinalPrice       uint64
	ProtocolFee      uint64
	Royalties        uint64
	CreatorRoyalties []uint64
	SellerReceives   uint64
}

// EstimateSettlement applies the protocol fee and the creators' royalty to
// price. Creator amounts follow the order of creators.
func EstimateSettlement(price uint64, sellerFeeBasisPoints uint16, creators []types.Creator) Settlement {
	s := Settlement{
		FinalPrice:  price,
		ProtocolFee: utils.CalculateFee(price, ProtocolFeeBps),
	}
	s.Royalties, s.CreatorRoyalties = utils.CalculateRoyalties(price, sellerFeeBasisPoints, creators)

	deductions := s.ProtocolFee + s.Royalties
	if deductions < price {
		s.SellerReceives = price - deductions
	}
	return s
}
