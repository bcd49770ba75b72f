package outcry

import (
	"encoding/base64"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/outcry-labs/go-outcry/types"
)

const programDataPrefix = "Program data: "

type (
	AuctionCreated struct {
		Auction         solana.PublicKey
		Seller          solana.PublicKey
		NftMint         solana.PublicKey
		ReservePrice    uint64
		DurationSeconds uint64
	}

	AuctionStarted struct {
		Auction   solana.PublicKey
		StartTime int64
		EndTime   int64
	}

	BidPlaced struct {
		Auction     solana.PublicKey
		Bidder      solana.PublicKey
		Amount      uint64
		PreviousBid uint64
		BidCount    uint32
		NewEndTime  int64
	}

	AuctionEnded struct {
		Auction    solana.PublicKey
		Winner     solana.PublicKey
		WinningBid uint64
		TotalBids  uint32
	}

	AuctionSettled struct {
		Auction        solana.PublicKey
		Winner         solana.PublicKey
		FinalPrice     uint64
		SellerReceived uint64
		RoyaltiesPaid  uint64
		ProtocolFee    uint64
	}

	DepositMade struct {
		Auction      solana.PublicKey
		Bidder       solana.PublicKey
		Amount       uint64
		TotalDeposit uint64
	}

	RefundClaimed struct {
		Auction solana.PublicKey
		Bidder  solana.PublicKey
		Amount  uint64
	}

	AuctionCancelled struct {
		Auction solana.PublicKey
		Seller  solana.PublicKey
	}

	AuctionForceClosed struct {
		Auction         solana.PublicKey
		Seller          solana.PublicKey
		DrainedLamports uint64
	}
)

func (*AuctionCreated) EventName() string     { return "AuctionCreated" }
func (*AuctionStarted) EventName() string     { return "AuctionStarted" }
func (*BidPlaced) EventName() string          { return "BidPlaced" }
func (*AuctionEnded) EventName() string       { return "AuctionEnded" }
func (*AuctionSettled) EventName() string     { return "AuctionSettled" }
func (*DepositMade) EventName() string        { return "DepositMade" }
func (*RefundClaimed) EventName() string      { return "RefundClaimed" }
func (*AuctionCancelled) EventName() string   { return "AuctionCancelled" }
func (*AuctionForceClosed) EventName() string { return "AuctionForceClosed" }

var eventConstructors = []func() types.Event{
	func() types.Event { return new(AuctionCreated) },
	func() types.Event { return new(AuctionStarted) },
	func() types.Event { return new(BidPlaced) },
	func() types.Event { return new(AuctionEnded) },
	func() types.Event { return new(AuctionSettled) },
	func() types.Event { return new(DepositMade) },
	func() types.Event { return new(RefundClaimed) },
	func() types.Event { return new(AuctionCancelled) },
	func() types.Event { return new(AuctionForceClosed) },
}

var eventsByDiscriminator = func() map[Discriminator]func() types.Event {
	m := make(map[Discriminator]func() types.Event, len(eventConstructors))
	for _, newEvent := range eventConstructors {
		m[EventDiscriminator(newEvent().EventName())] = newEvent
	}
	return m
}()

// DecodeEvent decodes one event payload. It returns nil, nil for payloads
// whose discriminator does not belong to this program.
func DecodeEvent(data []byte) (types.Event, error) {
	if len(data) < DiscriminatorLength {
		return nil, fmt.Errorf("%w: event of %d bytes", types.ErrMalformedBuffer, len(data))
	}
	var disc Discriminator
	copy(disc[:], data[:DiscriminatorLength])
	newEvent, ok := eventsByDiscriminator[disc]
	if !ok {
		return nil, nil
	}

	event := newEvent()
	if err := bin.NewBorshDecoder(data[DiscriminatorLength:]).Decode(event); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedBuffer, event.EventName(), err)
	}
	return event, nil
}

// ParseEvents extracts the events programID emitted in a transaction's log
// messages. Data lines are attributed to the innermost invoked program.
func ParseEvents(logs []string, programID solana.PublicKey) ([]types.Event, error) {
	var (
		stack  []string
		events []types.Event
		target = programID.String()
	)

	for _, line := range logs {
		if strings.HasPrefix(line, programDataPrefix) {
			if len(stack) == 0 || stack[len(stack)-1] != target {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(line, programDataPrefix))
			if err != nil {
				return events, fmt.Errorf("%w: %v", types.ErrMalformedBuffer, err)
			}
			event, err := DecodeEvent(data)
			if err != nil {
				return events, err
			}
			if event != nil {
				events = append(events, event)
			}
			continue
		}
		if strings.HasPrefix(line, "Program log:") || strings.HasPrefix(line, "Program return:") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "Program" {
			continue
		}
		switch fields[2] {
		case "invoke":
			stack = append(stack, fields[1])
		case "success", "failed:":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return events, nil
}
