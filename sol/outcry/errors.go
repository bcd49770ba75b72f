package outcry

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrorCodeOffset is the first custom error code Anchor assigns.
const ErrorCodeOffset = 6000

type ProgramError struct {
	Code uint32
	Name string
	Msg  string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

var programErrors = []struct {
	name string
	msg  string
}{
	{"BidTooLow", "Bid must exceed current bid plus minimum increment"},
	{"AuctionNotStarted", "Auction has not started yet"},
	{"AuctionEnded", "Auction has already ended"},
	{"InvalidAuctionStatus", "Auction is not in the correct status for this operation"},
	{"UnauthorizedSeller", "Only the seller can perform this action"},
	{"BelowReserve", "Bid does not meet reserve price"},
	{"InsufficientDeposit", "Winner deposit insufficient for winning bid"},
	{"AuctionStillActive", "Auction still has time remaining"},
	{"CannotCancelWithBids", "Cannot cancel auction with existing bids"},
	{"NothingToRefund", "Nothing to refund"},
	{"RefundNotAvailable", "Refund only available after settlement or cancellation"},
	{"InvalidDuration", "Auction duration is out of valid range"},
	{"InvalidReservePrice", "Reserve price must be greater than zero"},
	{"InvalidDepositAmount", "Deposit amount must be greater than zero"},
	{"ArithmeticOverflow", "Arithmetic overflow"},
	{"SellerCannotBid", "Seller cannot bid on their own auction"},
	{"OutstandingDeposits", "Cannot close auction with outstanding deposits; all bidders must claim refunds first"},
	{"EscrowNotEmpty", "Cannot close auction while escrow still holds tokens"},
	{"InvalidNftMint", "NFT mint must have 0 decimals"},
	{"InvalidMetadata", "Could not parse Metaplex metadata account"},
	{"MissingCreatorAccount", "Missing creator account in remaining_accounts for royalty distribution"},
	{"ForfeitNotNeeded", "Forfeit not needed; winner has sufficient deposit for the winning bid"},
	{"InvalidTreasury", "Invalid protocol treasury account"},
	{"NoBidsToSettle", "Auction has no bids to settle"},
	{"InvalidBidIncrement", "Minimum bid increment must be greater than zero"},
	{"InvalidDepositAccount", "Could not deserialize deposit account data"},
	{"InsufficientVaultBalance", "Vault has insufficient lamports for this operation"},
	{"GracePeriodNotElapsed", "Grace period has not elapsed; bidders still have time to claim refunds"},
}

func ProgramErrorFromCode(code uint32) (*ProgramError, bool) {
	if code < ErrorCodeOffset || code >= ErrorCodeOffset+uint32(len(programErrors)) {
		return nil, false
	}
	e := programErrors[code-ErrorCodeOffset]
	return &ProgramError{Code: code, Name: e.name, Msg: e.msg}, true
}

var customErrorRegexp = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)

// ParseProgramError finds the first program error reported in log messages.
func ParseProgramError(logs []string) (*ProgramError, bool) {
	for _, line := range logs {
		m := customErrorRegexp.FindStringSubmatch(line)
		if len(m) != 2 {
			continue
		}
		code, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			continue
		}
		if e, ok := ProgramErrorFromCode(uint32(code)); ok {
			return e, true
		}
	}
	return nil, false
}

// ParseTransactionError maps a transaction error as returned in transaction
// meta, e.g. {"InstructionError":[0,{"Custom":6000}]}, to a ProgramError.
func ParseTransactionError(txErr interface{}) (*ProgramError, bool) {
	m, ok := txErr.(map[string]interface{})
	if !ok {
		return nil, false
	}
	pair, ok := m["InstructionError"].([]interface{})
	if !ok || len(pair) != 2 {
		return nil, false
	}
	inner, ok := pair[1].(map[string]interface{})
	if !ok {
		return nil, false
	}

	var code uint64
	switch v := inner["Custom"].(type) {
	case float64:
		code = uint64(v)
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 32)
		if err != nil {
			return nil, false
		}
		code = n
	default:
		return nil, false
	}
	return ProgramErrorFromCode(uint32(code))
}

// AsProgramError unwraps err looking for a ProgramError.
func AsProgramError(err error) (*ProgramError, bool) {
	var pe *ProgramError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
