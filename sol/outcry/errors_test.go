package outcry

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramErrorFromCode(t *testing.T) {
	e, ok := ProgramErrorFromCode(6000)
	require.True(t, ok)
	assert.Equal(t, "BidTooLow", e.Name)

	e, ok = ProgramErrorFromCode(6027)
	require.True(t, ok)
	assert.Equal(t, "GracePeriodNotElapsed", e.Name)

	_, ok = ProgramErrorFromCode(6028)
	assert.False(t, ok)
	_, ok = ProgramErrorFromCode(1)
	assert.False(t, ok)
}

func TestParseProgramError(t *testing.T) {
	logs := []string{
		"Program " + ProgramID.String() + " invoke [1]",
		"Program log: AnchorError occurred. Error Code: BelowReserve.",
		"Program " + ProgramID.String() + " failed: custom program error: 0x1775",
	}
	e, ok := ParseProgramError(logs)
	require.True(t, ok)
	assert.Equal(t, uint32(6005), e.Code)
	assert.Equal(t, "BelowReserve", e.Name)
	assert.Equal(t, "BelowReserve (6005): Bid does not meet reserve price", e.Error())

	_, ok = ParseProgramError([]string{"Program log: hello"})
	assert.False(t, ok)
}

func TestParseTransactionError(t *testing.T) {
	var decoded interface{}
	dec := json.NewDecoder(strings.NewReader(`{"InstructionError":[0,{"Custom":6008}]}`))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&decoded))

	e, ok := ParseTransactionError(decoded)
	require.True(t, ok)
	assert.Equal(t, "CannotCancelWithBids", e.Name)

	e, ok = ParseTransactionError(map[string]interface{}{
		"InstructionError": []interface{}{float64(1), map[string]interface{}{"Custom": float64(6000)}},
	})
	require.True(t, ok)
	assert.Equal(t, "BidTooLow", e.Name)

	_, ok = ParseTransactionError("AccountInUse")
	assert.False(t, ok)
	_, ok = ParseTransactionError(map[string]interface{}{"InstructionError": []interface{}{float64(0), "InvalidArgument"}})
	assert.False(t, ok)
}

func TestAsProgramError(t *testing.T) {
	e, _ := ProgramErrorFromCode(6000)
	wrapped := fmt.Errorf("place bid: %w", e)

	got, ok := AsProgramError(wrapped)
	require.True(t, ok)
	assert.Same(t, e, got)

	_, ok = AsProgramError(fmt.Errorf("plain"))
	assert.False(t, ok)
}
