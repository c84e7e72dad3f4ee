package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"procurement-flow/internal/features/workflow/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuardPack = `
guards:
  - from: draft
    to: payment_confirmed
    message: "exchange rate outside the allowed band (100-150)"
    rule:
      and:
        - ">=": [{ "var": "exchangeRate" }, 100]
        - "<=": [{ "var": "exchangeRate" }, 150]
  - from: shipped_bd
    to: arrived_bd
    message: "air shipments above 500kg need a freight contract"
    rule:
      or:
        - "!=": [{ "var": "transportType" }, "air"]
        - "<=": [{ "var": "totalWeight" }, 500]
`

func loadTestPack(t *testing.T) GuardPack {
	t.Helper()

	path := filepath.Join(t.TempDir(), "guards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testGuardPack), 0644))

	pack, err := LoadGuardPack(path)
	require.NoError(t, err)
	return pack
}

// TestJsonLogicGuard_Pass verifies a form satisfying all guards yields no violations.
func TestJsonLogicGuard_Pass(t *testing.T) {
	guard, err := NewJsonLogicGuard(loadTestPack(t))
	require.NoError(t, err)

	violations, err := guard.Check(context.Background(), domain.StatusDraft, domain.StatusPaymentConfirmed, domain.FormState{
		ExchangeRate: 120,
	})

	require.NoError(t, err)
	assert.Empty(t, violations)
}

// TestJsonLogicGuard_Violation verifies a failed guard surfaces its message.
func TestJsonLogicGuard_Violation(t *testing.T) {
	guard, err := NewJsonLogicGuard(loadTestPack(t))
	require.NoError(t, err)

	violations, err := guard.Check(context.Background(), domain.StatusDraft, domain.StatusPaymentConfirmed, domain.FormState{
		ExchangeRate: 300,
	})

	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "allowed band")
}

// TestJsonLogicGuard_EdgeWithoutGuards verifies edges without guards pass through.
func TestJsonLogicGuard_EdgeWithoutGuards(t *testing.T) {
	guard, err := NewJsonLogicGuard(loadTestPack(t))
	require.NoError(t, err)

	violations, err := guard.Check(context.Background(), domain.StatusWarehouseReceived, domain.StatusShippedBD, domain.FormState{})

	require.NoError(t, err)
	assert.Empty(t, violations)
}

// TestJsonLogicGuard_HeavyAirShipment verifies a composite or-rule.
func TestJsonLogicGuard_HeavyAirShipment(t *testing.T) {
	guard, err := NewJsonLogicGuard(loadTestPack(t))
	require.NoError(t, err)

	violations, err := guard.Check(context.Background(), domain.StatusShippedBD, domain.StatusArrivedBD, domain.FormState{
		TransportType: "air",
		TotalWeight:   750,
	})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "freight contract")

	violations, err = guard.Check(context.Background(), domain.StatusShippedBD, domain.StatusArrivedBD, domain.FormState{
		TransportType: "sea",
		TotalWeight:   750,
	})
	require.NoError(t, err)
	assert.Empty(t, violations)
}

// TestNewJsonLogicGuard_RejectsBadPack verifies typoed statuses and empty
// rules fail at construction.
func TestNewJsonLogicGuard_RejectsBadPack(t *testing.T) {
	_, err := NewJsonLogicGuard(GuardPack{Guards: []GuardRule{
		{From: "drafty", To: "payment_confirmed", Message: "m", Rule: map[string]interface{}{"==": []interface{}{1, 1}}},
	}})
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)

	_, err = NewJsonLogicGuard(GuardPack{Guards: []GuardRule{
		{From: "draft", To: "payment_confirmed", Message: "m"},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty rule")
}

// TestLoadGuardPack_MissingFile verifies a readable error for a missing pack.
func TestLoadGuardPack_MissingFile(t *testing.T) {
	_, err := LoadGuardPack(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read guard pack")
}
