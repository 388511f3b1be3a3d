package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fairchain/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant: wire-form ids must
// be positive decimal integers. Assignment starts at one, so zero never
// names a record.
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseVesselID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-numeric input", func(t *testing.T) {
		_, err := ParseVesselID("selkie")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects negative input", func(t *testing.T) {
		_, err := ParseCatchID("-1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := ParseCatchID("0")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts positive decimal", func(t *testing.T) {
		id, err := ParseVesselID("42")
		require.NoError(t, err)
		assert.Equal(t, VesselID(42), id)
	})
}

func TestEpochAdd(t *testing.T) {
	assert.Equal(t, Epoch(1100), Epoch(100).Add(1000))
	assert.Equal(t, Epoch(100), Epoch(100).Add(0))

	// An offset the sum cannot hold saturates instead of wrapping into the
	// past, so the resulting expiry is always in the future.
	assert.Equal(t, Epoch(math.MaxUint64), Epoch(100).Add(math.MaxUint64))
	assert.Equal(t, Epoch(math.MaxUint64), Epoch(math.MaxUint64).Add(1))
	assert.Equal(t, Epoch(math.MaxUint64), Epoch(math.MaxUint64-1).Add(1))
}

// TestQuotaKeyEquality verifies structural equality: the same (vessel,
// species) pair is the same key, and either field distinguishes records.
func TestQuotaKeyEquality(t *testing.T) {
	a := QuotaKey{Vessel: 1, Species: "cod"}
	b := QuotaKey{Vessel: 1, Species: "cod"}
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, QuotaKey{Vessel: 2, Species: "cod"})
	assert.NotEqual(t, a, QuotaKey{Vessel: 1, Species: "haddock"})

	assert.Equal(t, "1/cod", a.String())
}

func TestPrincipalIsZero(t *testing.T) {
	assert.True(t, Principal("").IsZero())
	assert.False(t, Principal("owner-1").IsZero())
}
