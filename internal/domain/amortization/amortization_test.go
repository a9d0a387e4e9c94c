package amortization

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_ReferenceScenario(t *testing.T) {
	s, err := Compute(50000, 12, 0)
	require.NoError(t, err)

	assert.Equal(t, 6000.0, s.Interest)
	assert.Equal(t, 56000.0, s.TotalRepayment)
	assert.Equal(t, 4666.67, s.MonthlyInstallment)
	assert.Equal(t, 56000.0, s.Remaining)
	assert.Equal(t, 0, s.ProgressPercent)
	assert.False(t, s.Pending)
}

func TestCompute_PartialPayments(t *testing.T) {
	s, err := Compute(50000, 12, 12600)
	require.NoError(t, err)

	assert.Equal(t, 43400.0, s.Remaining)
	assert.Equal(t, 22, s.ProgressPercent) // 22.5 floors to 22
	assert.Equal(t, 2, s.InstallmentsCovered())
	assert.False(t, s.IsFullyPaid())
}

func TestCompute_ProratesShortTerms(t *testing.T) {
	s, err := Compute(10000, 6, 0)
	require.NoError(t, err)

	assert.Equal(t, 600.0, s.Interest)
	assert.Equal(t, 10600.0, s.TotalRepayment)
	assert.Equal(t, 1766.67, s.MonthlyInstallment)
}

func TestCompute_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		term      int
		wantErr   error
	}{
		{"zero term", 1000, 0, ErrInvalidTerm},
		{"negative term", 1000, -3, ErrInvalidTerm},
		{"zero principal", 0, 12, ErrInvalidAmount},
		{"negative principal", -5, 12, ErrInvalidAmount},
		{"nan principal", math.NaN(), 12, ErrInvalidAmount},
		{"inf principal", math.Inf(1), 12, ErrInvalidAmount},
		{"sub-cent principal", 0.001, 12, ErrInvalidAmount},
		{"fractional cents", 1000.005, 12, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.principal, tt.term, 0)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = ComputePending(tt.principal, tt.term)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestComputePending_ExplicitBranch(t *testing.T) {
	s, err := ComputePending(50000, 12)
	require.NoError(t, err)

	assert.True(t, s.Pending)
	assert.Equal(t, 0.0, s.Paid)
	assert.Equal(t, 0, s.ProgressPercent)
	assert.Equal(t, s.TotalRepayment, s.Remaining)
	assert.Equal(t, 4666.67, s.MonthlyInstallment)
	assert.False(t, s.IsFullyPaid())

	_, ok := s.NextDueDate(time.Now())
	assert.False(t, ok, "pending loans have no due date")
}

func TestMonthlyTimesTermMatchesTotal(t *testing.T) {
	principals := []float64{1, 99.99, 1234.56, 5000, 50000, 77777.77, 1_000_000}
	for _, p := range principals {
		for term := 1; term <= 60; term++ {
			s, err := Compute(p, term, 0)
			require.NoError(t, err)

			// half a cent per installment plus half a cent on the rounded total
			tolerance := 0.005*float64(term+1) + 1e-9
			diff := math.Abs(s.MonthlyInstallment*float64(term) - s.TotalRepayment)
			assert.LessOrEqualf(t, diff, tolerance, "principal=%v term=%d", p, term)
		}
	}
}

func TestProgress_BoundedAndMonotonic(t *testing.T) {
	total, err := TotalRepayment(50000, 12)
	require.NoError(t, err)

	last := -1
	for paid := 0.0; paid <= total+10000; paid += 1234.5 {
		s, err := Compute(50000, 12, paid)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, s.ProgressPercent, 0)
		assert.LessOrEqual(t, s.ProgressPercent, 100)
		assert.GreaterOrEqual(t, s.ProgressPercent, last)
		last = s.ProgressPercent
	}
	assert.Equal(t, 100, last)
}

func TestIsFullyPaid_Epsilon(t *testing.T) {
	assert.True(t, IsFullyPaid(56000, 56000))
	assert.True(t, IsFullyPaid(55999.99, 56000))
	assert.True(t, IsFullyPaid(60000, 56000))
	assert.False(t, IsFullyPaid(55999.98, 56000))
	assert.False(t, IsFullyPaid(0, 56000))
}

func TestNextDueDate(t *testing.T) {
	activated := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	s, err := Compute(50000, 12, 0)
	require.NoError(t, err)
	due, ok := s.NextDueDate(activated)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), due)

	s, err = Compute(50000, 12, 3*4666.67)
	require.NoError(t, err)
	due, ok = s.NextDueDate(activated)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), due)

	s, err = Compute(50000, 12, 56000)
	require.NoError(t, err)
	_, ok = s.NextDueDate(activated)
	assert.False(t, ok, "no installment left once the term is covered")

	_, ok = s.NextDueDate(time.Time{})
	assert.False(t, ok)
}

func TestIsFullyPaid_UsesUnroundedTotal(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		term      int
		paid      float64
		want      bool
	}{
		// 100.01 * 7% = 7.0007, exact total 107.0107
		{"rounded up total, one cent short of exact", 100.01, 7, 107.00, false},
		{"rounded up total, paid the displayed total", 100.01, 7, 107.01, true},
		// 100.03 * 7% = 7.0021, exact total 107.0321
		{"rounded down total, within epsilon of display only", 100.03, 7, 107.02, false},
		{"rounded down total, displayed total", 100.03, 7, 107.03, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compute(tt.principal, tt.term, tt.paid)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.IsFullyPaid(), "total=%v paid=%v", s.TotalRepayment, tt.paid)
		})
	}
}

func TestValidAmount(t *testing.T) {
	for _, v := range []float64{0.01, 1, 99.99, 1766.67, 50000, 1_000_000.5} {
		assert.Truef(t, ValidAmount(v), "%v", v)
	}
	for _, v := range []float64{0, -1, 0.001, 0.005, 10.001, 1766.666, math.NaN(), math.Inf(1)} {
		assert.Falsef(t, ValidAmount(v), "%v", v)
	}
}
