package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KMA-backend/internal/attendance"
)

func TestAmountForConvener(t *testing.T) {
	c := Default()
	assert.Equal(t, Amount(350), c.AmountFor(3, attendance.Subcommittee("travel"), true))
	assert.Equal(t, Amount(300), c.AmountFor(3, attendance.Subcommittee("travel"), false))
	assert.Equal(t, Amount(50), c.AmountFor(0, attendance.Subcommittee("travel"), true))
}

func TestBonusOnlyInSubcommittees(t *testing.T) {
	c := Default()
	assert.Equal(t, Amount(200), c.AmountFor(2, attendance.General(), true))
	assert.Equal(t, Amount(200), c.AmountFor(2, attendance.Execo(), true))
}

func TestDerivationLaw(t *testing.T) {
	c, err := New(120, 40, nil)
	require.NoError(t, err)
	for meetings := int64(0); meetings <= 20; meetings++ {
		for _, conv := range []bool{false, true} {
			want := meetings * 120
			if conv {
				want += 40
			}
			assert.Equal(t, Amount(want), c.AmountFor(meetings, attendance.Subcommittee("revenue"), conv))
		}
	}
}

func TestContextRates(t *testing.T) {
	c, err := New(100, 50, map[string]int64{
		"general":             80,
		"subcommittee:travel": 150,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 80, c.Rate(attendance.General()))
	assert.EqualValues(t, 150, c.Rate(attendance.Subcommittee("travel")))
	assert.EqualValues(t, 100, c.Rate(attendance.Subcommittee("revenue")))
	assert.EqualValues(t, 100, c.Rate(attendance.Execo()))
	assert.Equal(t, Amount(500), c.AmountFor(3, attendance.Subcommittee("travel"), true))
}

func TestNewRejectsNegative(t *testing.T) {
	_, err := New(-1, 0, nil)
	assert.Error(t, err)
	_, err = New(100, 50, map[string]int64{"execo": -5})
	assert.Error(t, err)
}
