package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundDivHalfEven(t *testing.T) {
	cases := []struct {
		name     string
		num, den int64
		want     int64
	}{
		{"exact division", 100, 4, 25},
		{"rounds down below half", 40000, 15, 2667}, // 2666.67
		{"rounds up above half", 20000, 15, 1333},   // 1333.33
		{"half rounds to even down", 5, 2, 2},       // 2.5 -> 2
		{"half rounds to even up", 7, 2, 4},         // 3.5 -> 4
		{"zero numerator", 0, 7, 0},
		{"half at zero", 1, 2, 0}, // 0.5 -> 0
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, roundDivHalfEven(tc.num, tc.den))
		})
	}
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, int64(4000), percentOf(10000, 40))
	assert.Equal(t, int64(100), percentOf(1000, 10))
	assert.Equal(t, int64(50), percentOf(1000, 5))
	// 40% of 101 cents = 40.4 -> 40
	assert.Equal(t, int64(40), percentOf(101, 40))
	// 2.5 cents rounds to the even neighbour
	assert.Equal(t, int64(2), percentOf(250, 1))
}
