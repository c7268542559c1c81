package domain

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCents_String(t *testing.T) {
	cases := []struct {
		in   Cents
		want string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{123456, "$1,234.56"},
		{100000000, "$1,000,000.00"},
		{-150, "-$1.50"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.in.String(), "cents=%d", int64(tc.in))
	}
}

func TestCents_Plain(t *testing.T) {
	assert.Equal(t, "1234.56", Cents(123456).Plain())
	assert.Equal(t, "-0.05", Cents(-5).Plain())
	assert.Equal(t, "0.00", Cents(0).Plain())
}

func TestParseCents(t *testing.T) {
	cases := map[string]Cents{
		"$1,234.56": 123456,
		"1234.5":    123450,
		"1234":      123400,
		".5":        50,
		"-5.00":     -500,
		" 100 ":     10000,
	}
	for in, want := range cases {
		got, err := ParseCents(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestParseCents_Rejects(t *testing.T) {
	for _, in := range []string{"", "abc", "12.345", "1.", "$"} {
		_, err := ParseCents(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestCents_JSONRoundTripFormats(t *testing.T) {
	type wrapper struct {
		Amount Cents `json:"amount"`
	}
	data, err := json.Marshal(wrapper{Amount: 123456})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":1234.56}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"$2,500.00"}`), &w))
	assert.Equal(t, Cents(250000), w.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount":1e3}`), &w))
	assert.Equal(t, Cents(100000), w.Amount)
}

func TestBasisPoints(t *testing.T) {
	assert.Equal(t, Cents(500000), BasisPoints(500).Of(10000000))
	assert.Equal(t, Cents(0), BasisPoints(500).Of(19))
	assert.Equal(t, "11.40%", BasisPoints(1140).String())
	assert.Equal(t, BasisPoints(1140), ShareOf(1140000, 10000000))
	assert.Equal(t, BasisPoints(0), ShareOf(10, 0))
}

func TestAllocateCents_RemainderToLargestFirst(t *testing.T) {
	assert.Equal(t, []Cents{34, 33, 33}, AllocateCents(100, []int64{1, 1, 1}))
	assert.Equal(t, []Cents{1, 7}, AllocateCents(8, []int64{1, 4}), "remainder lands on the larger share")
}

func TestAllocateCents_Proportional(t *testing.T) {
	got := AllocateCents(10000000, []int64{1200, 5500, 3300})
	assert.Equal(t, []Cents{1200000, 5500000, 3300000}, got)
}

func TestAllocateCents_ZeroWeightsSplitEvenly(t *testing.T) {
	assert.Equal(t, []Cents{500, 500}, AllocateCents(1000, []int64{0, 0}))
	assert.Equal(t, []Cents{0, 1000}, AllocateCents(1000, []int64{-3, 2}))
}

func TestAllocateCents_Negative(t *testing.T) {
	assert.Equal(t, []Cents{-34, -33, -33}, AllocateCents(-100, []int64{1, 1, 1}))
}

func TestAllocateCents_Empty(t *testing.T) {
	assert.Nil(t, AllocateCents(100, nil))
}

// TestAllocateCents_Invariants checks that shares always sum to the total
// and never drift more than the remainder from their exact value.
func TestAllocateCents_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		total := Cents(rng.Int63n(50_000_000_00))
		n := rng.Intn(12) + 1
		weights := make([]int64, n)
		for i := range weights {
			weights[i] = rng.Int63n(1_000_000)
		}

		shares := AllocateCents(total, weights)
		require.Len(t, shares, n)
		assert.Equal(t, total, SumCents(shares...), "trial %d: shares must sum to total", trial)
		for i, s := range shares {
			assert.GreaterOrEqual(t, int64(s), int64(0), "trial %d share %d negative", trial, i)
		}
	}
}

func TestLargestIndex(t *testing.T) {
	assert.Equal(t, 1, LargestIndex([]Cents{1, 5, 5, 2}))
	assert.Equal(t, 0, LargestIndex([]Cents{3}))
}
