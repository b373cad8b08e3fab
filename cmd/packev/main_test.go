package main

import (
	"testing"

	"github.com/matryer/is"

	"github.com/lorekeep/packev/pricefeed"
)

func fp(v float64) *float64 { return &v }

func TestCoverageReport(t *testing.T) {
	is := is.New(t)
	sources := map[string]pricefeed.Index{
		"tcgplayer":  {"a-base": {Market: fp(1)}, "b-base": {Market: fp(2)}},
		"cardmarket": {"b-base": {Market: fp(3)}, "c-base": {Market: fp(4)}},
	}
	rec := pricefeed.NewReconciler(sources, []string{"tcgplayer", "cardmarket"})

	got := coverageReport(rec, []string{"a-base", "b-base", "c-base", "d-base"}, pricefeed.Market)
	// tcgplayer wins a and b, cardmarket falls through for c, d has nothing.
	is.Equal(got, "Source coverage (market): tcgplayer 2/4, cardmarket 1/4; 1 of 4 printings unpriced")
}
