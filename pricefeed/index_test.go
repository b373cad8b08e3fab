package pricefeed

import (
	"testing"

	"github.com/matryer/is"
)

func TestIndexRows(t *testing.T) {
	is := is.New(t)
	raw := []byte(`[
		{"printing_id": "tfc-1-base", "market": 2.50, "low": 1.10, "median": 2.00,
		 "ts": "2026-08-01T00:00:00Z"},
		{"printing_id": "tfc-1-foil", "market": "8.75"},
		{"set_code": "TFC", "number": "2", "finish": "foil", "market": 4.00},
		{"printing_id": "tfc-3-base", "market": 0},
		{"printing_id": "tfc-4-base", "market": -1.5},
		{"printing_id": "tfc-5-base", "market": "n/a"},
		{"market": 9.99}
	]`)
	idx, err := IndexRows("testsource", raw)
	is.NoErr(err)
	is.Equal(len(idx), 3)

	obs := idx["tfc-1-base"]
	is.Equal(*obs.Market, 2.50)
	is.Equal(*obs.Low, 1.10)
	is.Equal(*obs.Median, 2.00)
	is.True(!obs.UpdatedAt.IsZero())

	// String-typed numbers are coerced.
	is.Equal(*idx["tfc-1-foil"].Market, 8.75)

	// Derived printing id from set code + number + finish.
	is.Equal(*idx["tfc-2-foil"].Market, 4.00)

	// Zero, negative and unparseable prices are absent, not zero.
	_, ok := idx["tfc-3-base"]
	is.True(!ok)
	_, ok = idx["tfc-4-base"]
	is.True(!ok)
	_, ok = idx["tfc-5-base"]
	is.True(!ok)
}

func TestIndexNested(t *testing.T) {
	is := is.New(t)
	raw := []byte(`{
		"tfc-1": {"base": {"market": 1.25}, "foil": {"market": 5.00, "low": 3.10}},
		"tfc-205": {"special": {"market": 150.00}},
		"tfc-9": {"base": {"market": null}}
	}`)
	idx, err := IndexNested("nested", raw)
	is.NoErr(err)
	is.Equal(len(idx), 3)
	is.Equal(*idx["tfc-1-base"].Market, 1.25)
	is.Equal(*idx["tfc-1-foil"].Low, 3.10)
	is.Equal(*idx["tfc-205-special"].Market, 150.00)
	_, ok := idx["tfc-9-base"]
	is.True(!ok)
}

func TestDetectAndIndex(t *testing.T) {
	is := is.New(t)

	idx, err := DetectAndIndex("a", []byte(`  [{"printing_id": "x-base", "market": 1}]`))
	is.NoErr(err)
	is.Equal(*idx["x-base"].Market, 1.0)

	idx, err = DetectAndIndex("b", []byte(`{"x": {"base": {"market": 2}}}`))
	is.NoErr(err)
	is.Equal(*idx["x-base"].Market, 2.0)

	idx, err = DetectAndIndex("c", []byte("   "))
	is.NoErr(err)
	is.Equal(len(idx), 0)
}

func TestIndexRowsBadPayload(t *testing.T) {
	is := is.New(t)
	_, err := IndexRows("bad", []byte(`{"not": "rows"}`))
	is.True(err != nil)
	_, err = IndexNested("bad", []byte(`[1, 2]`))
	is.True(err != nil)
}

func TestParseField(t *testing.T) {
	is := is.New(t)
	is.Equal(ParseField("market"), Market)
	is.Equal(ParseField(" LOW "), Low)
	is.Equal(ParseField("median"), Median)
	is.Equal(ParseField("garbage"), Market)
	is.Equal(Median.String(), "median")
}
