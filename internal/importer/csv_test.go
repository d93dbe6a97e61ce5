package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventsCSV(t *testing.T) {
	in := "name,currency,amount,duration_days,locked_to\n" +
		"Battle pass,gems,950,42,\n" +
		"Skin,gems,20.50,,1\n" +
		"\"Bundle, deluxe\",coins,1e3,,\n"

	events, errs := ParseEventsCSV(strings.NewReader(in))
	require.Empty(t, errs)
	require.Len(t, events, 3)

	assert.Equal(t, "Battle pass", events[0].Name)
	require.NotNil(t, events[0].DurationDays)
	assert.Equal(t, 42, *events[0].DurationDays)

	assert.Equal(t, 20.5, events[1].Amount)
	assert.Equal(t, events[0].ID, events[1].LockedTo())
	assert.Nil(t, events[1].DurationDays)

	assert.Equal(t, "Bundle, deluxe", events[2].Name)
	assert.Equal(t, 1000.0, events[2].Amount)
	for i, e := range events {
		assert.Equal(t, i, e.Priority)
	}
}

func TestParseEventsCSV_ColumnOrderAndOptionalColumns(t *testing.T) {
	in := "Amount, Currency, Name\n5,gems,Emote\n"

	events, errs := ParseEventsCSV(strings.NewReader(in))
	require.Empty(t, errs)
	require.Len(t, events, 1)
	assert.Equal(t, "Emote", events[0].Name)
	assert.Equal(t, "gems", events[0].CurrencyID)
	assert.Equal(t, 5.0, events[0].Amount)
}

func TestParseEventsCSV_HeaderErrors(t *testing.T) {
	_, errs := ParseEventsCSV(strings.NewReader(""))
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "missing header")

	_, errs = ParseEventsCSV(strings.NewReader("name,price\n"))
	assert.Len(t, errs, 2, "currency and amount missing")
}

func TestParseEventsCSV_RowErrors(t *testing.T) {
	in := "name,currency,amount,duration_days,locked_to\n" +
		"A,gems,abc,,\n" +
		"B,gems,0,,\n" +
		"C,gems,1,x,\n" +
		"D,gems,1,,4\n" +
		"E,gems,1,,zz\n" +
		",gems,1,,\n"

	events, errs := ParseEventsCSV(strings.NewReader(in))
	assert.Nil(t, events)
	require.Len(t, errs, 6)
	assert.ErrorContains(t, errs[0], "csv row 1: amount")
	assert.ErrorContains(t, errs[1], "csv row 2")
	assert.ErrorContains(t, errs[2], "duration_days")
	assert.ErrorContains(t, errs[3], "earlier row")
	assert.ErrorContains(t, errs[4], "not a row number")
	assert.ErrorContains(t, errs[5], "name is required")
}

func TestWriteEventsCSV_RoundTrip(t *testing.T) {
	days := 14
	gone := "gone"
	q := []domain.SpendingEvent{
		{ID: "a", Name: "Pass", CurrencyID: "gems", Amount: 950, Priority: 0, DurationDays: &days},
		{ID: "b", Name: "Skin, red", CurrencyID: "gems", Amount: 20.5, Priority: 1, LockedToEventID: domain.StringPtr("a")},
		{ID: "c", Name: "Orphan", CurrencyID: "coins", Amount: 3, Priority: 2, LockedToEventID: &gone},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEventsCSV(&buf, q))
	assert.Equal(t,
		"name,currency,amount,duration_days,locked_to\n"+
			"Pass,gems,950,14,\n"+
			"\"Skin, red\",gems,20.5,,1\n"+
			"Orphan,coins,3,,\n",
		buf.String())

	back, errs := ParseEventsCSV(&buf)
	require.Empty(t, errs)
	require.Len(t, back, 3)
	assert.Equal(t, q[0].DedupKey(), back[0].DedupKey())
	assert.Equal(t, q[1].DedupKey(), back[1].DedupKey())
	assert.Equal(t, back[0].ID, back[1].LockedTo())
	assert.False(t, back[2].IsChained())
}
