package ingest

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-01-25 10:00:00 -0800", "2025-01-25 10:00:00", true},
		{"2025-01-25 10:00:00 +0530", "2025-01-25 10:00:00", true},
		{"2025-01-25 10:00:00-0700", "2025-01-25 10:00:00", true},
		{"2025-01-25 10:00:00", "2025-01-25 10:00:00", true},
		{"2025-01-25", "2025-01-25 00:00:00", true},
		{"2025-01-25 -0800", "2025-01-25 00:00:00", true},
		{"2025-01-25\t+0100", "2025-01-25 00:00:00", true},
		{"1/25/2025 9:05", "2025-01-25 09:05:00", true},
		{"not a date", "", false},
		{"2025-13-45 10:00:00", "", false},
		{"", "", false},
		{"NaN", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CleanTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffsetSuffixNeedsSeparator(t *testing.T) {
	assert.Equal(t, "25-01-2025", offsetSuffix.ReplaceAllString("25-01-2025", "$1"))
	assert.Equal(t, "2025-01-25", offsetSuffix.ReplaceAllString("2025-01-25 -0800", "$1"))
	assert.Equal(t, "2025-01-25 10:00", offsetSuffix.ReplaceAllString("2025-01-25 10:00+0100", "$1"))
}

func TestCleanCheckin(t *testing.T) {
	assert.Equal(t, int64(1), CleanCheckin("1.0"))
	assert.Equal(t, int64(0), CleanCheckin("0.0"))
	assert.Equal(t, int64(1), CleanCheckin("1"))
	assert.Equal(t, 0.5, CleanCheckin("0.5"))
	assert.Equal(t, "yes", CleanCheckin("yes"))
	assert.Nil(t, CleanCheckin(""))
	assert.Nil(t, CleanCheckin("  "))
	assert.Nil(t, CleanCheckin("nan"))
}

func TestParsePrice(t *testing.T) {
	p, ok := ParsePrice("$1,025.50")
	require.True(t, ok)
	assert.True(t, p.Valid)
	assert.True(t, p.Decimal.Equal(decimal.RequireFromString("1025.50")))

	p, ok = ParsePrice("free")
	assert.False(t, ok)
	assert.False(t, p.Valid)
}

func TestRenameDropsUnknownHeaders(t *testing.T) {
	got := Rename(Record{
		"Ticket Email":   "a@b.edu",
		"Internal Notes": "secret",
		"Price":          "5",
	})
	assert.Equal(t, map[string]string{"ticket_email": "a@b.edu", "price": "5"}, got)
}

func TestColumnsAreUnique(t *testing.T) {
	headers := map[string]bool{}
	names := map[string]bool{}
	for _, c := range Columns {
		assert.False(t, headers[c.Header], c.Header)
		assert.False(t, names[c.Name], c.Name)
		headers[c.Header] = true
		names[c.Name] = true
	}
	assert.Len(t, Columns, 36)
}

func TestNormalizeRemovesMissingEmails(t *testing.T) {
	records := []Record{
		{"Ticket Email": "a@ucdavis.edu"},
		{"Ticket Email": ""},
		{"Ticket Email": "   "},
		{"Ticket Full Name": "no email column"},
		{"Ticket Email": "b@gmail.com"},
	}
	n := Normalize(records)
	assert.Equal(t, 5, n.Read)
	assert.Equal(t, 3, n.Removed)
	require.Len(t, n.Attendees, 2)
	assert.Equal(t, "a@ucdavis.edu", n.Attendees[0].Email)
}

func TestNormalizeFields(t *testing.T) {
	n := Normalize([]Record{{
		"Ticket Email": " ada@ucdavis.edu ",
		"Ticket Created Date (-07:00 Pacific Time (US & Canada))": "2025-01-25 10:00:00 -0800",
		"Order Created Date (-07:00 Pacific Time (US & Canada))":  "garbage",
		"Price":                                     "12.50",
		"Ticket Company Name":                       "",
		"Check-ins: Venue Check-In List":            "1.0",
		"Check-ins: Sunday Midnight Snack Check-in": "0.0",
		"Check-ins: Mentor Check in":                "",
	}})
	require.Len(t, n.Attendees, 1)
	a := n.Attendees[0]

	assert.Equal(t, "ada@ucdavis.edu", a.Email)
	require.NotNil(t, a.TicketCreatedDate)
	assert.Equal(t, "2025-01-25 10:00:00", *a.TicketCreatedDate)
	assert.Nil(t, a.OrderCreatedDate)
	assert.Equal(t, 1, n.InvalidDates)
	assert.True(t, a.Price.Decimal.Equal(decimal.RequireFromString("12.5")))
	assert.Nil(t, a.CompanyName)
	assert.Equal(t, int64(1), a.VenueCheckin)
	assert.Equal(t, int64(0), a.SundaySnackCheckin)
	assert.Nil(t, a.MentorCheckin)
}

func TestDecodeCSV(t *testing.T) {
	in := "\ufeffTicket Email,Price\na@x.edu,1\nb@y.edu\n"
	recs, err := DecodeCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a@x.edu", recs[0]["Ticket Email"])
	_, hasPrice := recs[1]["Price"]
	assert.False(t, hasPrice)
}

func TestDecodeCSVEmpty(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}
