package ingest

import (
	"database/sql/driver"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/event-analytics/internal/model"
)

// TimestampLayout is the zoneless form timestamps are stored in.
const TimestampLayout = "2006-01-02 15:04:05"

// naValues are the spellings of a missing cell produced by spreadsheet
// tools and dataframe exports.
var naValues = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true,
	"None": true, "n/a": true, "nan": true, "null": true,
}

// offsetSuffix matches a trailing numeric UTC offset, as in
// "2025-01-25 10:00:00 -0800" or "2025-01-25 -0800".  The offset must follow
// whitespace or a time of day, which keeps "25-01-2025" intact.
var offsetSuffix = regexp.MustCompile(`(?:(\d{1,2}:\d{2}(?::\d{2})?)\s*|\s+)[+-]\d{4}$`)

var timeParser = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats: append([]string{
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006 3:04:05 PM",
		"1/2/2006 3:04 PM",
		"1/2/2006",
		"Jan 2, 2006 3:04 PM",
		"January 2, 2006 3:04 PM",
		"Jan 2, 2006",
		"January 2, 2006",
	}, now.TimeFormats...),
}

// Normalized is the outcome of Normalize.
type Normalized struct {
	Attendees     []model.Attendee
	Read          int // records given
	Removed       int // records dropped for a missing email
	InvalidDates  int // timestamp cells that could not be parsed (stored as null)
	InvalidPrices int // price cells that could not be parsed (stored as null)
}

// Normalize renames, filters and cleans raw export records.  It never
// fails: cell-level defects become nulls and are counted.
func Normalize(records []Record) Normalized {
	res := Normalized{Read: len(records)}
	for _, rec := range records {
		fields := Rename(rec)
		if isNA(fields["ticket_email"]) {
			res.Removed++
			continue
		}
		res.Attendees = append(res.Attendees, res.attendee(fields))
	}
	return res
}

func (n *Normalized) attendee(f map[string]string) model.Attendee {
	ts := func(name string) *string {
		raw := f[name]
		if isNA(raw) {
			return nil
		}
		v, ok := CleanTimestamp(raw)
		if !ok {
			n.InvalidDates++
			return nil
		}
		return &v
	}
	price := func() decimal.NullDecimal {
		raw := f["price"]
		if isNA(raw) {
			return decimal.NullDecimal{}
		}
		p, ok := ParsePrice(raw)
		if !ok {
			n.InvalidPrices++
		}
		return p
	}

	return model.Attendee{
		Number:                text(f["number"]),
		TicketCreatedDate:     ts("ticket_created_date"),
		TicketLastUpdatedDate: ts("ticket_last_updated_date"),
		Ticket:                text(f["ticket"]),
		FullName:              text(f["ticket_full_name"]),
		FirstName:             text(f["ticket_first_name"]),
		LastName:              text(f["ticket_last_name"]),
		Email:                 strings.TrimSpace(f["ticket_email"]),
		CompanyName:           text(f["ticket_company_name"]),
		JobTitle:              text(f["ticket_job_title"]),
		PhoneNumber:           text(f["ticket_phone_number"]),
		Event:                 text(f["event"]),
		VoidStatus:            text(f["void_status"]),
		Price:                 price(),
		DiscountStatus:        text(f["discount_status"]),
		TicketReference:       text(f["ticket_reference"]),
		Tags:                  text(f["tags"]),
		UniqueTicketURL:       text(f["unique_ticket_url"]),
		UniqueOrderURL:        text(f["unique_order_url"]),
		OrderReference:        text(f["order_reference"]),
		OrderName:             text(f["order_name"]),
		OrderEmail:            text(f["order_email"]),
		OrderPhoneNumber:      text(f["order_phone_number"]),
		OrderDiscountCode:     text(f["order_discount_code"]),
		OrderIP:               text(f["order_ip"]),
		OrderCreatedDate:      ts("order_created_date"),
		OrderCompletedDate:    ts("order_completed_date"),
		Source:                text(f["source"]),
		SourceType:            text(f["source_type"]),
		VenueCheckin:          CleanCheckin(f["venue_checkin"]),
		SaturdayLunchCheckin:  CleanCheckin(f["saturday_lunch_checkin"]),
		SundayBrunchCheckin:   CleanCheckin(f["sunday_brunch_checkin"]),
		SaturdayDinnerCheckin: CleanCheckin(f["saturday_dinner_checkin"]),
		SundaySnackCheckin:    CleanCheckin(f["sunday_midnight_snack_checkin"]),
		MentorCheckin:         CleanCheckin(f["mentor_checkin"]),
		VolunteerCheckin:      CleanCheckin(f["volunteer_checkin"]),
	}
}

func isNA(s string) bool { return naValues[strings.TrimSpace(s)] }

func text(s string) *string {
	if isNA(s) {
		return nil
	}
	return &s
}

// CleanTimestamp strips a trailing numeric UTC offset and reformats the
// remaining wall-clock time as TimestampLayout.  ok is false when the value
// cannot be parsed.
func CleanTimestamp(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if isNA(s) {
		return "", false
	}
	s = offsetSuffix.ReplaceAllString(s, "$1")
	t, err := timeParser.With(time.Now().UTC()).Parse(s)
	if err != nil {
		return "", false
	}
	return t.Format(TimestampLayout), true
}

// CleanCheckin turns a check-in cell into a store value: nil for a missing
// cell, int64 for a whole number ("1.0" -> 1), float64 for other numbers,
// and the raw text otherwise.
func CleanCheckin(raw string) driver.Value {
	s := strings.TrimSpace(raw)
	if isNA(s) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return f
}

// ParsePrice reads a currency amount such as "25", "25.00" or "$1,025.50".
func ParsePrice(raw string) (decimal.NullDecimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}
