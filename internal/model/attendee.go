package model

import (
	"database/sql/driver"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Attendee is one valid ticket as stored in the `attendees` table.  Text
// and timestamp columns are nil when the export cell was empty.  Timestamps
// are kept in the normalized "2006-01-02 15:04:05" form the store accepts.
// Check-in columns hold nil, int64, float64 or the raw export string; the
// store coerces them into its TINYINT columns.
//
// TotalCheckins and University are not inserted: the first is a generated
// column and the second is filled by the bulk classification step.
type Attendee struct {
	Number                *string // attendees.number
	TicketCreatedDate     *string // attendees.ticket_created_date
	TicketLastUpdatedDate *string // attendees.ticket_last_updated_date
	Ticket                *string // attendees.ticket
	FullName              *string // attendees.ticket_full_name
	FirstName             *string // attendees.ticket_first_name
	LastName              *string // attendees.ticket_last_name
	Email                 string  // attendees.ticket_email (required)
	CompanyName           *string // attendees.ticket_company_name
	JobTitle              *string // attendees.ticket_job_title
	PhoneNumber           *string // attendees.ticket_phone_number
	Event                 *string // attendees.event
	VoidStatus            *string // attendees.void_status

	Price decimal.NullDecimal // attendees.price

	DiscountStatus        *string // attendees.discount_status
	TicketReference       *string // attendees.ticket_reference
	Tags                  *string // attendees.tags
	UniqueTicketURL       *string // attendees.unique_ticket_url
	UniqueOrderURL        *string // attendees.unique_order_url
	OrderReference        *string // attendees.order_reference
	OrderName             *string // attendees.order_name
	OrderEmail            *string // attendees.order_email
	OrderPhoneNumber      *string // attendees.order_phone_number
	OrderDiscountCode     *string // attendees.order_discount_code
	OrderIP               *string // attendees.order_ip
	OrderCreatedDate      *string // attendees.order_created_date
	OrderCompletedDate    *string // attendees.order_completed_date
	Source                *string // attendees.source
	SourceType            *string // attendees.source_type

	VenueCheckin          driver.Value // attendees.venue_checkin
	SaturdayLunchCheckin  driver.Value // attendees.saturday_lunch_checkin
	SundayBrunchCheckin   driver.Value // attendees.sunday_brunch_checkin
	SaturdayDinnerCheckin driver.Value // attendees.saturday_dinner_checkin
	SundaySnackCheckin    driver.Value // attendees.sunday_midnight_snack_checkin
	MentorCheckin         driver.Value // attendees.mentor_checkin
	VolunteerCheckin      driver.Value // attendees.volunteer_checkin

	University string // attendees.university (derived)
}

// AttendeeColumns lists the inserted columns in the order Args returns them.
var AttendeeColumns = []string{
	"number", "ticket_created_date", "ticket_last_updated_date", "ticket",
	"ticket_full_name", "ticket_first_name", "ticket_last_name", "ticket_email",
	"ticket_company_name", "ticket_job_title", "ticket_phone_number", "event",
	"void_status", "price", "discount_status", "ticket_reference", "tags",
	"unique_ticket_url", "unique_order_url", "order_reference", "order_name",
	"order_email", "order_phone_number", "order_discount_code", "order_ip",
	"order_created_date", "order_completed_date", "source", "source_type",
	"venue_checkin", "saturday_lunch_checkin", "sunday_brunch_checkin",
	"saturday_dinner_checkin", "sunday_midnight_snack_checkin",
	"mentor_checkin", "volunteer_checkin",
}

// Args returns the insert values matching AttendeeColumns.
func (a *Attendee) Args() []any {
	return []any{
		a.Number, a.TicketCreatedDate, a.TicketLastUpdatedDate, a.Ticket,
		a.FullName, a.FirstName, a.LastName, a.Email,
		a.CompanyName, a.JobTitle, a.PhoneNumber, a.Event,
		a.VoidStatus, a.Price, a.DiscountStatus, a.TicketReference, a.Tags,
		a.UniqueTicketURL, a.UniqueOrderURL, a.OrderReference, a.OrderName,
		a.OrderEmail, a.OrderPhoneNumber, a.OrderDiscountCode, a.OrderIP,
		a.OrderCreatedDate, a.OrderCompletedDate, a.Source, a.SourceType,
		a.VenueCheckin, a.SaturdayLunchCheckin, a.SundayBrunchCheckin,
		a.SaturdayDinnerCheckin, a.SundaySnackCheckin,
		a.MentorCheckin, a.VolunteerCheckin,
	}
}

// TotalCheckins mirrors the generated column in schema.sql: venue plus the
// four meal check-ins, NULL counted as zero.
func (a *Attendee) TotalCheckins() int {
	return CheckinInt(a.VenueCheckin) +
		CheckinInt(a.SaturdayLunchCheckin) +
		CheckinInt(a.SaturdayDinnerCheckin) +
		CheckinInt(a.SundayBrunchCheckin) +
		CheckinInt(a.SundaySnackCheckin)
}

// CheckinInt reads a check-in value the way MySQL stores it in a TINYINT
// column: numbers are rounded, NULL and non-numeric text become 0.
func CheckinInt(v driver.Value) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case float64:
		return int(math.Round(t))
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return int(math.Round(f))
		}
	}
	return 0
}
