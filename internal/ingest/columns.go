package ingest

// Kind selects the normalization applied to a column.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindTimestamp
	KindPrice
	KindCheckin
)

// Column maps one header of the ticketing export to an attendees column.
type Column struct {
	Header string
	Name   string
	Kind   Kind
}

// Columns is the fixed export-to-table mapping.  Headers not listed here
// are dropped.
var Columns = []Column{
	{"Number", "number", KindText},
	{"Ticket Created Date (-07:00 Pacific Time (US & Canada))", "ticket_created_date", KindTimestamp},
	{"Ticket Last Updated Date (-07:00 Pacific Time (US & Canada))", "ticket_last_updated_date", KindTimestamp},
	{"Ticket", "ticket", KindText},
	{"Ticket Full Name", "ticket_full_name", KindText},
	{"Ticket First Name", "ticket_first_name", KindText},
	{"Ticket Last Name", "ticket_last_name", KindText},
	{"Ticket Email", "ticket_email", KindEmail},
	{"Ticket Company Name", "ticket_company_name", KindText},
	{"Ticket Job Title", "ticket_job_title", KindText},
	{"Ticket Phone Number", "ticket_phone_number", KindText},
	{"Event", "event", KindText},
	{"Void Status", "void_status", KindText},
	{"Price", "price", KindPrice},
	{"Discount Status", "discount_status", KindText},
	{"Ticket Reference", "ticket_reference", KindText},
	{"Tags", "tags", KindText},
	{"Unique Ticket URL", "unique_ticket_url", KindText},
	{"Unique Order URL", "unique_order_url", KindText},
	{"Order Reference", "order_reference", KindText},
	{"Order Name", "order_name", KindText},
	{"Order Email", "order_email", KindText},
	{"Order Phone Number", "order_phone_number", KindText},
	{"Order Discount Code", "order_discount_code", KindText},
	{"Order IP", "order_ip", KindText},
	{"Order Created Date (-07:00 Pacific Time (US & Canada))", "order_created_date", KindTimestamp},
	{"Order Completed Date (-07:00 Pacific Time (US & Canada))", "order_completed_date", KindTimestamp},
	{"Source", "source", KindText},
	{"Source Type", "source_type", KindText},
	{"Check-ins: Venue Check-In List", "venue_checkin", KindCheckin},
	{"Check-ins: Saturday Lunch Check-in", "saturday_lunch_checkin", KindCheckin},
	{"Check-ins: Sunday Brunch Check-in", "sunday_brunch_checkin", KindCheckin},
	{"Check-ins: Saturday Dinner Check-in", "saturday_dinner_checkin", KindCheckin},
	{"Check-ins: Sunday Midnight Snack Check-in", "sunday_midnight_snack_checkin", KindCheckin},
	{"Check-ins: Mentor Check in", "mentor_checkin", KindCheckin},
	{"Check-ins: Volunteer Check in List", "volunteer_checkin", KindCheckin},
}

var byHeader = func() map[string]Column {
	m := make(map[string]Column, len(Columns))
	for _, c := range Columns {
		m[c.Header] = c
	}
	return m
}()

// Rename converts an export record to internal column names, dropping
// unknown headers.
func Rename(rec Record) map[string]string {
	out := make(map[string]string, len(Columns))
	for header, v := range rec {
		if c, ok := byHeader[header]; ok {
			out[c.Name] = v
		}
	}
	return out
}
