package category

import "strings"

// Classification labels produced by University.
const (
	UCDavis       = "UC Davis"
	UCBerkeley    = "UC Berkeley"
	Stanford      = "Stanford"
	NonUniversity = "Non-University"
)

var universityTable = Table[string]{
	Rules: []Rule[string]{
		{Match: hasSuffix("ucdavis.edu"), Label: fixed[string](UCDavis)},
		{Match: hasSuffix("berkeley.edu"), Label: fixed[string](UCBerkeley)},
		{Match: hasSuffix("stanford.edu"), Label: fixed[string](Stanford)},
		{Match: hasSuffix(".edu"), Label: eduDomain},
	},
	Fallback: NonUniversity,
}

// University classifies an email address by its domain.  It is total: any
// input, including an empty or malformed address, yields a label.
func University(email string) string {
	return universityTable.Apply(strings.TrimSpace(email))
}

// Domain returns the lower-cased part after the last "@", or the whole
// lower-cased input when there is none.  University(Domain(e)) always
// equals University(e).
func Domain(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return email
}

// eduDomain keeps the last two labels of the domain: "cs.sjsu.edu" and
// "sjsu.edu" both become "sjsu.edu".
func eduDomain(email string) string {
	labels := strings.Split(Domain(email), ".")
	if len(labels) > 2 {
		labels = labels[len(labels)-2:]
	}
	return strings.Join(labels, ".")
}
