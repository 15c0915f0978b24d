package category

// School type labels.
const (
	SchoolUCDavis       = "UC Davis"
	SchoolOtherUC       = "Other UC Schools"
	SchoolSanJoseState  = "San Jose State"
	SchoolOtherCSU      = "Other CSU Schools"
	SchoolStanford      = "Stanford"
	SchoolGeneralPublic = "General Public"
	SchoolOther         = "Other Universities"
)

// Region labels.
const (
	RegionBayAreaSac    = "Bay Area/Sac"
	RegionCalifornia    = "Other California"
	RegionOutOfState    = "Out-of-State"
	RegionGeneralPublic = "General Public"
)

// Engagement tier labels.
const (
	TierHigh   = "High (4+ meals)"
	TierMedium = "Medium (2-3 meals)"
	TierLow    = "Low (1 meal)"
	TierNone   = "None (0 meals)"
)

var schoolTypeTable = Table[string]{
	Rules: []Rule[string]{
		{Match: equals(UCDavis), Label: fixed[string](SchoolUCDavis)},
		{Match: contains("uc"), Label: fixed[string](SchoolOtherUC)},
		{Match: equals("sjsu.edu"), Label: fixed[string](SchoolSanJoseState)},
		{Match: anyOf(contains("csu"), equals("sfsu.edu", "csus.edu")), Label: fixed[string](SchoolOtherCSU)},
		{Match: equals(Stanford), Label: fixed[string](SchoolStanford)},
		{Match: equals(NonUniversity), Label: fixed[string](SchoolGeneralPublic)},
	},
	Fallback: SchoolOther,
}

var regionTable = Table[string]{
	Rules: []Rule[string]{
		{Match: equals(UCDavis, UCBerkeley, "sjsu.edu", Stanford), Label: fixed[string](RegionBayAreaSac)},
		{Match: anyOf(contains("uc"), contains("csu")), Label: fixed[string](RegionCalifornia)},
		{Match: hasSuffix(".edu"), Label: fixed[string](RegionOutOfState)},
	},
	Fallback: RegionGeneralPublic,
}

var tierTable = Table[int]{
	Rules: []Rule[int]{
		{Match: func(n int) bool { return n >= 4 }, Label: fixed[int](TierHigh)},
		{Match: func(n int) bool { return n >= 2 }, Label: fixed[int](TierMedium)},
		{Match: func(n int) bool { return n == 1 }, Label: fixed[int](TierLow)},
	},
	Fallback: TierNone,
}

// SchoolType groups a university classification for the participation
// report.  "UC Berkeley" lands in Other UC Schools because the "uc" rule
// precedes any Berkeley-specific handling.
func SchoolType(university string) string { return schoolTypeTable.Apply(university) }

// Region groups a university classification geographically.
func Region(university string) string { return regionTable.Apply(university) }

// EngagementTier buckets a total check-in count.
func EngagementTier(checkins int) string { return tierTable.Apply(checkins) }

// SchoolTypes, Regions and Tiers list every label each mapper can return.
var (
	SchoolTypes = []string{SchoolUCDavis, SchoolOtherUC, SchoolSanJoseState, SchoolOtherCSU, SchoolStanford, SchoolGeneralPublic, SchoolOther}
	Regions     = []string{RegionBayAreaSac, RegionCalifornia, RegionOutOfState, RegionGeneralPublic}
	Tiers       = []string{TierHigh, TierMedium, TierLow, TierNone}
)
