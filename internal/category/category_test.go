package category

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniversity(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"aggie@ucdavis.edu", UCDavis},
		{"AGGIE@UCDAVIS.EDU", UCDavis},
		{"stanford.edu.fan@ucdavis.edu", UCDavis},
		{"bear@berkeley.edu", UCBerkeley},
		{"bear@eecs.berkeley.edu", UCBerkeley},
		{"tree@stanford.edu", Stanford},
		{"spartan@sjsu.edu", "sjsu.edu"},
		{"spartan@cs.sjsu.edu", "sjsu.edu"},
		{"bruin@g.ucla.edu", "ucla.edu"},
		{"hornet@csus.edu", "csus.edu"},
		{"someone@gmail.com", NonUniversity},
		{"someone@edu.com", NonUniversity},
		{"", NonUniversity},
		{"not-an-email", NonUniversity},
		{"weird.edu", "weird.edu"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, University(tt.email))
		})
	}
}

func TestUniversityIsTotal(t *testing.T) {
	inputs := []string{"", " ", "@", "@@", ".edu", "a@b@c.edu", "\x00", "ünï@cörn.edu", "x@y"}
	for _, in := range inputs {
		got := University(in)
		assert.NotEmpty(t, got, "input %q", in)
	}
}

func TestUniversityMatchesDomain(t *testing.T) {
	for _, email := range []string{"a@ucdavis.edu", "b@Cs.SJSU.edu", "c@gmail.com", "nodomain.edu", "x@stanford.edu"} {
		assert.Equal(t, University(email), University(Domain(email)), email)
	}
}

func TestSchoolType(t *testing.T) {
	tests := []struct {
		university string
		want       string
	}{
		{UCDavis, SchoolUCDavis},
		{UCBerkeley, SchoolOtherUC},
		{"ucla.edu", SchoolOtherUC},
		{"sjsu.edu", SchoolSanJoseState},
		{"csus.edu", SchoolOtherCSU},
		{"csuchico.edu", SchoolOtherUC}, // "cs-uc-hico" hits the uc rule first
		{"csulb.edu", SchoolOtherCSU},
		{"sfsu.edu", SchoolOtherCSU},
		{Stanford, SchoolStanford},
		{NonUniversity, SchoolGeneralPublic},
		{"mit.edu", SchoolOther},
		{"", SchoolOther},
	}
	for _, tt := range tests {
		t.Run(tt.university, func(t *testing.T) {
			assert.Equal(t, tt.want, SchoolType(tt.university))
		})
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		university string
		want       string
	}{
		{UCDavis, RegionBayAreaSac},
		{UCBerkeley, RegionBayAreaSac},
		{"sjsu.edu", RegionBayAreaSac},
		{Stanford, RegionBayAreaSac},
		{"ucla.edu", RegionCalifornia},
		{"csulb.edu", RegionCalifornia},
		{"mit.edu", RegionOutOfState},
		{"sfsu.edu", RegionOutOfState},
		{NonUniversity, RegionGeneralPublic},
		{"", RegionGeneralPublic},
	}
	for _, tt := range tests {
		t.Run(tt.university, func(t *testing.T) {
			assert.Equal(t, tt.want, Region(tt.university))
		})
	}
}

func TestEngagementTierBoundaries(t *testing.T) {
	want := map[int]string{
		-1: TierNone,
		0:  TierNone,
		1:  TierLow,
		2:  TierMedium,
		3:  TierMedium,
		4:  TierHigh,
		5:  TierHigh,
	}
	for n, label := range want {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			assert.Equal(t, label, EngagementTier(n))
		})
	}
}

// Mapping a label again is not expected to reproduce it.
func TestMappersAreNotRoundTrips(t *testing.T) {
	assert.Equal(t, SchoolOther, SchoolType(SchoolSanJoseState))
	assert.Equal(t, SchoolOtherUC, SchoolType(SchoolOtherUC))
	assert.Equal(t, RegionGeneralPublic, Region(RegionOutOfState))
}

func TestMappersStayInLabelSets(t *testing.T) {
	for _, u := range []string{UCDavis, UCBerkeley, Stanford, NonUniversity, "sjsu.edu", "mit.edu", "csus.edu", "", "zzz"} {
		assert.Contains(t, SchoolTypes, SchoolType(u))
		assert.Contains(t, Regions, Region(u))
	}
	for n := -2; n < 10; n++ {
		assert.Contains(t, Tiers, EngagementTier(n))
	}
}
