package form

import (
	"time"

	"github.com/lendfast/appform/types"
)

// The address-history cascade: address N+1 is only collected while address
// N's "resident since" date falls within the last three years. The state is
// derived from the dates on every evaluation, never stored.

const addressHistoryYears = 3

// dateLayouts covers the formats the wizard and the CRM exchange dates in.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// withinHistoryWindow reports whether atSince is later than now minus the
// history window. An unparseable or empty date counts as outside the window,
// which keeps the follow-on section hidden.
func withinHistoryWindow(atSince string, now time.Time) bool {
	t, ok := parseDate(atSince)
	if !ok {
		return false
	}
	return t.After(now.AddDate(-addressHistoryYears, 0, 0))
}

// SecondAddressRequired reports whether the applicant's second address
// section is relevant, evaluated at now.
func SecondAddressRequired(a types.Applicant, now time.Time) bool {
	return withinHistoryWindow(a.Address1AtSince, now)
}

// ThirdAddressRequired reports whether the applicant's third address section
// is relevant. The rule chains: address 3 only matters while address 2 does.
func ThirdAddressRequired(a types.Applicant, now time.Time) bool {
	return SecondAddressRequired(a, now) && withinHistoryWindow(a.Address2AtSince, now)
}

// PurgeHiddenAddresses clears the address blocks that the cascade currently
// hides. The wizard hides without clearing while editing, so stale values can
// linger once an earlier date moves back past the threshold; submission
// normalizes them away.
func PurgeHiddenAddresses(a *types.Applicant, now time.Time) {
	if !SecondAddressRequired(*a, now) {
		clearAddress2(a)
		clearAddress3(a)
		return
	}
	if !ThirdAddressRequired(*a, now) {
		clearAddress3(a)
	}
}

func clearAddress2(a *types.Applicant) {
	a.Address2Line1 = ""
	a.Address2Line2 = ""
	a.Address2Line3 = ""
	a.Address2Town = ""
	a.Address2County = ""
	a.Address2Country = ""
	a.Address2Postcode = ""
	a.Address2AtSince = ""
	a.Address2ResidentialStatus = ""
}

func clearAddress3(a *types.Applicant) {
	a.Address3Line1 = ""
	a.Address3Line2 = ""
	a.Address3Line3 = ""
	a.Address3Town = ""
	a.Address3County = ""
	a.Address3Country = ""
	a.Address3Postcode = ""
	a.Address3AtSince = ""
	a.Address3ResidentialStatus = ""
}
