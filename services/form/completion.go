package form

import (
	"math"
	"strings"

	"github.com/lendfast/appform/types"
)

// ProgressionThreshold is the minimum completion percentage every applicant
// must reach before the wizard allows moving on to consent.
const ProgressionThreshold = 90

// requiredApplicantFields counts the always-required applicant inputs. The
// scorer adds one slot for the first address line and one for a consistent
// credit history on top of these.
var requiredApplicantFields = []func(types.Applicant) bool{
	func(a types.Applicant) bool { return a.Salutation != "" },
	func(a types.Applicant) bool { return a.FirstName != "" },
	func(a types.Applicant) bool { return a.LastName != "" },
	func(a types.Applicant) bool { return a.DOB != "" },
	func(a types.Applicant) bool { return a.MaritalStatus != "" },
	func(a types.Applicant) bool { return a.CountryOfBirth != "" },
	func(a types.Applicant) bool { return a.Nationality != "" },
	func(a types.Applicant) bool { return a.PermanentRightToReside != nil },
	func(a types.Applicant) bool { return a.MobilePhone != "" },
	func(a types.Applicant) bool { return a.Email != "" },
}

// ApplicantCompletion returns the applicant's completion percentage, 0-100.
func ApplicantCompletion(a types.Applicant) int {
	completed := 0
	total := len(requiredApplicantFields) + 2 // + address slot + credit slot

	for _, present := range requiredApplicantFields {
		if present(a) {
			completed++
		}
	}

	if a.Address1Line1 != "" {
		completed++
	}

	if creditHistoryConsistent(a.CreditHistory) {
		completed++
	}

	return roundPercent(completed, total)
}

// creditHistoryConsistent reports whether every credit question is answered
// and, when any answer is yes, the details text is filled in.
func creditHistoryConsistent(c types.CreditHistory) bool {
	anyYes := false
	for _, answer := range c.Answers() {
		if answer == nil {
			return false
		}
		if *answer {
			anyYes = true
		}
	}
	if anyYes {
		return strings.TrimSpace(c.Details) != ""
	}
	return true
}

// SecurityCompletion returns the security's completion percentage, 0-100.
// The denominator starts at the 8 base fields and grows with every
// conditionally-required field implied by the answers so far.
func SecurityCompletion(s types.Security) int {
	completed := 0
	total := 8

	if s.Postcode != "" {
		completed++
	}
	if s.Line1 != "" {
		completed++
	}
	if s.Town != "" {
		completed++
	}
	if s.PropertyType != "" {
		completed++
	}
	if len(s.LoanPurpose) > 0 {
		completed++
	}
	if s.EstimatedValue != "" {
		completed++
	}
	if s.Tenure != "" {
		completed++
	}
	if s.IsPrimary != nil {
		completed++
	}

	if s.HasPurpose("Purchase") {
		total++
		if s.PurchasePrice != "" {
			completed++
		}
	}

	if s.ChargeType != "" {
		total++
		completed++
		if s.ChargeType == "2nd" {
			total += 2
			if s.OutstandingBalance != "" {
				completed++
			}
			if s.FirstChargeLender != "" {
				completed++
			}
		}
	}

	if strings.EqualFold(s.Tenure, "leasehold") {
		total++
		if s.UnexpiredTerm != "" {
			completed++
		}
	}

	return roundPercent(completed, total)
}

func roundPercent(completed, total int) int {
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// BadgeColor maps a completion percentage onto the UI badge color.
func BadgeColor(percent int) string {
	if percent < 50 {
		return "red"
	}
	if percent < 100 {
		return "yellow"
	}
	return "green"
}
