package form

import (
	"strings"

	"github.com/lendfast/appform/types"
)

// SectionError is a blocking validation message naming the offending wizard
// section. One message per failed section, no per-field error state.
type SectionError struct {
	Section string
}

func (e *SectionError) Error() string {
	return "Please complete all fields on the " + e.Section + "."
}

// Validate applies the conditional gating rules ahead of submission. The
// first failing section wins, matching the wizard's blocking-alert behavior.
func Validate(app *types.Application) error {
	for _, a := range app.Applicants {
		if ApplicantCompletion(a) < ProgressionThreshold {
			return &SectionError{Section: "Applicant Details"}
		}
	}

	if app.LoanAmount == "" || app.LoanTerm == "" {
		return &SectionError{Section: "Loan Details"}
	}

	if app.HasPurchasePurpose() && app.SourceOfDeposit == "" {
		return &SectionError{Section: "Loan Details"}
	}

	if app.HasCapitalRaisePurpose() && strings.TrimSpace(app.LoanPurposeDetail) == "" {
		return &SectionError{Section: "Loan Details"}
	}

	if app.FundsRequiredBy == "" {
		return &SectionError{Section: "Loan Details"}
	}

	if app.ExitStrategy == "" {
		return &SectionError{Section: "Loan Details"}
	}
	if strings.EqualFold(app.ExitStrategy, "other") && app.ExitOtherExplain == "" {
		return &SectionError{Section: "Loan Details"}
	}
	if strings.EqualFold(app.ExitStrategy, "refinance") && app.ExitRefinanceLender == "" {
		return &SectionError{Section: "Loan Details"}
	}

	if app.SolicitorName == "" || app.SRANumber == "" || app.SolicitorAddress.Postcode == "" {
		return &SectionError{Section: "Solicitor Details"}
	}

	return nil
}

// ValidateSecurity applies the per-security conditional requirements. Used
// when a security is saved from its dialog rather than at final submission.
func ValidateSecurity(s types.Security) error {
	if s.HasPurpose("Purchase") && s.PurchasePrice == "" {
		return &SectionError{Section: "Security Details"}
	}
	if s.ChargeType == "2nd" && (s.OutstandingBalance == "" || s.FirstChargeLender == "") {
		return &SectionError{Section: "Security Details"}
	}
	if strings.EqualFold(s.Tenure, "leasehold") && s.UnexpiredTerm == "" {
		return &SectionError{Section: "Security Details"}
	}
	return nil
}
