package form

import (
	"testing"

	"github.com/lendfast/appform/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplication() *types.Application {
	return &types.Application{
		Applicants: []types.Applicant{completeApplicant()},
		Securities: []types.Security{completeSecurity()},

		LoanAmount:      "250000",
		LoanTerm:        "12 months",
		FundsRequiredBy: "2026-09-30",
		ExitStrategy:    "Sale of security",

		SolicitorName: "Harper & Cole LLP",
		SRANumber:     "445512",
		SolicitorAddress: types.SolicitorAddress{
			Postcode: "NR1 1AA",
		},
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, Validate(validApplication()))
}

func TestValidateIncompleteApplicant(t *testing.T) {
	app := validApplication()
	app.Applicants[0].Email = ""
	app.Applicants[0].MobilePhone = ""
	app.Applicants[0].DOB = ""

	err := Validate(app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Applicant Details")
}

func TestValidatePurchaseNeedsDeposit(t *testing.T) {
	app := validApplication()
	app.Securities[0].LoanPurpose = []string{"Purchase"}
	app.Securities[0].PurchasePrice = "400000"

	err := Validate(app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Loan Details")

	app.SourceOfDeposit = "Savings"
	assert.NoError(t, Validate(app))
}

func TestValidateCapitalRaiseNeedsDetail(t *testing.T) {
	app := validApplication()
	app.Securities[0].LoanPurpose = []string{"Capital Raise"}

	err := Validate(app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Loan Details")

	app.LoanPurposeDetail = "Raising funds for a second property"
	assert.NoError(t, Validate(app))
}

func TestValidateExitStrategyConditionals(t *testing.T) {
	app := validApplication()
	app.ExitStrategy = "Other"
	assert.Error(t, Validate(app))
	app.ExitOtherExplain = "Inheritance due"
	assert.NoError(t, Validate(app))

	app = validApplication()
	app.ExitStrategy = "Refinance"
	assert.Error(t, Validate(app))
	app.ExitRefinanceLender = "Halifax"
	assert.NoError(t, Validate(app))
}

func TestValidateSolicitorSection(t *testing.T) {
	app := validApplication()
	app.SRANumber = ""

	err := Validate(app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Solicitor Details")
}

func TestValidateSecurityConditionals(t *testing.T) {
	s := completeSecurity()
	s.LoanPurpose = []string{"Purchase"}
	assert.Error(t, ValidateSecurity(s))
	s.PurchasePrice = "400000"
	assert.NoError(t, ValidateSecurity(s))

	s = completeSecurity()
	s.ChargeType = "2nd"
	assert.Error(t, ValidateSecurity(s))
	s.OutstandingBalance = "90000"
	s.FirstChargeLender = "Big Bank plc"
	assert.NoError(t, ValidateSecurity(s))

	s = completeSecurity()
	s.Tenure = "Leasehold"
	assert.Error(t, ValidateSecurity(s))
	s.UnexpiredTerm = "85"
	assert.NoError(t, ValidateSecurity(s))
}
