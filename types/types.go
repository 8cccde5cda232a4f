package types

import (
	"strings"
	"time"
)

// Response is the struct for an API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorData is the struct for error data i.e when Status is "error"
type ErrorData struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreditHistory holds an applicant's adverse-credit answers. The yes/no
// answers are pointers so "not yet answered" is distinguishable from "no".
type CreditHistory struct {
	RefusedMortgage     *bool  `json:"refusedMortgage"`
	Bankrupt            *bool  `json:"bankrupt"`
	CCJ                 *bool  `json:"ccj"`
	DirectorLiquidation *bool  `json:"directorLiquidation"`
	Convicted           *bool  `json:"convicted"`
	MissedSecured       *bool  `json:"missedSecured"`
	MissedUnsecured     *bool  `json:"missedUnsecured"`
	Details             string `json:"details"`
}

// Answers returns the yes/no answers in question order.
func (c CreditHistory) Answers() []*bool {
	return []*bool{
		c.RefusedMortgage,
		c.Bankrupt,
		c.CCJ,
		c.DirectorLiquidation,
		c.Convicted,
		c.MissedSecured,
		c.MissedUnsecured,
	}
}

// ConsentPreferences holds the three independent contact-consent channels.
type ConsentPreferences struct {
	Email     bool `json:"email"`
	Telephone bool `json:"telephone"`
	SMS       bool `json:"sms"`
}

// AllSelected reports whether every consent channel is ticked.
func (c ConsentPreferences) AllSelected() bool {
	return c.Email && c.Telephone && c.SMS
}

// Applicant is an individual party to the loan application. Address blocks
// are flattened the same way the CRM stores them; blocks 2 and 3 are only
// relevant when the prior block's atSince date falls within the last 3 years.
type Applicant struct {
	Salutation             string        `json:"salutation"`
	FirstName              string        `json:"firstName"`
	LastName               string        `json:"lastName"`
	DOB                    string        `json:"dob"`
	Email                  string        `json:"email"`
	MobilePhone            string        `json:"mobilePhone"`
	OtherPhone             string        `json:"otherPhone"`
	MaritalStatus          string        `json:"maritalStatus"`
	CountryOfBirth         string        `json:"countryOfBirth"`
	Nationality            string        `json:"nationality"`
	PermanentRightToReside *bool         `json:"permanentRightToReside"`
	CreditHistory          CreditHistory `json:"creditHistory"`

	Address1Line1             string `json:"address1Line1"`
	Address1Line2             string `json:"address1Line2"`
	Address1Line3             string `json:"address1Line3"`
	Address1Town              string `json:"address1Town"`
	Address1County            string `json:"address1County"`
	Address1Country           string `json:"address1Country"`
	Address1Postcode          string `json:"address1Postcode"`
	Address1AtSince           string `json:"address1AtSince"`
	Address1ResidentialStatus string `json:"address1ResidentialStatus"`

	Address2Line1             string `json:"address2Line1"`
	Address2Line2             string `json:"address2Line2"`
	Address2Line3             string `json:"address2Line3"`
	Address2Town              string `json:"address2Town"`
	Address2County            string `json:"address2County"`
	Address2Country           string `json:"address2Country"`
	Address2Postcode          string `json:"address2Postcode"`
	Address2AtSince           string `json:"address2AtSince"`
	Address2ResidentialStatus string `json:"address2ResidentialStatus"`

	Address3Line1             string `json:"address3Line1"`
	Address3Line2             string `json:"address3Line2"`
	Address3Line3             string `json:"address3Line3"`
	Address3Town              string `json:"address3Town"`
	Address3County            string `json:"address3County"`
	Address3Country           string `json:"address3Country"`
	Address3Postcode          string `json:"address3Postcode"`
	Address3AtSince           string `json:"address3AtSince"`
	Address3ResidentialStatus string `json:"address3ResidentialStatus"`

	// Post-consent fields
	Signature          string              `json:"signature,omitempty"`
	SignaturePath      string              `json:"signaturePath,omitempty"`
	DateSigned         string              `json:"dateSigned,omitempty"`
	ConsentPreferences *ConsentPreferences `json:"consentPreferences,omitempty"`
}

// Security is a property pledged as collateral for the loan.
type Security struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Line3    string `json:"line3"`
	Town     string `json:"town"`
	County   string `json:"county"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`

	PropertyType string   `json:"propertyType"`
	LoanPurpose  []string `json:"loanPurpose"`

	EstimatedValue     string `json:"estimatedValue"`
	PurchasePrice      string `json:"purchasePrice"`
	OutstandingBalance string `json:"outstandingBalance"`
	FirstChargeLender  string `json:"firstChargeLender"`
	ChargeType         string `json:"chargeType"`
	Tenure             string `json:"tenure"`
	UnexpiredTerm      string `json:"unexpiredTerm"`

	IsPrimary *bool `json:"isPrimary"`
}

// HasPurpose reports whether the security's loan purposes include the given
// label, case-insensitively.
func (s Security) HasPurpose(label string) bool {
	for _, p := range s.LoanPurpose {
		if strings.EqualFold(p, label) {
			return true
		}
	}
	return false
}

// Shareholder is a beneficial owner of the applicant company. Percentage is a
// disclosure bucket ("25-50", "50-75", "75-100" or "25-100"), not a number.
type Shareholder struct {
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
}

// CompanyData holds details of the applicant company.
type CompanyData struct {
	CompanyName   string        `json:"companyName"`
	CompanyNumber string        `json:"companyNumber"`
	Shareholders  []Shareholder `json:"shareholders"`
}

// SolicitorAddress is the address of the acting solicitor firm.
type SolicitorAddress struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Town     string `json:"town"`
	County   string `json:"county"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// Application is the full intake record, keyed by the CRM opportunity GUID.
type Application struct {
	IsCompany   bool         `json:"isCompany"`
	CompanyData *CompanyData `json:"companyData"`
	Applicants  []Applicant  `json:"applicants"`
	Securities  []Security   `json:"securities"`

	LoanAmount          string `json:"loanAmount"`
	LoanTerm            string `json:"loanTerm"`
	SourceOfDeposit     string `json:"sourceOfDeposit"`
	LoanPurposeDetail   string `json:"loanPurposeDetail"`
	FundsRequiredBy     string `json:"fundsRequiredBy"`
	ExitStrategy        string `json:"exitStrategy"`
	ExitOtherExplain    string `json:"exitOtherExplain"`
	ExitRefinanceLender string `json:"exitRefinanceLender"`

	SolicitorName          string           `json:"solicitorName"`
	SRANumber              string           `json:"sraNumber"`
	SolicitorAddress       SolicitorAddress `json:"solicitorAddress"`
	SolicitorActing        string           `json:"solicitorActing"`
	SolicitorContactNumber string           `json:"solicitorContactNumber"`
	SolicitorContactEmail  string           `json:"solicitorContactEmail"`
}

// HasPurchasePurpose reports whether any security's loan purposes include
// "Purchase". It drives the source-of-deposit requirement at the loan level.
func (a Application) HasPurchasePurpose() bool {
	for _, s := range a.Securities {
		if s.HasPurpose("Purchase") {
			return true
		}
	}
	return false
}

// HasCapitalRaisePurpose reports whether any security's loan purposes include
// "Capital Raise". It drives the loan-purpose-detail requirement.
func (a Application) HasCapitalRaisePurpose() bool {
	for _, s := range a.Securities {
		if s.HasPurpose("Capital Raise") {
			return true
		}
	}
	return false
}

// ApplicationRecord is an Application as stored, with server-added metadata.
type ApplicationRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Application
}

// CreateApplicationPayload is the payload pushed by the CRM button action.
type CreateApplicationPayload struct {
	OpportunityGUID string `json:"opportunityGuid" binding:"required"`
	Application
}

// UpdateContactsPayload is the payload for the opportunity-contacts sync.
type UpdateContactsPayload struct {
	Applicants []Applicant `json:"applicants"`
}

// UpdateSecuritiesPayload is the payload for the opportunity-securities sync.
type UpdateSecuritiesPayload struct {
	Securities []Security `json:"securities"`
}

// UpdateCompanyPayload is the payload for the opportunity-company sync.
type UpdateCompanyPayload struct {
	IsCompany     bool   `json:"isCompany"`
	CompanyName   string `json:"companyName"`
	CompanyNumber string `json:"companyNumber"`
}

// UpdateSolicitorPayload is the payload for the opportunity-solicitor sync.
type UpdateSolicitorPayload struct {
	SRANumber              string           `json:"sraNumber" binding:"required"`
	SolicitorName          string           `json:"solicitorName"`
	SolicitorAddress       SolicitorAddress `json:"solicitorAddress"`
	SolicitorActing        string           `json:"solicitorActing"`
	SolicitorContactNumber string           `json:"solicitorContactNumber"`
	SolicitorContactEmail  string           `json:"solicitorContactEmail"`
}

// UpdateDetailsPayload is the payload for the scalar opportunity fields sync.
type UpdateDetailsPayload struct {
	LoanAmount        string `json:"loanAmount"`
	LoanTerm          string `json:"loanTerm"`
	FundsRequiredBy   string `json:"fundsRequiredBy"`
	SourceOfDeposit   string `json:"sourceOfDeposit"`
	LoanPurposeDetail string `json:"loanPurposeDetail"`
	ExitStrategy      string `json:"exitStrategy"`
}

// SolicitorRecord is one entry of the solicitor register.
type SolicitorRecord struct {
	SRANumber     string `json:"sraNumber"`
	FirmName      string `json:"firmName"`
	SolicitorName string `json:"solicitorName"`
	AddressLine1  string `json:"addressLine1"`
	AddressLine2  string `json:"addressLine2"`
	Town          string `json:"town"`
	County        string `json:"county"`
	Postcode      string `json:"postcode"`
	Country       string `json:"country"`
}

// Name returns the searchable name of the record, preferring the firm name.
func (r SolicitorRecord) Name() string {
	if r.FirmName != "" {
		return r.FirmName
	}
	return r.SolicitorName
}

// AddressSuggestion is one autocomplete hit from the address lookup provider.
type AddressSuggestion struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	URL     string `json:"url"`
}

// Address is a full address object resolved from a suggestion id.
type Address struct {
	Line1      string `json:"line_1"`
	Line2      string `json:"line_2"`
	Line3      string `json:"line_3"`
	TownOrCity string `json:"town_or_city"`
	County     string `json:"county"`
	Country    string `json:"country"`
	Postcode   string `json:"postcode"`
}
