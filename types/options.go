package types

import "strings"

// OptionSet maps a displayed label to its CRM option-set value. One table per
// domain concept, shared by the form layer and the CRM sync layer so the
// labels the wizard renders and the codes the sync sends cannot drift.
type OptionSet map[string]int

// Code returns the option value for a label, matching case-insensitively.
// The second return is false when the label has no known code.
func (o OptionSet) Code(label string) (int, bool) {
	if label == "" {
		return 0, false
	}
	if v, ok := o[label]; ok {
		return v, true
	}
	for k, v := range o {
		if strings.EqualFold(k, label) {
			return v, true
		}
	}
	return 0, false
}

// Labels returns the labels of the option set, for rendering as choices.
func (o OptionSet) Labels() []string {
	labels := make([]string, 0, len(o))
	for k := range o {
		labels = append(labels, k)
	}
	return labels
}

var PropertyTypeOptions = OptionSet{
	"Semi-detached":   826430000,
	"Detached":        826430001,
	"Terraced":        826430002,
	"Bungalow":        826430003,
	"Flat":            826430004,
	"Maisonette":      826430005,
	"Studio flat":     826430006,
	"Commercial":      826430007,
	"Semi-commercial": 826430008,
	"Land":            826430009,
	"HMO":             826430010,
	"Other":           826430011,
}

var LoanPurposeOptions = OptionSet{
	"Purchase":           826430000,
	"Capital Raise":      826430001,
	"Refinance":          826430002,
	"Cash-Out Refinance": 826430003,
	"Debt Consolidation": 826430004,
	"Refurbishment":      826430005,
	"Development":        826430006,
}

var ChargeTypeOptions = OptionSet{
	"1st": 826430000,
	"2nd": 826430001,
}

var TenureOptions = OptionSet{
	"Freehold":  826430000,
	"Leasehold": 826430001,
}

var ResidentialStatusOptions = OptionSet{
	"Owner":          826430000,
	"Tenant":         826430001,
	"With relatives": 826430002,
	"Other":          826430003,
}

// MaritalStatusOptions uses the CRM's stock family-status codes 1-4 with
// custom values for the remainder.
var MaritalStatusOptions = OptionSet{
	"Single":               1,
	"Married":              2,
	"Divorced":             3,
	"Widowed":              4,
	"Separated":            826430001,
	"Domestic partnership": 826430002,
	"Other":                826430003,
	"Prefer not to say":    826430004,
}

var ExitStrategyOptions = OptionSet{
	"Sale of security":         826430000,
	"Sale of another property": 826430001,
	"Refinance":                826430002,
	"Other":                    826430003,
}
