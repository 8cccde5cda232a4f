package crm

import (
	"fmt"
	"strings"

	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils"
	"github.com/lendfast/appform/utils/logger"
)

// SecurityResult reports the outcome of one security upsert.
type SecurityResult struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
	Updated bool   `json:"updated"`
}

// SyncSecurities replaces the set of security records linked to an
// opportunity. Existing links are cleared first so removed securities fall
// away, then each submitted security is matched against the CRM by postcode,
// street and property type and updated or created.
func (c *Client) SyncSecurities(opportunityID string, securities []types.Security) ([]SecurityResult, error) {
	if err := c.clearSecurityLinks(opportunityID); err != nil {
		return nil, err
	}

	results := make([]SecurityResult, 0, len(securities))
	for i, sec := range securities {
		result, err := c.upsertSecurity(opportunityID, sec)
		if err != nil {
			return nil, fmt.Errorf("security %d: %w", i+1, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *Client) clearSecurityLinks(opportunityID string) error {
	ids, err := c.ListIDs("inh_securities", "inh_securityid",
		fmt.Sprintf("_inh_opportunity_value eq %s", opportunityID))
	if err != nil {
		return fmt.Errorf("listing linked securities: %w", err)
	}

	logger.Infof("clearing %d securities linked to opportunity %s", len(ids), opportunityID)
	for _, id := range ids {
		err := c.Patch(fmt.Sprintf("/inh_securities(%s)", id), map[string]interface{}{
			"inh_Opportunity@odata.bind": nil,
		})
		if err != nil {
			logger.Errorf("failed to clear security %s: %v", id, err)
		}
	}
	return nil
}

func (c *Client) upsertSecurity(opportunityID string, sec types.Security) (SecurityResult, error) {
	var firstPurpose string
	if len(sec.LoanPurpose) > 0 {
		firstPurpose = sec.LoanPurpose[0]
	}

	payload := map[string]interface{}{
		"inh_street1":       sec.Line1,
		"inh_street2":       sec.Line2,
		"inh_street3":       sec.Line3,
		"inh_city":          sec.Town,
		"inh_stateprovince": sec.County,
		"inh_zippostalcode": sec.Postcode,
		"inh_countryregion": sec.Country,

		"inh_securitytype": safeOption(types.PropertyTypeOptions, sec.PropertyType),
		"inh_loanpurpose":  safeOption(types.LoanPurposeOptions, firstPurpose),
		"inh_chargetype":   safeOption(types.ChargeTypeOptions, sec.ChargeType),
		"inh_tenuretype":   safeOption(types.TenureOptions, sec.Tenure),

		"inh_securityvalue":      moneyOrNil(sec.EstimatedValue),
		"inh_purchaseprice":      moneyOrNil(sec.PurchasePrice),
		"inh_outstandingbalance": moneyOrNil(sec.OutstandingBalance),
		"inh_yearsleftonlease":   intPrefixOrNil(sec.UnexpiredTerm),

		"inh_Opportunity@odata.bind": fmt.Sprintf("/opportunities(%s)", strings.ToLower(opportunityID)),
	}

	existingID := c.findExistingSecurity(sec)
	if existingID != "" {
		if err := c.Patch(fmt.Sprintf("/inh_securities(%s)", existingID), payload); err != nil {
			return SecurityResult{}, err
		}
		return SecurityResult{ID: existingID, Updated: true}, nil
	}

	newID, err := c.Create("/inh_securities", payload)
	if err != nil {
		return SecurityResult{}, err
	}
	return SecurityResult{ID: newID, Created: true}, nil
}

// findExistingSecurity matches a submitted security against the CRM by
// postcode, first street line and property type, using whichever of the
// three are present.
func (c *Client) findExistingSecurity(sec types.Security) string {
	var conditions []string
	if sec.Postcode != "" {
		conditions = append(conditions,
			fmt.Sprintf("inh_zippostalcode eq '%s'", utils.EscapeODataString(sec.Postcode)))
	}
	if sec.Line1 != "" {
		conditions = append(conditions,
			fmt.Sprintf("inh_street1 eq '%s'", utils.EscapeODataString(sec.Line1)))
	}
	if code, ok := types.PropertyTypeOptions.Code(sec.PropertyType); ok {
		conditions = append(conditions, fmt.Sprintf("inh_securitytype eq %d", code))
	}
	if len(conditions) == 0 {
		return ""
	}
	return c.FindFirst("inh_securities", "inh_securityid", strings.Join(conditions, " and "))
}

// moneyOrNil strips currency formatting from an amount and returns it as a
// float, or nil when the field is empty or unparseable.
func moneyOrNil(amount string) interface{} {
	value, ok := utils.ParseAmount(amount)
	if !ok {
		return nil
	}
	f, _ := value.Float64()
	return f
}

// intPrefixOrNil parses the leading integer of a value like "85 years", or
// nil when absent.
func intPrefixOrNil(s string) interface{} {
	n, ok := utils.ParseIntPrefix(s)
	if !ok {
		return nil
	}
	return n
}
