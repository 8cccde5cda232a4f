package crm

import (
	"fmt"

	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils"
)

// Account customertypecode values.
const (
	customerTypeBusiness  = 3
	customerTypeSolicitor = 12
)

// SyncCompany finds or creates the applicant company's account record and
// links it to the opportunity. Returns the account GUID, or "" when the
// application is not on behalf of a company.
func (c *Client) SyncCompany(opportunityID string, payload types.UpdateCompanyPayload) (string, error) {
	if !payload.IsCompany {
		return "", nil
	}

	var accountID string
	if payload.CompanyNumber != "" {
		accountID = c.FindFirst("accounts", "accountid",
			fmt.Sprintf("inh_registrationnumber eq '%s'", utils.EscapeODataString(payload.CompanyNumber)))
	}

	if accountID == "" {
		var err error
		accountID, err = c.Create("/accounts", map[string]interface{}{
			"name":                   payload.CompanyName,
			"inh_registrationnumber": payload.CompanyNumber,
			"customertypecode":       customerTypeBusiness,
		})
		if err != nil {
			return "", fmt.Errorf("creating company account: %w", err)
		}
	}

	err := c.Patch(fmt.Sprintf("/opportunities(%s)", opportunityID), map[string]interface{}{
		"parentaccountid@odata.bind": fmt.Sprintf("/accounts(%s)", accountID),
		"inh_companyname":            payload.CompanyName,
		"inh_registrationnumber":     payload.CompanyNumber,
	})
	if err != nil {
		return "", err
	}
	return accountID, nil
}
