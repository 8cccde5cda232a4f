package crm

import (
	"fmt"

	"github.com/lendfast/appform/types"
)

// SyncDetails patches the scalar loan fields onto the opportunity. Empty
// fields are sent as null so they clear rather than persist stale values.
func (c *Client) SyncDetails(opportunityID string, payload types.UpdateDetailsPayload) error {
	return c.Patch(fmt.Sprintf("/opportunities(%s)", opportunityID), map[string]interface{}{
		"inh_requestedloanamount":     moneyOrNil(payload.LoanAmount),
		"inh_loanterm":                intPrefixOrNil(payload.LoanTerm),
		"inh_requestedcompletiondate": nullIfEmpty(payload.FundsRequiredBy),
		"inh_sourceofdepositfunds":    nullIfEmpty(payload.SourceOfDeposit),
		"inh_capitalraiseloanpurpose": nullIfEmpty(payload.LoanPurposeDetail),
		"inh_exitstrategy":            nullIfEmpty(payload.ExitStrategy),
	})
}

// UpdateOpportunity patches an arbitrary payload onto the opportunity. Used
// by the CRM passthrough endpoint the button action and submit flow share.
func (c *Client) UpdateOpportunity(opportunityID string, payload map[string]interface{}) error {
	return c.Patch(fmt.Sprintf("/opportunities(%s)", opportunityID), payload)
}
