package crm

import (
	"fmt"

	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils"
)

// ErrMissingSRANumber is returned when a solicitor sync is attempted without
// an SRA number to key the firm on.
var ErrMissingSRANumber = fmt.Errorf("missing SRA number")

// SyncSolicitor finds or creates the solicitor firm account (keyed by SRA
// number) and the acting solicitor contact (keyed by email), and links both
// to the opportunity. Returns the firm and contact GUIDs.
func (c *Client) SyncSolicitor(opportunityID string, payload types.UpdateSolicitorPayload) (string, string, error) {
	if payload.SRANumber == "" {
		return "", "", ErrMissingSRANumber
	}

	firmID := c.FindFirst("accounts", "accountid",
		fmt.Sprintf("inh_sranumber eq '%s'", utils.EscapeODataString(payload.SRANumber)))
	if firmID == "" {
		var err error
		firmID, err = c.Create("/accounts", map[string]interface{}{
			"name":                     payload.SolicitorName,
			"inh_sranumber":            payload.SRANumber,
			"customertypecode":         customerTypeSolicitor,
			"address1_line1":           payload.SolicitorAddress.Line1,
			"address1_line2":           payload.SolicitorAddress.Line2,
			"address1_city":            payload.SolicitorAddress.Town,
			"address1_stateorprovince": payload.SolicitorAddress.County,
			"address1_postalcode":      payload.SolicitorAddress.Postcode,
			"address1_country":         payload.SolicitorAddress.Country,
		})
		if err != nil {
			return "", "", fmt.Errorf("creating solicitor firm: %w", err)
		}
	}

	err := c.Patch(fmt.Sprintf("/opportunities(%s)", opportunityID), map[string]interface{}{
		"inh_ClientSolicitorFirm@odata.bind": fmt.Sprintf("/accounts(%s)", firmID),
	})
	if err != nil {
		return "", "", err
	}

	var contactID string
	if payload.SolicitorContactEmail != "" {
		contactID = c.FindFirst("contacts", "contactid",
			fmt.Sprintf("customertypecode eq %d and emailaddress1 eq '%s'",
				customerTypeSolicitor, utils.EscapeODataString(payload.SolicitorContactEmail)))
	}
	if contactID == "" {
		firstName, lastName := utils.SplitName(payload.SolicitorActing)
		contactID, err = c.Create("/contacts", map[string]interface{}{
			"firstname":        firstName,
			"lastname":         lastName,
			"emailaddress1":    payload.SolicitorContactEmail,
			"telephone1":       payload.SolicitorContactNumber,
			"customertypecode": customerTypeSolicitor,
			"parentcustomerid_account@odata.bind": fmt.Sprintf("/accounts(%s)", firmID),
		})
		if err != nil {
			return "", "", fmt.Errorf("creating acting solicitor contact: %w", err)
		}
	}

	err = c.Patch(fmt.Sprintf("/opportunities(%s)", opportunityID), map[string]interface{}{
		"inh_ClientSolicitorActing@odata.bind": fmt.Sprintf("/contacts(%s)", contactID),
	})
	if err != nil {
		return "", "", err
	}
	return firmID, contactID, nil
}
