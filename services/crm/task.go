package crm

import (
	"fmt"
)

const (
	submissionTaskSubject     = "Application form completed and saved"
	submissionTaskDescription = "The customer has submitted the application form. A copy has been stored in SharePoint."
)

// CreateSubmissionTask creates a CRM task on the opportunity, assigned to the
// opportunity's owner, recording that the application form was submitted.
func (c *Client) CreateSubmissionTask(opportunityID string) error {
	data, err := c.Get(fmt.Sprintf("/opportunities(%s)?$select=_ownerid_value", opportunityID))
	if err != nil {
		return fmt.Errorf("fetching opportunity owner: %w", err)
	}

	ownerID, _ := data["_ownerid_value"].(string)
	if ownerID == "" {
		return fmt.Errorf("opportunity %s has no owner", opportunityID)
	}

	_, err = c.Create("/tasks", map[string]interface{}{
		"subject":     submissionTaskSubject,
		"description": submissionTaskDescription,
		"regardingobjectid_opportunity@odata.bind": fmt.Sprintf("/opportunities(%s)", opportunityID),
		"ownerid@odata.bind":                       fmt.Sprintf("/systemusers(%s)", ownerID),
	})
	return err
}

// OpportunityFolderLink reads the SharePoint folder link stored on the
// opportunity. Used to resolve the archive destination for the signed form.
func (c *Client) OpportunityFolderLink(opportunityID string) (string, error) {
	data, err := c.Get(fmt.Sprintf("/opportunities(%s)?$select=inh_folderlink", opportunityID))
	if err != nil {
		return "", fmt.Errorf("fetching opportunity folder link: %w", err)
	}
	link, _ := data["inh_folderlink"].(string)
	return link, nil
}
