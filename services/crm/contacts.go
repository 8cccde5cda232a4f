package crm

import (
	"fmt"

	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils"
	"github.com/lendfast/appform/utils/logger"
)

// maxOpportunityApplicants is the number of applicant slots on the
// opportunity record.
const maxOpportunityApplicants = 5

// SyncContacts upserts a contact per applicant and links the resulting
// records to the opportunity's applicant slots. Returns the contact GUIDs in
// applicant order.
func (c *Client) SyncContacts(opportunityID string, applicants []types.Applicant) ([]string, error) {
	if len(applicants) > maxOpportunityApplicants {
		applicants = applicants[:maxOpportunityApplicants]
	}

	contactIDs := make([]string, 0, len(applicants))
	for i, applicant := range applicants {
		guid, err := c.upsertContact(applicant)
		if err != nil {
			return nil, fmt.Errorf("applicant %d: %w", i+1, err)
		}
		if guid != "" {
			contactIDs = append(contactIDs, guid)
		}
	}

	payload := map[string]interface{}{
		"inh_numberofapplicants": len(applicants),
	}
	slots := []string{
		"parentcontactid@odata.bind",
		"inh_Applicant2Contact@odata.bind",
		"inh_Applicant3Contact@odata.bind",
		"inh_Applicant4Contact@odata.bind",
		"inh_Applicant5Contact@odata.bind",
	}
	for i, slot := range slots {
		if i < len(contactIDs) {
			payload[slot] = fmt.Sprintf("/contacts(%s)", contactIDs[i])
		} else {
			payload[slot] = nil
		}
	}

	if err := c.Patch(fmt.Sprintf("/opportunities(%s)", opportunityID), payload); err != nil {
		return nil, err
	}
	return contactIDs, nil
}

// upsertContact updates the matching CRM contact or creates a new one, and
// returns its GUID.
func (c *Client) upsertContact(applicant types.Applicant) (string, error) {
	existingID := c.findExistingContact(applicant)

	payload := map[string]interface{}{
		"firstname":                      applicant.FirstName,
		"lastname":                       applicant.LastName,
		"salutation":                     applicant.Salutation,
		"emailaddress1":                  applicant.Email,
		"mobilephone":                    applicant.MobilePhone,
		"telephone1":                     applicant.OtherPhone,
		"inh_dateofbirth":                nullIfEmpty(applicant.DOB),
		"familystatuscode":               safeOption(types.MaritalStatusOptions, applicant.MaritalStatus),
		"inh_permanentrighttoreside":     applicant.PermanentRightToReside,
		"address1_line1":                 applicant.Address1Line1,
		"address1_line2":                 applicant.Address1Line2,
		"address1_line3":                 applicant.Address1Line3,
		"address1_city":                  applicant.Address1Town,
		"address1_postalcode":            applicant.Address1Postcode,
		"address1_country":               applicant.Address1Country,
		"inh_address1ataddresssince":     nullIfEmpty(applicant.Address1AtSince),
		"inh_address1residentialstatus":  safeOption(types.ResidentialStatusOptions, applicant.Address1ResidentialStatus),
	}

	if countryID := c.findReferenceRecord("inh_countries", "inh_countryid", applicant.CountryOfBirth); countryID != "" {
		payload["inh_CountryOfBirth@odata.bind"] = fmt.Sprintf("/inh_countries(%s)", countryID)
	}
	if nationalityID := c.findReferenceRecord("inh_nationalities", "inh_nationalityid", applicant.Nationality); nationalityID != "" {
		payload["inh_Nationality@odata.bind"] = fmt.Sprintf("/inh_nationalities(%s)", nationalityID)
	}

	if existingID != "" {
		if err := c.Patch(fmt.Sprintf("/contacts(%s)", existingID), payload); err != nil {
			return "", err
		}
		return existingID, nil
	}
	return c.Create("/contacts", payload)
}

// findExistingContact looks up a contact by progressively weaker identity
// checks: name plus postcode, name plus mobile, name plus email. Any match
// wins.
func (c *Client) findExistingContact(applicant types.Applicant) string {
	first := utils.EscapeODataString(applicant.FirstName)
	last := utils.EscapeODataString(applicant.LastName)

	var conditions []string
	if applicant.FirstName != "" && applicant.LastName != "" && applicant.Address1Postcode != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(firstname eq '%s' and lastname eq '%s' and address1_postalcode eq '%s')",
			first, last, utils.EscapeODataString(applicant.Address1Postcode)))
	}
	if applicant.FirstName != "" && applicant.LastName != "" && applicant.MobilePhone != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(firstname eq '%s' and lastname eq '%s' and mobilephone eq '%s')",
			first, last, utils.EscapeODataString(applicant.MobilePhone)))
	}
	if applicant.FirstName != "" && applicant.LastName != "" && applicant.Email != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(firstname eq '%s' and lastname eq '%s' and emailaddress1 eq '%s')",
			first, last, utils.EscapeODataString(applicant.Email)))
	}
	if len(conditions) == 0 {
		logger.Warnf("no usable identity fields for applicant %s %s, skipping contact search",
			applicant.FirstName, applicant.LastName)
		return ""
	}

	filter := conditions[0]
	for _, cond := range conditions[1:] {
		filter += " or " + cond
	}
	return c.FindFirst("contacts", "contactid", filter)
}

// findReferenceRecord resolves a reference entity (country, nationality) by
// name. Missing values resolve to "" and the lookup binding is omitted.
func (c *Client) findReferenceRecord(entitySet, idAttribute, name string) string {
	if name == "" {
		return ""
	}
	filter := fmt.Sprintf("inh_name eq '%s'", utils.EscapeODataString(name))
	return c.FindFirst(entitySet, idAttribute, filter)
}

// safeOption maps a display label to its option-set code, or nil when the
// label is absent or unmapped so the CRM field is cleared rather than
// rejected.
func safeOption(set types.OptionSet, label string) interface{} {
	if label == "" {
		return nil
	}
	code, ok := set.Code(label)
	if !ok {
		logger.Warnf("unmapped option label %q, sending null", label)
		return nil
	}
	return code
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
