package crm

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	fastshot "github.com/opus-domini/fast-shot"
	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/utils"
	"github.com/lendfast/appform/utils/logger"
)

// Client wraps the Dynamics 365 Web API. All entity sync services go through
// it so authentication, versioning and response parsing live in one place.
type Client struct {
	instanceURL string
	apiVersion  string
}

// NewClient creates a Dynamics Web API client from configuration.
func NewClient() *Client {
	conf := config.CRMConfig()
	return &Client{
		instanceURL: strings.TrimRight(conf.InstanceURL, "/"),
		apiVersion:  conf.APIVersion,
	}
}

func (c *Client) apiPath(path string) string {
	return fmt.Sprintf("/api/data/%s%s", c.apiVersion, path)
}

// Get performs a GET against the Web API and returns the decoded body.
func (c *Client) Get(path string) (map[string]interface{}, error) {
	token, err := GetAccessToken()
	if err != nil {
		return nil, err
	}

	res, err := fastshot.NewClient(c.instanceURL).
		Config().SetTimeout(config.CRMConfig().Timeout).
		Auth().BearerToken(token).
		Build().GET(c.apiPath(path)).
		Send()
	if err != nil {
		return nil, fmt.Errorf("crm GET %s failed: %w", path, err)
	}
	return utils.ParseJSONResponse(res.RawResponse)
}

// Patch performs a PATCH with an If-Match wildcard, the Web API's idiom for
// updating an existing record regardless of version.
func (c *Client) Patch(path string, payload interface{}) error {
	token, err := GetAccessToken()
	if err != nil {
		return err
	}

	res, err := fastshot.NewClient(c.instanceURL).
		Config().SetTimeout(config.CRMConfig().Timeout).
		Auth().BearerToken(token).
		Header().Add("Content-Type", "application/json").
		Header().Add("If-Match", "*").
		Build().PATCH(c.apiPath(path)).
		Body().AsJSON(payload).
		Send()
	if err != nil {
		return fmt.Errorf("crm PATCH %s failed: %w", path, err)
	}
	if _, err := utils.ParseJSONResponse(res.RawResponse); err != nil {
		return fmt.Errorf("crm PATCH %s failed: %w", path, err)
	}
	return nil
}

var entityIDPattern = regexp.MustCompile(`\(([^)]+)\)`)

// Create performs a POST and returns the new record's GUID, parsed from the
// OData-EntityId response header.
func (c *Client) Create(path string, payload interface{}) (string, error) {
	token, err := GetAccessToken()
	if err != nil {
		return "", err
	}

	res, err := fastshot.NewClient(c.instanceURL).
		Config().SetTimeout(config.CRMConfig().Timeout).
		Auth().BearerToken(token).
		Header().Add("Content-Type", "application/json").
		Build().POST(c.apiPath(path)).
		Body().AsJSON(payload).
		Send()
	if err != nil {
		return "", fmt.Errorf("crm POST %s failed: %w", path, err)
	}

	entityURI := res.RawResponse.Header.Get("OData-EntityId")
	if _, err := utils.ParseJSONResponse(res.RawResponse); err != nil {
		return "", fmt.Errorf("crm POST %s failed: %w", path, err)
	}

	match := entityIDPattern.FindStringSubmatch(entityURI)
	if len(match) < 2 {
		return "", fmt.Errorf("crm POST %s returned no entity id", path)
	}
	return match[1], nil
}

// FindFirst queries an entity set with a filter and returns the requested id
// attribute of the first match. A failed or empty search is treated as "not
// found" so callers fall through to creating a new record.
func (c *Client) FindFirst(entitySet, idAttribute, filter string) string {
	path := fmt.Sprintf("/%s?$select=%s&$filter=%s", entitySet, idAttribute, url.QueryEscape(filter))

	data, err := c.Get(path)
	if err != nil {
		logger.Warnf("CRM search on %s failed, treating as not found: %v", entitySet, err)
		return ""
	}

	values, _ := data["value"].([]interface{})
	if len(values) == 0 {
		return ""
	}
	first, _ := values[0].(map[string]interface{})
	id, _ := first[idAttribute].(string)
	return id
}

// ListIDs queries an entity set with a filter and returns the id attribute of
// every match.
func (c *Client) ListIDs(entitySet, idAttribute, filter string) ([]string, error) {
	path := fmt.Sprintf("/%s?$select=%s&$filter=%s", entitySet, idAttribute, url.QueryEscape(filter))

	data, err := c.Get(path)
	if err != nil {
		return nil, err
	}

	values, _ := data["value"].([]interface{})
	ids := make([]string, 0, len(values))
	for _, v := range values {
		record, _ := v.(map[string]interface{})
		if id, _ := record[idAttribute].(string); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
