package lookup

import (
	"fmt"
	"net/url"

	fastshot "github.com/opus-domini/fast-shot"
	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/utils"
)

// AddressService proxies the getAddress.io lookup API so the key never
// reaches the browser.
type AddressService struct {
	baseURL string
	apiKey  string
}

// NewAddressService creates an address lookup service from configuration.
func NewAddressService() *AddressService {
	conf := config.LookupConfig()
	return &AddressService{
		baseURL: conf.GetAddressBaseURL,
		apiKey:  conf.GetAddressAPIKey,
	}
}

// Autocomplete returns address suggestions for a partial term.
func (s *AddressService) Autocomplete(term string) (map[string]interface{}, error) {
	return s.get(fmt.Sprintf("/autocomplete/%s", url.PathEscape(term)))
}

// Get resolves a suggestion id to a full address.
func (s *AddressService) Get(id string) (map[string]interface{}, error) {
	return s.get(fmt.Sprintf("/get/%s", url.PathEscape(id)))
}

func (s *AddressService) get(path string) (map[string]interface{}, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("address lookup api key not configured")
	}

	res, err := fastshot.NewClient(s.baseURL).
		Config().SetTimeout(config.LookupConfig().Timeout).
		Build().GET(fmt.Sprintf("%s?api-key=%s", path, url.QueryEscape(s.apiKey))).
		Send()
	if err != nil {
		return nil, fmt.Errorf("address lookup failed: %w", err)
	}
	return utils.ParseJSONResponse(res.RawResponse)
}
