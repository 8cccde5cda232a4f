package lookup

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	fastshot "github.com/opus-domini/fast-shot"
	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils"
)

// CompaniesService proxies the Companies House public data API.
type CompaniesService struct {
	baseURL string
	apiKey  string
}

// NewCompaniesService creates a Companies House lookup service from
// configuration.
func NewCompaniesService() *CompaniesService {
	conf := config.LookupConfig()
	return &CompaniesService{
		baseURL: conf.CompaniesHouseURL,
		apiKey:  conf.CompaniesHouseAPIKey,
	}
}

// Search searches the register by company name or number.
func (s *CompaniesService) Search(query string) (map[string]interface{}, error) {
	return s.get(fmt.Sprintf("/search/companies?q=%s", url.QueryEscape(query)))
}

// Company fetches the full profile for a registration number.
func (s *CompaniesService) Company(number string) (map[string]interface{}, error) {
	return s.get(fmt.Sprintf("/company/%s", url.PathEscape(number)))
}

// PersonsWithSignificantControl fetches a company's PSC register entries.
func (s *CompaniesService) PersonsWithSignificantControl(number string) (map[string]interface{}, error) {
	return s.get(fmt.Sprintf("/company/%s/persons-with-significant-control", url.PathEscape(number)))
}

// Shareholders converts a PSC response into shareholder rows, dropping
// ceased entries and mapping ownership bands to disclosure buckets.
func (s *CompaniesService) Shareholders(number string) ([]types.Shareholder, error) {
	data, err := s.PersonsWithSignificantControl(number)
	if err != nil {
		return nil, err
	}

	items, _ := data["items"].([]interface{})
	shareholders := make([]types.Shareholder, 0, len(items))
	for _, item := range items {
		psc, _ := item.(map[string]interface{})
		if psc == nil {
			continue
		}
		if ceased, _ := psc["ceased"].(bool); ceased {
			continue
		}
		name, _ := psc["name"].(string)
		shareholders = append(shareholders, types.Shareholder{
			Name:       CleanPersonName(name),
			Percentage: ExtractPercentage(psc["natures_of_control"]),
		})
	}
	return shareholders, nil
}

func (s *CompaniesService) get(path string) (map[string]interface{}, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("companies house api key not configured")
	}

	// Companies House uses the API key as a Basic auth username with an
	// empty password.
	auth := base64.StdEncoding.EncodeToString([]byte(s.apiKey + ":"))

	res, err := fastshot.NewClient(s.baseURL).
		Config().SetTimeout(config.LookupConfig().Timeout).
		Header().Add("Authorization", "Basic "+auth).
		Build().GET(path).
		Send()
	if err != nil {
		return nil, fmt.Errorf("companies house lookup failed: %w", err)
	}
	return utils.ParseJSONResponse(res.RawResponse)
}

// ExtractPercentage maps PSC natures-of-control codes to the ownership
// disclosure bucket shown on the form. Unrecognised codes yield "".
func ExtractPercentage(natures interface{}) string {
	list, _ := natures.([]interface{})
	codes := make(map[string]bool, len(list))
	for _, n := range list {
		if code, ok := n.(string); ok {
			codes[code] = true
		}
	}

	switch {
	case codes["ownership-of-shares-75-to-100-percent"]:
		return "75–100"
	case codes["ownership-of-shares-50-to-75-percent"]:
		return "50–75"
	case codes["ownership-of-shares-25-to-50-percent"]:
		return "25–50"
	case codes["ownership-of-shares-25-to-100-percent"]:
		return "25–100"
	}
	return ""
}

var honorificPattern = regexp.MustCompile(`(?i)^(Mr|Mrs|Ms|Miss|Dr)\s+`)

// CleanPersonName strips a leading honorific from a PSC name.
func CleanPersonName(name string) string {
	return strings.TrimSpace(honorificPattern.ReplaceAllString(name, ""))
}
