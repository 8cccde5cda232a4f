package lookup

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestAddressService(t *testing.T) {
	httpmock.Activate()
	defer httpmock.Deactivate()

	viper.Set("GETADDRESS_API_KEY", "test-key")

	httpmock.RegisterResponder("GET", "=~^https://api\\.getAddress\\.io/autocomplete/SW1A",
		func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))
			return httpmock.NewBytesResponse(200, []byte(
				`{"suggestions": [{"address": "10 Downing Street, London", "id": "abc123"}]}`)), nil
		},
	)
	httpmock.RegisterResponder("GET", "=~^https://api\\.getAddress\\.io/get/abc123",
		httpmock.NewBytesResponder(200, []byte(
			`{"line_1": "10 Downing Street", "town_or_city": "London", "postcode": "SW1A 2AA"}`)),
	)

	srv := NewAddressService()

	suggestions, err := srv.Autocomplete("SW1A")
	assert.NoError(t, err)
	assert.NotEmpty(t, suggestions["suggestions"])

	address, err := srv.Get("abc123")
	assert.NoError(t, err)
	assert.Equal(t, "10 Downing Street", address["line_1"])
}

func TestAddressServiceRequiresKey(t *testing.T) {
	viper.Set("GETADDRESS_API_KEY", "")

	srv := NewAddressService()
	_, err := srv.Autocomplete("SW1A")
	assert.Error(t, err)
}

func TestCompaniesServiceSearch(t *testing.T) {
	httpmock.Activate()
	defer httpmock.Deactivate()

	viper.Set("COMPANIES_HOUSE_API_KEY", "ch-test-key")

	httpmock.RegisterResponder("GET", "=~^https://api\\.company-information\\.service\\.gov\\.uk/search/companies",
		func(r *http.Request) (*http.Response, error) {
			// key sent as Basic auth username with empty password
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "ch-test-key", user)
			assert.Empty(t, pass)
			assert.Equal(t, "Lendfast", r.URL.Query().Get("q"))
			return httpmock.NewBytesResponse(200, []byte(
				`{"items": [{"title": "LENDFAST HOLDINGS LTD", "company_number": "01234567"}]}`)), nil
		},
	)

	srv := NewCompaniesService()
	data, err := srv.Search("Lendfast")
	assert.NoError(t, err)
	assert.NotEmpty(t, data["items"])
}

func TestCompaniesServiceShareholders(t *testing.T) {
	httpmock.Activate()
	defer httpmock.Deactivate()

	viper.Set("COMPANIES_HOUSE_API_KEY", "ch-test-key")

	httpmock.RegisterResponder("GET",
		"=~/company/01234567/persons-with-significant-control$",
		httpmock.NewBytesResponder(200, []byte(`{
			"items": [
				{"name": "Mr Thomas Hardy", "natures_of_control": ["ownership-of-shares-75-to-100-percent"]},
				{"name": "Mrs Elena Hardy", "natures_of_control": ["ownership-of-shares-25-to-50-percent"]},
				{"name": "Mr Ceased Person", "ceased": true, "natures_of_control": ["ownership-of-shares-25-to-50-percent"]},
				{"name": "Voting Rights Only Ltd", "natures_of_control": ["voting-rights-25-to-50-percent"]}
			]
		}`)),
	)

	srv := NewCompaniesService()
	shareholders, err := srv.Shareholders("01234567")
	assert.NoError(t, err)
	assert.Len(t, shareholders, 3)

	assert.Equal(t, "Thomas Hardy", shareholders[0].Name)
	assert.Equal(t, "75–100", shareholders[0].Percentage)
	assert.Equal(t, "Elena Hardy", shareholders[1].Name)
	assert.Equal(t, "25–50", shareholders[1].Percentage)
	assert.Equal(t, "Voting Rights Only Ltd", shareholders[2].Name)
	assert.Empty(t, shareholders[2].Percentage)
}

func TestExtractPercentage(t *testing.T) {
	cases := []struct {
		natures  []interface{}
		expected string
	}{
		{[]interface{}{"ownership-of-shares-75-to-100-percent"}, "75–100"},
		{[]interface{}{"ownership-of-shares-50-to-75-percent"}, "50–75"},
		{[]interface{}{"ownership-of-shares-25-to-50-percent"}, "25–50"},
		{[]interface{}{"ownership-of-shares-25-to-100-percent"}, "25–100"},
		{[]interface{}{"ownership-of-shares-75-to-100-percent", "ownership-of-shares-25-to-50-percent"}, "75–100"},
		{[]interface{}{"significant-influence-or-control"}, ""},
		{nil, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, ExtractPercentage(c.natures))
	}
}

func TestCleanPersonName(t *testing.T) {
	assert.Equal(t, "Thomas Hardy", CleanPersonName("Mr Thomas Hardy"))
	assert.Equal(t, "Thomas Hardy", CleanPersonName("dr Thomas Hardy"))
	assert.Equal(t, "Hardy Ltd", CleanPersonName("Mrs Hardy Ltd"))
	assert.Empty(t, CleanPersonName(""))
}
