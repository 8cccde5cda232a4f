package lookup

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfast/appform/utils/test"
)

func setupLookupTest() *gin.Engine {
	viper.Set("GETADDRESS_API_KEY", "test-address-key")
	viper.Set("COMPANIES_HOUSE_API_KEY", "test-ch-key")

	ctrl := NewController()
	router := gin.New()
	router.GET("lookup-address", ctrl.LookupAddress)
	router.GET("search", ctrl.SearchCompanies)
	router.GET("company/:number", ctrl.GetCompany)
	router.GET("company/:number/persons-with-significant-control", ctrl.GetCompanyPSC)
	router.GET("solicitors/search", ctrl.SearchSolicitors)
	return router
}

func TestLookupAddress(t *testing.T) {
	httpmock.Activate()
	defer httpmock.Deactivate()
	router := setupLookupTest()

	httpmock.RegisterResponder("GET", `=~^https://api\.getAddress\.io/autocomplete/SW1A`,
		httpmock.NewStringResponder(200, `{"suggestions": [{"address": "10 Downing Street, London", "id": "abc123"}]}`),
	)

	res, err := test.PerformRequest(t, "GET", "/lookup-address?term=SW1A", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "10 Downing Street")
}

func TestLookupAddressRequiresParam(t *testing.T) {
	router := setupLookupTest()

	res, err := test.PerformRequest(t, "GET", "/lookup-address", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Must provide either ?term= or ?id=")
}

func TestSearchCompanies(t *testing.T) {
	httpmock.Activate()
	defer httpmock.Deactivate()
	router := setupLookupTest()

	httpmock.RegisterResponder("GET",
		`=~^https://api\.company-information\.service\.gov\.uk/search/companies`,
		httpmock.NewStringResponder(200, `{"items": [{"title": "ACME HOLDINGS LTD", "company_number": "01234567"}]}`),
	)

	res, err := test.PerformRequest(t, "GET", "/search?q=acme", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "ACME HOLDINGS LTD")
}

func TestSearchCompaniesRequiresQuery(t *testing.T) {
	router := setupLookupTest()

	res, err := test.PerformRequest(t, "GET", "/search", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Missing ?q param")
}

func TestGetCompanyPSC(t *testing.T) {
	httpmock.Activate()
	defer httpmock.Deactivate()
	router := setupLookupTest()

	httpmock.RegisterResponder("GET",
		`=~^https://api\.company-information\.service\.gov\.uk/company/01234567/persons-with-significant-control`,
		httpmock.NewStringResponder(200, `{
			"items": [
				{"name": "Mr Arthur Pemberton", "natures_of_control": ["ownership-of-shares-75-to-100-percent"]},
				{"name": "Mrs Edith Hale", "natures_of_control": ["ownership-of-shares-25-to-50-percent"], "ceased": true}
			]
		}`),
	)

	res, err := test.PerformRequest(t, "GET", "/company/01234567/persons-with-significant-control", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Code)
	// Raw items keep the honorific; bucketed shareholders drop it and the
	// ceased entry.
	assert.Contains(t, res.Body.String(), "Mr Arthur Pemberton")
	assert.Contains(t, res.Body.String(), "Arthur Pemberton")
	assert.Contains(t, res.Body.String(), "75–100")
	assert.NotContains(t, res.Body.String(), `"Edith Hale"`)
}

func TestSearchSolicitorsRequiresParam(t *testing.T) {
	router := setupLookupTest()

	res, err := test.PerformRequest(t, "GET", "/solicitors/search", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Must provide either ?name= or ?sra=")
}

func TestSearchSolicitorsUnknownSRA(t *testing.T) {
	router := setupLookupTest()

	res, err := test.PerformRequest(t, "GET", "/solicitors/search?sra=0000000", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), "No firm found for SRA number")
}
