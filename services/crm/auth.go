package crm

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/utils"
)

// tokenCache holds a client-credentials access token until shortly before it
// expires, so every CRM call does not round-trip to the login endpoint.
type tokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

var dynamicsToken tokenCache

// loginBaseURL is swapped out by tests.
var loginBaseURL = "https://login.microsoftonline.com"

// GetAccessToken returns a valid Dynamics access token, fetching a new one
// via the OAuth2 client-credentials grant when the cached token has expired.
func GetAccessToken() (string, error) {
	dynamicsToken.mu.Lock()
	defer dynamicsToken.mu.Unlock()

	if dynamicsToken.token != "" && time.Now().Before(dynamicsToken.expiresAt) {
		return dynamicsToken.token, nil
	}

	conf := config.CRMConfig()

	params := url.Values{}
	params.Set("client_id", conf.ClientID)
	params.Set("client_secret", conf.ClientSecret)
	params.Set("grant_type", "client_credentials")
	params.Set("scope", fmt.Sprintf("%s/.default", conf.InstanceURL))

	res, err := fastshot.NewClient(loginBaseURL).
		Config().SetTimeout(conf.Timeout).
		Header().Add("Content-Type", "application/x-www-form-urlencoded").
		Build().POST(fmt.Sprintf("/%s/oauth2/v2.0/token", conf.TenantID)).
		Body().AsString(params.Encode()).
		Send()
	if err != nil {
		return "", fmt.Errorf("dynamics token request failed: %w", err)
	}

	data, err := utils.ParseJSONResponse(res.RawResponse)
	if err != nil {
		return "", fmt.Errorf("dynamics token error: %w", err)
	}

	token, _ := data["access_token"].(string)
	if token == "" {
		return "", fmt.Errorf("dynamics token response missing access_token")
	}

	expiresIn := 3600.0
	if v, ok := data["expires_in"].(float64); ok {
		expiresIn = v
	}

	dynamicsToken.token = token
	// Refresh a minute early to avoid using a token at the edge of expiry.
	dynamicsToken.expiresAt = time.Now().Add(time.Duration(expiresIn-60) * time.Second)

	return token, nil
}

// resetTokenCache clears the cached token, for tests.
func resetTokenCache() {
	dynamicsToken.mu.Lock()
	defer dynamicsToken.mu.Unlock()
	dynamicsToken.token = ""
	dynamicsToken.expiresAt = time.Time{}
}
