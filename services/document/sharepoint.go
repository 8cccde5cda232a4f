package document

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/utils"
	"github.com/lendfast/appform/utils/logger"
)

// ArchiveService uploads the converted application PDF into the
// opportunity's SharePoint folder through the Microsoft Graph drive API.
type ArchiveService struct {
	conf *config.DocumentConfiguration
}

// NewArchiveService creates an archive service from configuration.
func NewArchiveService() *ArchiveService {
	return &ArchiveService{conf: config.DocumentConfig()}
}

// ArchiveFileName is the fixed name the signed form is stored under.
const ArchiveFileName = "Application_Form.pdf"

var graphToken struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// graphLoginBaseURL is swapped out by tests.
var graphLoginBaseURL = "https://login.microsoftonline.com"

func (s *ArchiveService) accessToken() (string, error) {
	graphToken.mu.Lock()
	defer graphToken.mu.Unlock()

	if graphToken.token != "" && time.Now().Before(graphToken.expiresAt) {
		return graphToken.token, nil
	}

	params := url.Values{}
	params.Set("grant_type", "client_credentials")
	params.Set("client_id", s.conf.SharePointClientID)
	params.Set("client_secret", s.conf.SharePointClientSecret)
	params.Set("scope", "https://graph.microsoft.com/.default")

	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", graphLoginBaseURL, s.conf.SharePointTenantID)
	res, err := utils.GetHTTPClient().PostForm(tokenURL, params)
	if err != nil {
		return "", fmt.Errorf("graph token request failed: %w", err)
	}

	data, err := utils.ParseJSONResponse(res)
	if err != nil {
		return "", fmt.Errorf("graph token error: %w", err)
	}
	token, _ := data["access_token"].(string)
	if token == "" {
		return "", fmt.Errorf("graph token response missing access_token")
	}

	expiresIn := 3600.0
	if v, ok := data["expires_in"].(float64); ok {
		expiresIn = v
	}
	graphToken.token = token
	graphToken.expiresAt = time.Now().Add(time.Duration(expiresIn-60) * time.Second)

	return token, nil
}

// ResolveFolderPath turns the folder link stored on the opportunity into a
// drive-relative path. The link points into the site's document library, so
// the site root and library prefix are stripped off.
func (s *ArchiveService) ResolveFolderPath(folderLink string) (string, error) {
	if folderLink == "" {
		return "", fmt.Errorf("opportunity has no folder link")
	}

	parsed, err := url.Parse(folderLink)
	if err != nil {
		return "", fmt.Errorf("invalid folder link %q: %w", folderLink, err)
	}

	folderPath := parsed.Path
	if unescaped, err := url.PathUnescape(folderPath); err == nil {
		folderPath = unescaped
	}
	folderPath = strings.TrimSpace(folderPath)

	siteRoot := "/sites/" + s.conf.SharePointSiteName
	folderPath = strings.TrimPrefix(folderPath, siteRoot)
	folderPath = strings.TrimPrefix(folderPath, "/Shared Documents/opportunity")
	if !strings.HasPrefix(folderPath, "/") {
		folderPath = "/" + folderPath
	}
	return folderPath, nil
}

// Upload puts the PDF into the given drive folder, overwriting any previous
// copy of the form.
func (s *ArchiveService) Upload(folderPath string, pdf []byte) error {
	token, err := s.accessToken()
	if err != nil {
		return err
	}

	// The site id env value is the comma-joined triple Graph returns; the
	// middle element is the site GUID the drive API wants.
	siteID := s.conf.SharePointSiteID
	if parts := strings.Split(siteID, ","); len(parts) >= 2 {
		siteID = parts[1]
	}

	uploadURL := fmt.Sprintf("%s/v1.0/sites/%s/drives/%s/root:%s/%s:/content",
		s.conf.GraphBaseURL, siteID, s.conf.SharePointDriveID,
		utils.EncodeDrivePath(folderPath), ArchiveFileName)

	req, err := http.NewRequest(http.MethodPut, uploadURL, bytes.NewReader(pdf))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/pdf")

	res, err := utils.GetHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("sharepoint upload failed: %w", err)
	}
	if _, err := utils.ParseJSONResponse(res); err != nil {
		return fmt.Errorf("sharepoint upload failed: %w", err)
	}

	logger.Infof("archived %s to SharePoint folder %s", ArchiveFileName, folderPath)
	return nil
}

// resetGraphTokenCache clears the cached Graph token, for tests.
func resetGraphTokenCache() {
	graphToken.mu.Lock()
	defer graphToken.mu.Unlock()
	graphToken.token = ""
	graphToken.expiresAt = time.Time{}
}
