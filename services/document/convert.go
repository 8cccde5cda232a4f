package document

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/utils"
)

// ConverterService turns the generated DOCX application form into a PDF via
// the Cloudmersive conversion API.
type ConverterService struct {
	baseURL string
	apiKey  string
}

// NewConverterService creates a converter from configuration.
func NewConverterService() *ConverterService {
	conf := config.DocumentConfig()
	return &ConverterService{
		baseURL: conf.CloudmersiveBaseURL,
		apiKey:  conf.CloudmersiveAPIKey,
	}
}

// DocxToPDF converts DOCX bytes to PDF bytes. The conversion API takes and
// returns raw octet streams, so this goes through the shared binary HTTP
// client rather than the JSON client stack.
func (s *ConverterService) DocxToPDF(docx []byte) ([]byte, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("document conversion api key not configured")
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/convert/docx/to/pdf", bytes.NewReader(docx))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Apikey", s.apiKey)

	res, err := utils.GetHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("document conversion request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted document: %w", err)
	}
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("document conversion failed with status %d: %s", res.StatusCode, body)
	}
	return body, nil
}
