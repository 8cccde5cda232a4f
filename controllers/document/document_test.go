package document

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfast/appform/utils"
)

func setupDocumentTest() *gin.Engine {
	viper.Set("CLOUDMERSIVE_API_KEY", "test-convert-key")

	ctrl := NewController()
	router := gin.New()
	router.POST("download-pdf", ctrl.DownloadPDF)
	router.POST("save-pdf/:opportunityId", ctrl.SavePDF)
	return router
}

func performUpload(t *testing.T, router *gin.Engine, path string, file []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "application.docx")
	require.NoError(t, err)
	_, err = part.Write(file)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("POST", path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestDownloadPDF(t *testing.T) {
	httpmock.ActivateNonDefault(utils.GetHTTPClient())
	defer httpmock.DeactivateAndReset()
	router := setupDocumentTest()

	httpmock.RegisterResponder("POST", "https://api.cloudmersive.com/convert/docx/to/pdf",
		httpmock.NewBytesResponder(200, []byte("%PDF-1.7 converted")),
	)

	res := performUpload(t, router, "/download-pdf", []byte("docx-bytes"))
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "application/pdf", res.Header().Get("Content-Type"))
	assert.Contains(t, res.Header().Get("Content-Disposition"), "Application_Form.pdf")
	assert.Equal(t, "%PDF-1.7 converted", res.Body.String())
}

func TestDownloadPDFRequiresFile(t *testing.T) {
	router := setupDocumentTest()

	req, err := http.NewRequest("POST", "/download-pdf", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")
}

func TestDownloadPDFConversionFailure(t *testing.T) {
	httpmock.ActivateNonDefault(utils.GetHTTPClient())
	defer httpmock.DeactivateAndReset()
	router := setupDocumentTest()

	httpmock.RegisterResponder("POST", "https://api.cloudmersive.com/convert/docx/to/pdf",
		httpmock.NewStringResponder(400, `{"error": "invalid document"}`),
	)

	res := performUpload(t, router, "/download-pdf", []byte("not-a-docx"))
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Contains(t, res.Body.String(), "Conversion failed")
}
