package document

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lendfast/appform/services/crm"
	docSvc "github.com/lendfast/appform/services/document"
	u "github.com/lendfast/appform/utils"
	"github.com/lendfast/appform/utils/logger"
)

// Controller contains the document pipeline endpoints: PDF conversion for
// local download and conversion plus SharePoint archival.
type Controller struct {
	crmClient *crm.Client
	converter *docSvc.ConverterService
	archive   *docSvc.ArchiveService
}

// NewController creates a new instance of Controller with injected services
func NewController() *Controller {
	return &Controller{
		crmClient: crm.NewClient(),
		converter: docSvc.NewConverterService(),
		archive:   docSvc.NewArchiveService(),
	}
}

// readUpload reads the multipart "file" field into memory.
func readUpload(ctx *gin.Context) ([]byte, bool) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "No file uploaded", nil)
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Errorf("error: failed to open uploaded file: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to read uploaded file", nil)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Errorf("error: failed to read uploaded file: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to read uploaded file", nil)
		return nil, false
	}
	return data, true
}

// DownloadPDF controller converts an uploaded DOCX and streams the PDF back
// as an attachment
func (ctrl *Controller) DownloadPDF(ctx *gin.Context) {
	docx, ok := readUpload(ctx)
	if !ok {
		return
	}

	pdf, err := ctrl.converter.DocxToPDF(docx)
	if err != nil {
		logger.Errorf("error: document conversion failed: %v", err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "Conversion failed", nil)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+docSvc.ArchiveFileName)
	ctx.Data(http.StatusOK, "application/pdf", pdf)
}

// SavePDF controller converts an uploaded DOCX and archives the PDF in the
// opportunity's SharePoint folder
func (ctrl *Controller) SavePDF(ctx *gin.Context) {
	opportunityID := ctx.Param("opportunityId")

	docx, ok := readUpload(ctx)
	if !ok {
		return
	}

	pdf, err := ctrl.converter.DocxToPDF(docx)
	if err != nil {
		logger.Errorf("error: document conversion failed: %v", err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "Conversion failed", nil)
		return
	}

	folderLink, err := ctrl.crmClient.OpportunityFolderLink(opportunityID)
	if err != nil {
		logger.Errorf("error: failed to resolve folder for %s: %v", opportunityID, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error",
			"Failed to resolve archive folder", nil)
		return
	}

	folderPath, err := ctrl.archive.ResolveFolderPath(folderLink)
	if err != nil {
		logger.Errorf("error: failed to resolve folder for %s: %v", opportunityID, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error",
			"Failed to resolve archive folder", nil)
		return
	}

	if err := ctrl.archive.Upload(folderPath, pdf); err != nil {
		logger.Errorf("error: archive upload for %s failed: %v", opportunityID, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "Upload failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "PDF saved to SharePoint", nil)
}
