package applications

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/services/crm"
	"github.com/lendfast/appform/services/document"
	"github.com/lendfast/appform/services/draft"
	"github.com/lendfast/appform/services/form"
	"github.com/lendfast/appform/services/submission"
	"github.com/lendfast/appform/storage"
	"github.com/lendfast/appform/types"
	u "github.com/lendfast/appform/utils"
	"github.com/lendfast/appform/utils/logger"
)

var serverConf = config.ServerConfig()

// Controller contains the application lifecycle endpoints: creation from the
// CRM button push, fetch for form resume, autosave, and final submission.
type Controller struct {
	crmClient *crm.Client
	drafts    *draft.Store
	converter *document.ConverterService
	archive   *document.ArchiveService
}

// NewController creates a new instance of Controller with injected services
func NewController() *Controller {
	return &Controller{
		crmClient: crm.NewClient(),
		drafts:    draft.NewStore(),
		converter: document.NewConverterService(),
		archive:   document.NewArchiveService(),
	}
}

// CreateApplication controller seeds an application from the CRM push and
// returns the form link for the opportunity
func (ctrl *Controller) CreateApplication(ctx *gin.Context) {
	var payload types.CreateApplicationPayload

	if err := ctx.ShouldBindJSON(&payload); err != nil {
		logger.Errorf("error: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}

	if _, err := uuid.Parse(payload.OpportunityGUID); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Opportunity GUID is not a valid UUID", nil)
		return
	}

	record, err := storage.UpsertApplication(ctx, payload.OpportunityGUID, &payload.Application)
	if err != nil {
		logger.Errorf("error: failed to create application %s: %v", payload.OpportunityGUID, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error",
			"Failed to create application", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Application created", gin.H{
		"link":        fmt.Sprintf("%s/form/%s", serverConf.ClientURL, payload.OpportunityGUID),
		"application": record,
	})
}

// GetApplication controller fetches an application with any in-progress
// draft edits folded in
func (ctrl *Controller) GetApplication(ctx *gin.Context) {
	id := ctx.Param("id")

	record, err := storage.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			u.APIResponse(ctx, http.StatusNotFound, "error", "Application not found", nil)
			return
		}
		logger.Errorf("error: failed to fetch application %s: %v", id, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error",
			"Failed to fetch application", nil)
		return
	}

	sections, err := ctrl.drafts.Sections(ctx, id)
	if err != nil {
		logger.Warnf("failed to load draft for %s, serving persisted record: %v", id, err)
	} else if len(sections) > 0 {
		if err := draft.Apply(&record.Application, sections); err != nil {
			logger.Warnf("failed to apply draft for %s, serving persisted record: %v", id, err)
		}
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Application fetched", record)
}

// Autosave controller stores in-progress section edits in the draft store
func (ctrl *Controller) Autosave(ctx *gin.Context) {
	id := ctx.Param("id")

	var sections map[string]json.RawMessage
	if err := ctx.ShouldBindJSON(&sections); err != nil {
		logger.Errorf("error: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}
	if len(sections) == 0 {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "No sections in payload", nil)
		return
	}

	for section, payload := range sections {
		if err := ctrl.drafts.SaveSection(ctx, id, section, payload); err != nil {
			logger.Errorf("error: autosave of %s for %s failed: %v", section, id, err)
			u.APIResponse(ctx, http.StatusBadRequest, "error",
				fmt.Sprintf("Failed to save section %s", section), nil)
			return
		}
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Draft saved", nil)
}

// SubmitApplication controller runs the ordered submission pipeline:
// validation, persistence, the CRM syncs, the archived document and the
// follow-up task. Steps completed by an earlier failed attempt are skipped.
func (ctrl *Controller) SubmitApplication(ctx *gin.Context) {
	id := ctx.Param("id")

	app, signedDocx, ok := ctrl.bindSubmission(ctx)
	if !ok {
		return
	}

	steps := submission.DefaultSteps(id, ctrl.crmClient, ctrl.converter, ctrl.archive, signedDocx)
	pipeline := submission.NewPipeline(steps, submission.NewStorageRecorder(), storage.RedisClient)

	results, err := pipeline.Run(ctx, id, app)
	if err != nil {
		var sectionErr *form.SectionError
		if errors.As(err, &sectionErr) {
			u.APIResponse(ctx, http.StatusBadRequest, "error", sectionErr.Error(), nil)
			return
		}
		logger.Errorf("error: submission of %s failed: %v", id, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error",
			"Submission failed", gin.H{"steps": results})
		return
	}

	if err := ctrl.drafts.Clear(ctx, id); err != nil {
		logger.Warnf("failed to clear draft for %s after submission: %v", id, err)
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Application submitted", gin.H{"steps": results})
}

// bindSubmission reads the submission payload. JSON submits carry no signed
// document; multipart submits carry the application under the "application"
// field and the signed DOCX under "file".
func (ctrl *Controller) bindSubmission(ctx *gin.Context) (*types.Application, []byte, bool) {
	var app types.Application

	contentType := ctx.ContentType()
	if contentType == "multipart/form-data" {
		if err := json.Unmarshal([]byte(ctx.PostForm("application")), &app); err != nil {
			logger.Errorf("error: %v", err)
			u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", nil)
			return nil, nil, false
		}

		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			return &app, nil, true
		}
		file, err := fileHeader.Open()
		if err != nil {
			logger.Errorf("error: failed to open uploaded document: %v", err)
			u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to read uploaded document", nil)
			return nil, nil, false
		}
		defer file.Close()

		signedDocx, err := io.ReadAll(file)
		if err != nil {
			logger.Errorf("error: failed to read uploaded document: %v", err)
			u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to read uploaded document", nil)
			return nil, nil, false
		}
		return &app, signedDocx, true
	}

	if err := ctx.ShouldBindJSON(&app); err != nil {
		logger.Errorf("error: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return nil, nil, false
	}
	return &app, nil, true
}
