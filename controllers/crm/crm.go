package crm

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	crmSvc "github.com/lendfast/appform/services/crm"
	"github.com/lendfast/appform/types"
	u "github.com/lendfast/appform/utils"
	"github.com/lendfast/appform/utils/logger"
)

// Controller contains the Dynamics sync endpoints. Each maps one form step
// onto the matching opportunity records.
type Controller struct {
	client *crmSvc.Client
}

// NewController creates a new instance of Controller with injected services
func NewController() *Controller {
	return &Controller{client: crmSvc.NewClient()}
}

// UpdateOpportunity controller patches an arbitrary payload onto the
// opportunity
func (ctrl *Controller) UpdateOpportunity(ctx *gin.Context) {
	id := ctx.Param("id")

	var payload map[string]interface{}
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		logger.Errorf("error: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}

	if err := ctrl.client.UpdateOpportunity(id, payload); err != nil {
		logger.Errorf("error: opportunity update for %s failed: %v", id, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "CRM update failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "CRM updated successfully", nil)
}

// UpdateContacts controller upserts the applicants as contacts and links
// them onto the opportunity
func (ctrl *Controller) UpdateContacts(ctx *gin.Context) {
	id := ctx.Param("id")

	var payload types.UpdateContactsPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		logger.Errorf("error: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}

	contactIDs, err := ctrl.client.SyncContacts(id, payload.Applicants)
	if err != nil {
		logger.Errorf("error: contact sync for %s failed: %v", id, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "CRM update failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Opportunity contacts updated", gin.H{
		"contactIds": contactIDs,
	})
}

// UpdateSecurities controller replaces the securities linked to the
// opportunity
func (ctrl *Controller) UpdateSecurities(ctx *gin.Context) {
	id := ctx.Param("id")

	var payload types.UpdateSecuritiesPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		logger.Errorf("error: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}

	results, err := ctrl.client.SyncSecurities(id, payload.Securities)
	if err != nil {
		logger.Errorf("error: security sync for %s failed: %v", id, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "CRM update failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Opportunity securities updated", gin.H{
		"results": results,
	})
}

// UpdateCompany controller links the applicant company's account to the
// opportunity
func (ctrl *Controller) UpdateCompany(ctx *gin.Context) {
	id := ctx.Param("id")

	var payload types.UpdateCompanyPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		logger.Errorf("error: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}

	if !payload.IsCompany {
		u.APIResponse(ctx, http.StatusOK, "success", "Not a company application", nil)
		return
	}

	accountID, err := ctrl.client.SyncCompany(id, payload)
	if err != nil {
		logger.Errorf("error: company sync for %s failed: %v", id, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "CRM update failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Opportunity linked to company account", gin.H{
		"accountId": accountID,
	})
}

// UpdateSolicitor controller links the solicitor firm and acting solicitor
// to the opportunity
func (ctrl *Controller) UpdateSolicitor(ctx *gin.Context) {
	id := ctx.Param("id")

	var payload types.UpdateSolicitorPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		logger.Errorf("error: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}

	firmID, contactID, err := ctrl.client.SyncSolicitor(id, payload)
	if err != nil {
		if errors.Is(err, crmSvc.ErrMissingSRANumber) {
			u.APIResponse(ctx, http.StatusBadRequest, "error", "Missing SRA Number", nil)
			return
		}
		logger.Errorf("error: solicitor sync for %s failed: %v", id, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "CRM update failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success",
		"Solicitor firm and acting solicitor linked to opportunity", gin.H{
			"firmId":    firmID,
			"contactId": contactID,
		})
}

// UpdateDetails controller patches the scalar loan fields onto the
// opportunity
func (ctrl *Controller) UpdateDetails(ctx *gin.Context) {
	id := ctx.Param("id")

	var payload types.UpdateDetailsPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		logger.Errorf("error: %v", err)
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}

	if err := ctrl.client.SyncDetails(id, payload); err != nil {
		logger.Errorf("error: details sync for %s failed: %v", id, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "CRM update failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Opportunity details updated", nil)
}

// AddTask controller creates the submitted-application task on the
// opportunity, assigned to its owner
func (ctrl *Controller) AddTask(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := ctrl.client.CreateSubmissionTask(id); err != nil {
		logger.Errorf("error: task creation for %s failed: %v", id, err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "Task creation failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Task created in CRM", nil)
}
