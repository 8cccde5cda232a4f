package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lendfast/appform/storage"
	"github.com/lendfast/appform/types"
	u "github.com/lendfast/appform/utils"
)

// Controller is the default controller for other endpoints
type Controller struct{}

// NewController creates a new instance of Controller
func NewController() *Controller {
	return &Controller{}
}

// Health controller reports whether the service and its backing stores are
// reachable
func (ctrl *Controller) Health(ctx *gin.Context) {
	status := "ok"
	checks := gin.H{"database": "ok", "redis": "ok"}

	if db := storage.GetDB(); db == nil || db.PingContext(ctx) != nil {
		status = "degraded"
		checks["database"] = "unreachable"
	}
	if storage.RedisClient == nil || storage.RedisClient.Ping(ctx).Err() != nil {
		status = "degraded"
		checks["redis"] = "unreachable"
	}

	httpCode := http.StatusOK
	if status != "ok" {
		httpCode = http.StatusServiceUnavailable
	}
	u.APIResponse(ctx, httpCode, status, "Health check", checks)
}

// GetFormOptions controller returns the option-set labels the form renders,
// so the dropdowns and the CRM mapping share one source
func (ctrl *Controller) GetFormOptions(ctx *gin.Context) {
	u.APIResponse(ctx, http.StatusOK, "success", "Form options fetched", gin.H{
		"propertyTypes":       types.PropertyTypeOptions.Labels(),
		"loanPurposes":        types.LoanPurposeOptions.Labels(),
		"chargeTypes":         types.ChargeTypeOptions.Labels(),
		"tenures":             types.TenureOptions.Labels(),
		"residentialStatuses": types.ResidentialStatusOptions.Labels(),
		"maritalStatuses":     types.MaritalStatusOptions.Labels(),
		"exitStrategies":      types.ExitStrategyOptions.Labels(),
	})
}
