package lookup

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	lookupSvc "github.com/lendfast/appform/services/lookup"
	"github.com/lendfast/appform/services/solicitor"
	u "github.com/lendfast/appform/utils"
	"github.com/lendfast/appform/utils/logger"
)

// Controller contains the lookup proxy endpoints: address autocomplete,
// Companies House, and the solicitor register.
type Controller struct {
	addresses *lookupSvc.AddressService
	companies *lookupSvc.CompaniesService
	register  *solicitor.RegisterService
}

// NewController creates a new instance of Controller with injected services
func NewController() *Controller {
	return &Controller{
		addresses: lookupSvc.NewAddressService(),
		companies: lookupSvc.NewCompaniesService(),
		register:  solicitor.NewRegisterService(),
	}
}

// LookupAddress controller proxies address autocomplete and resolution
func (ctrl *Controller) LookupAddress(ctx *gin.Context) {
	term := ctx.Query("term")
	id := ctx.Query("id")

	var (
		data map[string]interface{}
		err  error
	)
	switch {
	case term != "":
		data, err = ctrl.addresses.Autocomplete(term)
	case id != "":
		data, err = ctrl.addresses.Get(id)
	default:
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Must provide either ?term= or ?id=", nil)
		return
	}

	if err != nil {
		logger.Errorf("error: address lookup failed: %v", err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "Address lookup failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Address lookup complete", data)
}

// SearchCompanies controller proxies the Companies House register search
func (ctrl *Controller) SearchCompanies(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Missing ?q param", nil)
		return
	}

	data, err := ctrl.companies.Search(query)
	if err != nil {
		logger.Errorf("error: company search failed: %v", err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error",
			"Companies House lookup failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Company search complete", data)
}

// GetCompany controller proxies a Companies House company profile fetch
func (ctrl *Controller) GetCompany(ctx *gin.Context) {
	number := ctx.Param("number")

	data, err := ctrl.companies.Company(number)
	if err != nil {
		logger.Errorf("error: company details lookup failed: %v", err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error",
			"Company details lookup failed", nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Company details fetched", data)
}

// GetCompanyPSC controller returns a company's PSC register entries both raw
// and pre-bucketed as shareholder rows
func (ctrl *Controller) GetCompanyPSC(ctx *gin.Context) {
	number := ctx.Param("number")

	data, err := ctrl.companies.PersonsWithSignificantControl(number)
	if err != nil {
		logger.Errorf("error: PSC lookup failed: %v", err)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "PSC lookup failed", nil)
		return
	}

	shareholders, err := ctrl.companies.Shareholders(number)
	if err != nil {
		logger.Warnf("shareholder bucketing failed for %s: %v", number, err)
	}

	u.APIResponse(ctx, http.StatusOK, "success", "PSC register fetched", gin.H{
		"items":        data["items"],
		"shareholders": shareholders,
	})
}

// SearchSolicitors controller searches the embedded solicitor register by
// SRA number or fuzzy name
func (ctrl *Controller) SearchSolicitors(ctx *gin.Context) {
	sra := strings.TrimSpace(ctx.Query("sra"))
	name := strings.TrimSpace(ctx.Query("name"))

	switch {
	case sra != "":
		record := ctrl.register.FindBySRANumber(sra)
		if record == nil {
			u.APIResponse(ctx, http.StatusNotFound, "error", "No firm found for SRA number", nil)
			return
		}
		u.APIResponse(ctx, http.StatusOK, "success", "Solicitor found",
			[]interface{}{record})
	case name != "":
		u.APIResponse(ctx, http.StatusOK, "success", "Solicitor search complete",
			ctrl.register.SearchByName(name))
	default:
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Must provide either ?name= or ?sra=", nil)
	}
}
