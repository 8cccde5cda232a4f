package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/controllers"
	"github.com/lendfast/appform/controllers/applications"
	crmCtrl "github.com/lendfast/appform/controllers/crm"
	"github.com/lendfast/appform/controllers/document"
	"github.com/lendfast/appform/controllers/lookup"
	"github.com/lendfast/appform/routers/middleware"
)

// Routes configures the gin engine with all API routes and middleware
func Routes() *gin.Engine {
	conf := config.ServerConfig()
	if !conf.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	route := gin.New()
	route.Use(gin.Logger())
	route.Use(gin.Recovery())
	route.Use(middleware.CORSMiddleware())
	route.Use(middleware.RateLimitMiddleware())

	RegisterRoutes(route)

	return route
}

// RegisterRoutes mounts every API handler on the given engine
func RegisterRoutes(route *gin.Engine) {
	indexCtrl := controllers.NewController()
	applicationsCtrl := applications.NewController()
	crmController := crmCtrl.NewController()
	lookupCtrl := lookup.NewController()
	documentCtrl := document.NewController()

	route.GET("/", indexCtrl.Health)
	route.GET("/health", indexCtrl.Health)

	v1 := route.Group("/api/")

	v1.GET("form-options", indexCtrl.GetFormOptions)

	// Application lifecycle
	v1.POST("crm/create-application", applicationsCtrl.CreateApplication)
	v1.GET("applications/:id", applicationsCtrl.GetApplication)
	v1.POST("applications/:id/autosave", applicationsCtrl.Autosave)
	v1.POST("applications/:id/submit", applicationsCtrl.SubmitApplication)
	v1.POST("submissions/:id/run", applicationsCtrl.SubmitApplication)

	// Direct CRM pushes, one route per opportunity section
	v1.POST("crm/update-opportunity/:id", crmController.UpdateOpportunity)
	v1.POST("crm/update-opportunity-contacts/:id", crmController.UpdateContacts)
	v1.POST("crm/update-opportunity-securities/:id", crmController.UpdateSecurities)
	v1.POST("crm/update-opportunity-company/:id", crmController.UpdateCompany)
	v1.POST("crm/update-opportunity-solicitor/:id", crmController.UpdateSolicitor)
	v1.POST("crm/update-opportunity-details/:id", crmController.UpdateDetails)
	v1.POST("crm/opportunity/:id/add-task", crmController.AddTask)

	// Reference data lookups
	v1.GET("lookup-address", lookupCtrl.LookupAddress)
	v1.GET("search", lookupCtrl.SearchCompanies)
	v1.GET("company/:number", lookupCtrl.GetCompany)
	v1.GET("company/:number/persons-with-significant-control", lookupCtrl.GetCompanyPSC)
	v1.GET("solicitors/search", lookupCtrl.SearchSolicitors)

	// Document conversion and archive
	v1.POST("download-pdf", documentCtrl.DownloadPDF)
	v1.POST("save-pdf/:opportunityId", documentCtrl.SavePDF)
}
