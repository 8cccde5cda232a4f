package config

import (
	"github.com/spf13/viper"
)

// DocumentConfiguration type defines the document pipeline configurations
type DocumentConfiguration struct {
	CloudmersiveAPIKey  string
	CloudmersiveBaseURL string

	SharePointTenantID     string
	SharePointClientID     string
	SharePointClientSecret string
	SharePointSiteID       string
	SharePointSiteName     string
	SharePointDriveID      string
	GraphBaseURL           string
}

// DocumentConfig sets the document pipeline configuration
func DocumentConfig() *DocumentConfiguration {
	viper.SetDefault("CLOUDMERSIVE_BASE_URL", "https://api.cloudmersive.com")
	viper.SetDefault("GRAPH_BASE_URL", "https://graph.microsoft.com")

	return &DocumentConfiguration{
		CloudmersiveAPIKey:  viper.GetString("CLOUDMERSIVE_API_KEY"),
		CloudmersiveBaseURL: viper.GetString("CLOUDMERSIVE_BASE_URL"),

		SharePointTenantID:     viper.GetString("SHAREPOINT_TENANT_ID"),
		SharePointClientID:     viper.GetString("SHAREPOINT_CLIENT_ID"),
		SharePointClientSecret: viper.GetString("SHAREPOINT_CLIENT_SECRET"),
		SharePointSiteID:       viper.GetString("SHAREPOINT_SITE_ID"),
		SharePointSiteName:     viper.GetString("SHAREPOINT_SITE_NAME"),
		SharePointDriveID:      viper.GetString("SHAREPOINT_OPPORTUNITY_DRIVE_ID"),
		GraphBaseURL:           viper.GetString("GRAPH_BASE_URL"),
	}
}
