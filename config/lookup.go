package config

import (
	"time"

	"github.com/spf13/viper"
)

// LookupConfiguration type defines the external lookup provider configurations
type LookupConfiguration struct {
	GetAddressAPIKey      string
	GetAddressBaseURL     string
	CompaniesHouseAPIKey  string
	CompaniesHouseURL     string
	SolicitorRegisterPath string
	Timeout               time.Duration
}

// LookupConfig sets the lookup provider configuration
func LookupConfig() *LookupConfiguration {
	viper.SetDefault("GETADDRESS_BASE_URL", "https://api.getAddress.io")
	viper.SetDefault("COMPANIES_HOUSE_URL", "https://api.company-information.service.gov.uk")
	viper.SetDefault("LOOKUP_TIMEOUT", 15)

	return &LookupConfiguration{
		GetAddressAPIKey:      viper.GetString("GETADDRESS_API_KEY"),
		GetAddressBaseURL:     viper.GetString("GETADDRESS_BASE_URL"),
		CompaniesHouseAPIKey:  viper.GetString("COMPANIES_HOUSE_API_KEY"),
		CompaniesHouseURL:     viper.GetString("COMPANIES_HOUSE_URL"),
		SolicitorRegisterPath: viper.GetString("SOLICITOR_REGISTER_PATH"),
		Timeout:               time.Duration(viper.GetInt("LOOKUP_TIMEOUT")) * time.Second,
	}
}
