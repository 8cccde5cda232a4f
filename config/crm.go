package config

import (
	"time"

	"github.com/spf13/viper"
)

// CRMConfiguration type defines the Dynamics 365 configurations
type CRMConfiguration struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	InstanceURL  string
	APIVersion   string
	Timeout      time.Duration
}

// CRMConfig sets the Dynamics 365 configuration
func CRMConfig() *CRMConfiguration {
	viper.SetDefault("DYNAMICS_API_VERSION", "v9.0")
	viper.SetDefault("DYNAMICS_TIMEOUT", 30)

	return &CRMConfiguration{
		TenantID:     viper.GetString("DYNAMICS_TENANT_ID"),
		ClientID:     viper.GetString("DYNAMICS_CLIENT_ID"),
		ClientSecret: viper.GetString("DYNAMICS_CLIENT_SECRET"),
		InstanceURL:  viper.GetString("DYNAMICS_INSTANCE_URL"),
		APIVersion:   viper.GetString("DYNAMICS_API_VERSION"),
		Timeout:      time.Duration(viper.GetInt("DYNAMICS_TIMEOUT")) * time.Second,
	}
}
