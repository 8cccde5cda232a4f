package config

import (
	"github.com/spf13/viper"
)

// ServerConfiguration type defines the server configurations
type ServerConfiguration struct {
	Debug                    bool
	Host                     string
	Port                     string
	Timezone                 string
	Environment              string
	SentryDSN                string
	ClientURL                string
	RateLimitUnauthenticated int
	RateLimitAuthenticated   int
	UploadDir                string
}

// ServerConfig sets the server configuration
func ServerConfig() *ServerConfiguration {
	viper.SetDefault("DEBUG", true)
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("SERVER_TIMEZONE", "Europe/London")
	viper.SetDefault("ENVIRONMENT", "local")
	viper.SetDefault("CLIENT_URL", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_UNAUTHENTICATED", 5)
	viper.SetDefault("RATE_LIMIT_AUTHENTICATED", 50)
	viper.SetDefault("UPLOAD_DIR", "uploads")

	return &ServerConfiguration{
		Debug:                    viper.GetBool("DEBUG"),
		Host:                     viper.GetString("SERVER_HOST"),
		Port:                     viper.GetString("SERVER_PORT"),
		Timezone:                 viper.GetString("SERVER_TIMEZONE"),
		Environment:              viper.GetString("ENVIRONMENT"),
		SentryDSN:                viper.GetString("SENTRY_DSN"),
		ClientURL:                viper.GetString("CLIENT_URL"),
		RateLimitUnauthenticated: viper.GetInt("RATE_LIMIT_UNAUTHENTICATED"),
		RateLimitAuthenticated:   viper.GetInt("RATE_LIMIT_AUTHENTICATED"),
		UploadDir:                viper.GetString("UPLOAD_DIR"),
	}
}
