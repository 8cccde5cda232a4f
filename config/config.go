package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Configuration aggregates every config section of the service
type Configuration struct {
	Server   ServerConfiguration
	Database DatabaseConfiguration
	Redis    RedisConfiguration
	CRM      CRMConfiguration
	Lookup   LookupConfiguration
	Document DocumentConfiguration
	Draft    DraftConfiguration
}

// SetupConfig reads the .env file and environment into viper
func SetupConfig() error {
	var configuration *Configuration

	viper.AddConfigPath("../../../..")
	viper.AddConfigPath("../../..")
	viper.AddConfigPath("../..")
	viper.AddConfigPath("..")
	viper.AddConfigPath(".")

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}

	viper.SetConfigName(envFilePath)
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error to reading config file, %s", err)
		return err
	}

	err := viper.Unmarshal(&configuration)
	if err != nil {
		fmt.Printf("error to decode, %v", err)
		return err
	}

	return nil
}

func init() {
	if err := SetupConfig(); err != nil {
		fmt.Printf("config SetupConfig() error: %s\n", err)
	}
}
