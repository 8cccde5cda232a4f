package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// DatabaseConfiguration type defines the database configurations
type DatabaseConfiguration struct {
	Driver   string
	Dbname   string
	Username string
	Password string
	Host     string
	Port     string
	SSLMode  string
}

// DBConfiguration returns the database configuration
func DBConfiguration() *DatabaseConfiguration {
	viper.SetDefault("DB_DRIVER", "pgx")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "appform")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("SSL_MODE", "disable")

	return &DatabaseConfiguration{
		Driver:   viper.GetString("DB_DRIVER"),
		Dbname:   viper.GetString("DB_NAME"),
		Username: viper.GetString("DB_USER"),
		Password: viper.GetString("DB_PASSWORD"),
		Host:     viper.GetString("DB_HOST"),
		Port:     viper.GetString("DB_PORT"),
		SSLMode:  viper.GetString("SSL_MODE"),
	}
}

// DBConfig builds the DSN from the database configuration
func DBConfig() string {
	dbConf := DBConfiguration()
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConf.Username, dbConf.Password, dbConf.Host, dbConf.Port, dbConf.Dbname, dbConf.SSLMode,
	)
}
