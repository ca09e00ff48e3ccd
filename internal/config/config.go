/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables (with an
 * optional .env file), providing a centralized way to manage settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the donation-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort             string `mapstructure:"SERVER_PORT"`
	MinDonationSats        int64  `mapstructure:"MIN_DONATION_SATS"`
	MaxDonationSats        int64  `mapstructure:"MAX_DONATION_SATS"`
	InvoiceTTLSeconds      int64  `mapstructure:"INVOICE_TTL_SECONDS"`
	SweepSchedule          string `mapstructure:"SWEEP_SCHEDULE"`
	Network                string `mapstructure:"NETWORK"`
	NodeKeyHex             string `mapstructure:"NODE_KEY_HEX"`
	AnonymousDonorName     string `mapstructure:"ANONYMOUS_DONOR_NAME"`
	QRCodeSize             int    `mapstructure:"QR_CODE_SIZE"`
	AutoSettleAfterSeconds int64  `mapstructure:"AUTO_SETTLE_AFTER_SECONDS"`
}

// LoadConfig reads configuration from environment variables from the given
// path. It uses Viper to automatically bind environment variables to the
// Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values. Amount bounds and TTL match the product defaults:
	// 100..1,000,000 sats per donation, one hour to pay.
	viper.SetDefault("SERVER_PORT", "3001")
	viper.SetDefault("MIN_DONATION_SATS", 100)
	viper.SetDefault("MAX_DONATION_SATS", 1000000)
	viper.SetDefault("INVOICE_TTL_SECONDS", 3600)
	viper.SetDefault("SWEEP_SCHEDULE", "@every 1m")
	viper.SetDefault("NETWORK", "bc")
	viper.SetDefault("ANONYMOUS_DONOR_NAME", "Anonymous")
	viper.SetDefault("QR_CODE_SIZE", 256)
	viper.SetDefault("AUTO_SETTLE_AFTER_SECONDS", 0)

	// Bind environment variables explicitly to ensure they appear in Unmarshal.
	_ = viper.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")
	_ = viper.BindEnv("MIN_DONATION_SATS")
	_ = viper.BindEnv("MAX_DONATION_SATS")
	_ = viper.BindEnv("INVOICE_TTL_SECONDS")
	_ = viper.BindEnv("SWEEP_SCHEDULE")
	_ = viper.BindEnv("NETWORK")
	_ = viper.BindEnv("NODE_KEY_HEX")
	_ = viper.BindEnv("ANONYMOUS_DONOR_NAME")
	_ = viper.BindEnv("QR_CODE_SIZE")
	_ = viper.BindEnv("AUTO_SETTLE_AFTER_SECONDS")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	return config, err
}
