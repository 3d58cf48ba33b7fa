package config

import (
	"strings"

	"github.com/spf13/viper"
)

// NewViper reads config.json from the working directory (or ./config) and
// lets environment variables override any key, e.g. DATABASE_HOST.
func NewViper() *viper.Viper {
	config := viper.New()

	config.SetConfigName("config")
	config.SetConfigType("json")
	config.AddConfigPath("./")
	config.AddConfigPath("./config")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	config.SetDefault("settlement.vat_rate", "0.15")
	config.SetDefault("settlement.quotation_approval_policy", "caller")
	config.SetDefault("settlement.lock_ttl", "10s")
	config.SetDefault("kafka.driver", "confluent")

	if err := config.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	}

	return config
}
