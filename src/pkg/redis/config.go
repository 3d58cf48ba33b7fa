package redis

import (
	"strings"
)

type CfgRedis struct {
	UseCluster           bool
	EnableTLS            bool
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	RedisClusterNode     string
	RedisClusterPassword string
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	EnableTLS bool
}

type RedisClusterConfig struct {
	Hosts     []string
	Username  string
	Password  string
	EnableTLS bool
}

var (
	useCluster             bool
	RedisConfigData        RedisConfig
	RedisClusterConfigData RedisClusterConfig
)

func LoadConfig(config *CfgRedis) {
	useCluster = config.UseCluster

	port := config.RedisPort
	if port == "" {
		port = "6379"
	}
	RedisConfigData = RedisConfig{
		Host:      config.RedisHost,
		Port:      port,
		Password:  config.RedisPassword,
		DB:        config.RedisDB,
		EnableTLS: config.EnableTLS,
	}

	var hosts []string
	for _, h := range strings.Split(config.RedisClusterNode, ";") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	RedisClusterConfigData = RedisClusterConfig{
		Hosts:     hosts,
		Password:  config.RedisClusterPassword,
		EnableTLS: config.EnableTLS,
	}
}
