package config

import (
	"context"
	"time"

	"settlement-service/src/pkg/log"
	redisModule "settlement-service/src/pkg/redis"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

func LoadRedisConfig(viper *viper.Viper, log log.Log) {
	CfgRedis := &redisModule.CfgRedis{
		UseCluster:           viper.GetString("redis.use_cluster") == "true",
		EnableTLS:            viper.GetBool("redis.tls"),
		RedisHost:            viper.GetString("redis.host"),
		RedisPort:            viper.GetString("redis.port"),
		RedisPassword:        viper.GetString("redis.password"),
		RedisDB:              viper.GetInt("redis.db"),
		RedisClusterNode:     viper.GetString("redis.cluster.node"),
		RedisClusterPassword: viper.GetString("redis.cluster.password"),
	}
	redisModule.LoadConfig(CfgRedis)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisModule.InitConnection(ctx); err != nil {
		log.Error("redis init", err.Error(), "config", viper.GetString("redis.host"))
	}
}

func NewRedis() redis.UniversalClient {
	return redisModule.GetClient()
}

// NewLocker builds the per aggregate lock on top of the shared client.
func NewLocker(viper *viper.Viper, client redis.UniversalClient) *redisModule.Locker {
	return redisModule.NewLocker(client, viper.GetDuration("settlement.lock_ttl"))
}
