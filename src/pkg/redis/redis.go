package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient redis.UniversalClient

func InitConnection(ctx context.Context) error {
	var tlsConf *tls.Config
	if !useCluster {
		if RedisConfigData.EnableTLS {
			tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%s", RedisConfigData.Host, RedisConfigData.Port),
			Password:     RedisConfigData.Password,
			DB:           RedisConfigData.DB,
			TLSConfig:    tlsConf,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MaxRetries:   2,
		})
	} else {
		if RedisClusterConfigData.EnableTLS {
			tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        RedisClusterConfigData.Hosts,
			Username:     RedisClusterConfigData.Username,
			Password:     RedisClusterConfigData.Password,
			TLSConfig:    tlsConf,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	}

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func GetClient() redis.UniversalClient {
	return redisClient
}
