package config

import (
	"strconv"

	"github.com/knadh/koanf/v2"
)

const (
	redisAddrKey     = "redis_addr"
	redisPasswordKey = "redis_password"
	redisDBKey       = "redis_db"
	redisTLSKey      = "redis_tls"

	defaultRedisAddr = "localhost:6379"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

func loadRedisConfig(k *koanf.Koanf) (*RedisConfig, error) {
	db, err := strconv.Atoi(k.String(redisDBKey))
	if err != nil {
		return nil, ErrInvalidRedisDB
	}

	return &RedisConfig{
		Addr:     k.String(redisAddrKey),
		Password: k.String(redisPasswordKey),
		DB:       db,
		TLS:      k.Bool(redisTLSKey),
	}, nil
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
