package config

import "github.com/redis/go-redis/v9"

// SetRedisClientForTest swaps the package-level Redis client in tests.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest clears the package-level Redis client.
func ResetRedisClientForTest() {
	redisClient = nil
}
