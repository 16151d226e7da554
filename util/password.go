package util

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var (
	jwtSecretValue = getEnv("JWTSECRET", "")
	jwtSecret      = jwtSecretValue
	jwtSecretByte  = []byte(jwtSecretValue)
	jwtMutex       sync.RWMutex
)

const (
	argon2Prefix  = "argon2id$"
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// HashPassword is the legacy HMAC-SHA256 hashing scheme keyed with the JWT
// secret. Kept only so accounts created before the Argon2 migration can
// still log in; successful logins upgrade the stored hash.
func HashPassword(password string) (hashedPassword string) {
	secretByte := GetJWTSecretByte()
	h := hmac.New(sha256.New, secretByte)
	h.Write([]byte(password))
	hashedPassword = hex.EncodeToString(h.Sum(nil))
	return
}

// GenerateSalt returns a fresh random salt, hex encoded.
func GenerateSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPasswordArgon2 derives an Argon2id hash of the password with the given
// hex-encoded salt and returns it in the "argon2id$<base64>" storage format.
func HashPasswordArgon2(password, salt string) (string, error) {
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt encoding: %w", err)
	}
	key := argon2.IDKey([]byte(password), saltBytes, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return argon2Prefix + base64.RawStdEncoding.EncodeToString(key), nil
}

// VerifyPassword checks a plain password against a stored hash. It handles
// both the Argon2id format and the legacy HMAC format, using constant-time
// comparison in both cases.
func VerifyPassword(plain, stored, salt string) (bool, error) {
	if strings.HasPrefix(stored, argon2Prefix) {
		computed, err := HashPasswordArgon2(plain, salt)
		if err != nil {
			return false, err
		}
		return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1, nil
	}
	legacy := HashPassword(plain)
	return subtle.ConstantTimeCompare([]byte(legacy), []byte(stored)) == 1, nil
}

// SetJWTSecret allows tests or runtime code to update the JWT secret used
// for both token signing and legacy password hashing. This function is
// thread-safe and can be called concurrently. Tests using this should avoid
// parallel execution if they need deterministic secret values.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecret = secret
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current JWT secret bytes in a thread-safe manner.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	// Return a copy to prevent external modifications using idiomatic Go pattern
	return append([]byte(nil), jwtSecretByte...)
}
