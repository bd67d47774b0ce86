// Package config resolves the terminal client's endpoint and credentials.
// Credentials live in ~/.photoshare/.env so tokens never land in shell history.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// TokenKey is the .env key holding the session token.
	TokenKey = "PHOTOSHARE_TOKEN"
	// DefaultEndpoint is the local gateway's GraphQL endpoint.
	DefaultEndpoint = "http://localhost:4000/graphql"

	dirName = ".photoshare"
)

// Dir returns ~/.photoshare, creating it when missing.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// EnvFilePath returns the path to ~/.photoshare/.env.
func EnvFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// CachePath returns the path of the persisted query cache.
func CachePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.json"), nil
}

// LoadEnvFile reads ~/.photoshare/.env without touching the process
// environment. A missing file yields an empty map.
func LoadEnvFile() (map[string]string, error) {
	path, err := EnvFilePath()
	if err != nil {
		return map[string]string{}, err
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return map[string]string{}, err
	}
	return env, nil
}

// GetEnvValue prefers the OS environment over the .env file.
func GetEnvValue(key string, envMap map[string]string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return envMap[key]
}

// SaveEnvValue sets key in ~/.photoshare/.env, keeping the other entries.
func SaveEnvValue(key, value string) error {
	path, err := EnvFilePath()
	if err != nil {
		return err
	}
	env, err := LoadEnvFile()
	if err != nil {
		return err
	}
	env[key] = value
	if err := godotenv.Write(env, path); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// RemoveEnvValue deletes key from ~/.photoshare/.env.
func RemoveEnvValue(key string) error {
	path, err := EnvFilePath()
	if err != nil {
		return err
	}
	env, err := LoadEnvFile()
	if err != nil {
		return err
	}
	if _, ok := env[key]; !ok {
		return nil
	}
	delete(env, key)
	return godotenv.Write(env, path)
}

// Token returns the stored session token, or "" when signed out.
func Token() string {
	env, _ := LoadEnvFile()
	return GetEnvValue(TokenKey, env)
}
