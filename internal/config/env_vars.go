package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar   = "APP_NAME"
	folderEnvVar = "FOLDER"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Storefront Session")
}

// GetStateFile returns the path of the JSON file backing the credential
// store.
func (EnvVars) GetStateFile() string {
	return filepath.Join(GetEnv(folderEnvVar, "./data"), "session-store.json")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
