package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string

	StorageDriver string // "gcs" or "s3"
	StorageBucket string
	AWSRegion     string

	MaxFileSize        int64
	AllowedTypes       []string
	UploadURLExpiry    int64 // seconds
	DownloadURLExpiry  int64 // seconds
	ScanTimeoutSeconds int64
	ScanPollAttempts   int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),

		StorageDriver: getEnv("STORAGE_DRIVER", "gcs"),
		StorageBucket: getEnv("STORAGE_BUCKET", ""),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),

		MaxFileSize:        getEnvAsInt64("MAX_FILE_SIZE", 50*1024*1024),
		AllowedTypes:       getEnvAsSlice("ALLOWED_CONTENT_TYPES", defaultAllowedTypes),
		UploadURLExpiry:    getEnvAsInt64("UPLOAD_URL_EXPIRY", 15*60),
		DownloadURLExpiry:  getEnvAsInt64("DOWNLOAD_URL_EXPIRY", 10*60),
		ScanTimeoutSeconds: getEnvAsInt64("SCAN_TIMEOUT", 30),
		ScanPollAttempts:   int(getEnvAsInt64("SCAN_POLL_ATTEMPTS", 10)),
	}

	return config, nil
}

var defaultAllowedTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"image/jpeg",
	"image/png",
}

// The values below are read from the environment on every call rather than
// cached at startup so that rotated secrets and endpoints take effect on the
// next request.

func ClamAVEndpoint() string {
	return getEnv("CLAMAV_ENDPOINT", "")
}

func VirusTotalEndpoint() string {
	return getEnv("VIRUSTOTAL_ENDPOINT", "https://www.virustotal.com/api/v3")
}

func VirusTotalAPIKey() string {
	return getEnv("VIRUSTOTAL_API_KEY", "")
}

func EncryptionSecret() string {
	return getEnv("DOCUMENT_ENCRYPTION_SECRET", "")
}

// ScannerUnavailablePolicy returns "fail_open" or "fail_closed". Fail open
// means an unreachable scanner does not block the upload; the scan status is
// recorded as "none" for audit.
func ScannerUnavailablePolicy() string {
	policy := getEnv("ON_SCANNER_UNAVAILABLE", "fail_open")
	if policy != "fail_closed" {
		return "fail_open"
	}
	return policy
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
