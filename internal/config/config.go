package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	JwtSecret              string
	Issuer                 string
	TokenTTL               time.Duration
	DbHost                 string
	DbPort                 string
	DbUser                 string
	DbPassword             string
	DbName                 string
	ServerPort             string
	KubeNamespace          string
	StorageClassName       string
	RegistryServer         string
	FirstSuperuser         string
	FirstSuperuserPassword string
	MinioEndpoint          string
	MinioAccessKey         string
	MinioSecretKey         string
	MinioUseSSL            bool
	MinioBucket            string
	CORSAllowedOrigins     []string
)

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	JwtSecret = getEnv("JWT_SECRET", "defaultsecret")
	Issuer = getEnv("ISSUER", "pinta")
	TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		log.Printf("invalid TOKEN_TTL, falling back to 24h: %v", err)
		TokenTTL = 24 * time.Hour
	}
	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "pinta")
	ServerPort = getEnv("SERVER_PORT", "8080")

	KubeNamespace = getEnv("K8S_NAMESPACE", "default")
	StorageClassName = getEnv("STORAGE_CLASS_NAME", "")
	RegistryServer = getEnv("REGISTRY_SERVER", "registry-service.pinta-system.svc:5000")

	FirstSuperuser = getEnv("FIRST_SUPERUSER", "admin")
	FirstSuperuserPassword = getEnv("FIRST_SUPERUSER_PASSWORD", "")

	// An empty endpoint disables log archiving.
	MinioEndpoint = getEnv("MINIO_ENDPOINT", "")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	MinioBucket = getEnv("MINIO_BUCKET", "pinta-job-logs")
	MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost,https://localhost"))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
