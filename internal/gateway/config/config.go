package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	Generator   GeneratorConfig
	Store       StoreConfig
	ResourceDir string
}

type GeneratorConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type StoreConfig struct {
	DatabaseURL string
	Dir         string
	S3          S3Config
}

type S3Config struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8084", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:        *port,
		Env:         env,
		Generator:   loadGeneratorConfig(),
		Store:       loadStoreConfig(env),
		ResourceDir: strings.TrimSpace(os.Getenv("RESOURCE_DIR")),
	}, nil
}

func loadGeneratorConfig() GeneratorConfig {
	timeout := 5 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("GENERATOR_TIMEOUT_SECONDS")); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}
	return GeneratorConfig{
		BaseURL: strings.TrimSpace(os.Getenv("GENERATOR_URL")),
		Model:   strings.TrimSpace(os.Getenv("GENERATOR_MODEL")),
		Timeout: timeout,
	}
}

func loadStoreConfig(env string) StoreConfig {
	return StoreConfig{
		DatabaseURL: strings.TrimSpace(os.Getenv("DOCSTORE_PG_DSN")),
		Dir:         firstNonEmpty(strings.TrimSpace(os.Getenv("DOCSTORE_DIR")), "tmp/documents"),
		S3:          loadS3Config(env),
	}
}

func loadS3Config(env string) S3Config {
	endpoint := resolveS3Endpoint(env)
	return S3Config{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("DOCSTORE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("DOCSTORE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("DOCSTORE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("DOCSTORE_S3_BUCKET")), "repograph-documents"),
		UseSSL:    resolveS3UseSSL(env),
	}
}

func resolveS3Endpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("DOCSTORE_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("DOCSTORE_S3_ENDPOINT"))
}

func resolveS3UseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("DOCSTORE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
