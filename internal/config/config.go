// Package config loads service configuration from flags and environment
// variables, with a .env file picked up when present.
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
	Port     string
	Env      string
	OutDir   string
	LLM      LLMConfig
	Render   RenderConfig
	Artifact ArtifactConfig
}

type LLMConfig struct {
	APIKey string
	Model  string
	Mock   bool
	RPS    float64
	Burst  int
}

type RenderConfig struct {
	Timeout time.Duration
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	outDir := flag.String("out", "", "directory for rendered diagrams (default: <tmp>/diagen)")
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

	dir := firstNonEmpty(strings.TrimSpace(*outDir), strings.TrimSpace(os.Getenv("OUTPUT_DIR")))
	if dir == "" {
		dir = os.TempDir() + string(os.PathSeparator) + "diagen"
	}

	return &Config{
		Port:     *port,
		Env:      env,
		OutDir:   dir,
		LLM:      loadLLMConfig(),
		Render:   RenderConfig{Timeout: envDuration("RENDER_TIMEOUT", 10*time.Second)},
		Artifact: loadArtifactConfig(env),
	}, nil
}

func loadLLMConfig() LLMConfig {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	mock := envBool("MOCK_LLM", false) || apiKey == ""
	return LLMConfig{
		APIKey: apiKey,
		Model:  strings.TrimSpace(os.Getenv("LLM_MODEL")),
		Mock:   mock,
		RPS:    envFloat("LLM_RPS", 1),
		Burst:  envInt("LLM_BURST", 2),
	}
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := resolveArtifactEndpoint(env)
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "diagen-artifacts"),
		Prefix:    strings.Trim(strings.TrimSpace(os.Getenv("ARTIFACT_S3_PREFIX")), "/"),
		UseSSL:    resolveArtifactUseSSL(env),
	}
}

func resolveArtifactEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
}

func resolveArtifactUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return def
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
