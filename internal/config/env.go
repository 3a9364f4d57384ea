package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Settings struct {
	AppPort        string
	AppEnv         string
	RateLimitRPS   float64
	RateLimitBurst int
	KeepFields     []string
}

// LoadEnv reads .env files into the process environment. A missing file is
// not an error; the environment alone is a valid configuration.
func LoadEnv(logger *logrus.Logger, filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		logger.Debugf("No .env file loaded: %v", err)
	}
}

func LoadSettings() Settings {
	return Settings{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 100),
		KeepFields:     getEnvList("MEASUREMENT_KEEP_FIELDS"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || val <= 0 {
		return defaultVal
	}
	return val
}

func getEnvInt(key string, defaultVal int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil || val <= 0 {
		return defaultVal
	}
	return val
}

func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
