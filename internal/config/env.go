package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string
	DBDSN   string

	HoldTimeout       time.Duration
	SweepInterval     time.Duration
	BroadcastAddr     string
	BroadcastInterval time.Duration
	BroadcastTrips    int

	UploadDir     string
	SessionSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	CORSOrigins []string
}

func LoadEnv() Env {
	return Env{
		AppAddr: envString("APP_ADDR", ":8080"),
		GinMode: envString("GIN_MODE", ""),
		DBDSN:   envString("DB_DSN", "root:@tcp(127.0.0.1:3306)/busbooking?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"),

		HoldTimeout:       envSeconds("HOLD_TIMEOUT_SECONDS", 300),
		SweepInterval:     envSeconds("SWEEP_INTERVAL_SECONDS", 60),
		BroadcastAddr:     envString("BROADCAST_ADDR", "255.255.255.255:55556"),
		BroadcastInterval: envSeconds("BROADCAST_INTERVAL_SECONDS", 2),
		BroadcastTrips:    envInt("BROADCAST_TRIP_LIMIT", 50),

		UploadDir:     envString("UPLOAD_DIR", "./uploads"),
		SessionSecret: envString("SESSION_SECRET", "super-secret-key-change-me"),

		SMTPHost:     envString("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUsername: envString("SMTP_USERNAME", ""),
		SMTPPassword: envString("SMTP_PASSWORD", ""),
		SMTPFrom:     envString("SMTP_FROM", ""),

		CORSOrigins: envList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),
	}
}

func envList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envSeconds(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Second
}
