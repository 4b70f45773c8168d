package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Admin    AdminConfig
	Playback PlaybackConfig
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

type StoreConfig struct {
	QuizFile        string
	MediaDir        string
	ImportRoot      string
	VideoExtensions []string
}

type AdminConfig struct {
	Password string
}

type PlaybackConfig struct {
	TickInterval time.Duration
	FrameWidth   int
	FrameHeight  int
	JPEGQuality  int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           getEnv("HTTP_ADDR", "127.0.0.1:8080"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://127.0.0.1:8080", "http://localhost:8080"}),
		},
		Store: StoreConfig{
			QuizFile:        getEnv("QUIZ_FILE", "quiz_data.json"),
			MediaDir:        getEnv("MEDIA_DIR", "media"),
			ImportRoot:      getEnv("IMPORT_ROOT", "."),
			VideoExtensions: normalizeExtensions(getEnvAsList("VIDEO_EXTENSIONS", []string{".mp4", ".mov"})),
		},
		Admin: AdminConfig{
			Password: getEnv("ADMIN_PASSWORD", "1234"),
		},
		Playback: PlaybackConfig{
			TickInterval: getEnvAsDuration("PLAYBACK_TICK_INTERVAL", 30*time.Millisecond),
			FrameWidth:   getEnvAsInt("FRAME_WIDTH", 400),
			FrameHeight:  getEnvAsInt("FRAME_HEIGHT", 300),
			JPEGQuality:  getEnvAsInt("FRAME_JPEG_QUALITY", 80),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// normalizeExtensions lower-cases entries and adds the leading dot, so
// "MP4" and ".mp4" select the same files.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
