package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Detector DetectorConfig
	Proctor  ProctorConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// DetectorConfig points at the external inference services that back the
// detector adapters. The models themselves are black boxes behind HTTP.
type DetectorConfig struct {
	ObjectURL           string
	GazeURL             string
	FaceURL             string
	ConfidenceThreshold float64
	CallTimeout         time.Duration
}

type ProctorConfig struct {
	FrameInterval     time.Duration // video sampling cadence
	DetectEveryNth    int           // full detection on every Nth captured frame
	AudioPollInterval time.Duration // coarse cadence for quiet-segment flushing
	AudioThreshold    int           // peak amplitude that counts as speaking
	AudioQuiet        time.Duration // silence that closes a speech segment
	SampleRate        int
	WarningDecay      time.Duration // silence that clears the warning signal
	TabSwitchLimit    int           // switches beyond this terminate the attempt
	ImageCap          int           // max image artifacts per cheating event
	AudioCap          int           // max audio artifacts per cheating event
	SessionTTL        time.Duration // registry TTL for abandoned sessions
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Detector: DetectorConfig{
			ObjectURL:           getEnv("DETECTOR_OBJECT_URL", "http://localhost:8600"),
			GazeURL:             getEnv("DETECTOR_GAZE_URL", "http://localhost:8601"),
			FaceURL:             getEnv("DETECTOR_FACE_URL", "http://localhost:8602"),
			ConfidenceThreshold: getEnvAsFloat("DETECTOR_CONFIDENCE_THRESHOLD", 0.5),
			CallTimeout:         getEnvAsDuration("DETECTOR_CALL_TIMEOUT", 3*time.Second),
		},
		Proctor: ProctorConfig{
			FrameInterval:     getEnvAsDuration("PROCTOR_FRAME_INTERVAL", 500*time.Millisecond),
			DetectEveryNth:    getEnvAsInt("PROCTOR_DETECT_EVERY_NTH", 2),
			AudioPollInterval: getEnvAsDuration("PROCTOR_AUDIO_POLL_INTERVAL", 2*time.Second),
			AudioThreshold:    getEnvAsInt("PROCTOR_AUDIO_THRESHOLD", 2000),
			AudioQuiet:        getEnvAsDuration("PROCTOR_AUDIO_QUIET", 4*time.Second),
			SampleRate:        getEnvAsInt("PROCTOR_SAMPLE_RATE", 48000),
			WarningDecay:      getEnvAsDuration("PROCTOR_WARNING_DECAY", 5*time.Second),
			TabSwitchLimit:    getEnvAsInt("PROCTOR_TAB_SWITCH_LIMIT", 5),
			ImageCap:          getEnvAsInt("PROCTOR_IMAGE_CAP", 10),
			AudioCap:          getEnvAsInt("PROCTOR_AUDIO_CAP", 10),
			SessionTTL:        getEnvAsDuration("PROCTOR_SESSION_TTL", 4*time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
