package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	MessagingDriverKafka = "kafka"
	MessagingDriverRedis = "redis"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Messaging    MessagingConfig
	Notification NotificationConfig
	Telemetry    TelemetryConfig
	RateLimit    RateLimitConfig
}

type AppConfig struct {
	Name             string
	Port             string
	Env              string
	LogLevel         string
	OperationTimeout time.Duration
}

type DBConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	RunMigrations bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	UserTTL  time.Duration
}

type MessagingConfig struct {
	Driver            string
	Brokers           string
	NotificationTopic string
	EditedTopic       string
	StreamMaxLen      int64
}

// NotificationConfig is the e-mail template sent to the doctor when an
// appointment is created. Body placeholders: {doctor_name}, {patient_name},
// {date} and {time}.
type NotificationConfig struct {
	Subject  string
	Body     string
	Timezone string
}

type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

const defaultNotificationBody = `<html><head><meta charset='UTF-8'><title>Appointment notification</title></head>` +
	`<body style='font-family: Arial, sans-serif; font-size: 16px; color: #333;'>` +
	`<p>Hello, Dr. <strong>{doctor_name}</strong>!</p>` +
	`<p>You have a <strong>new appointment scheduled!</strong></p>` +
	`<p><strong>Patient:</strong> {patient_name}</p>` +
	`<p><strong>Date and time:</strong> {date} at {time}</p>` +
	`<br><p>Kind regards,</p><p><em>Your Clinic</em></p></body></html>`

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "healthmed-scheduler")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_OPERATION_TIMEOUT", "5s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_RUN_MIGRATIONS", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_USER_TTL", "10m")

	v.SetDefault("MESSAGING_DRIVER", MessagingDriverKafka)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("NOTIFICATION_TOPIC", "appointment.notification.v1")
	v.SetDefault("APPOINTMENT_EDITED_TOPIC", "appointment.edited.v1")
	v.SetDefault("REDIS_STREAM_MAXLEN", 10000)

	v.SetDefault("NOTIFICATION_SUBJECT", "Health&Med - New appointment scheduled")
	v.SetDefault("NOTIFICATION_BODY", defaultNotificationBody)
	v.SetDefault("NOTIFICATION_TIMEZONE", "")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SAMPLING_RATIO", 1.0)

	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)
}

// LoadConfig reads the optional .env file and then the process environment.
// Environment variables win over .env values.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	opTimeout, err := time.ParseDuration(v.GetString("APP_OPERATION_TIMEOUT"))
	if err != nil || opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}

	userTTL, err := time.ParseDuration(v.GetString("REDIS_USER_TTL"))
	if err != nil {
		userTTL = 10 * time.Minute
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("MESSAGING_DRIVER")))
	if driver != MessagingDriverKafka && driver != MessagingDriverRedis {
		return nil, errors.New("MESSAGING_DRIVER must be either kafka or redis")
	}

	sampleRatio := v.GetFloat64("OTEL_SAMPLING_RATIO")
	if sampleRatio < 0 || sampleRatio > 1 {
		sampleRatio = 1
	}

	config := &Config{
		App: AppConfig{
			Name:             v.GetString("APP_NAME"),
			Port:             v.GetString("APP_PORT"),
			Env:              v.GetString("APP_ENV"),
			LogLevel:         v.GetString("LOG_LEVEL"),
			OperationTimeout: opTimeout,
		},
		DB: DBConfig{
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			Name:          v.GetString("DB_NAME"),
			SSLMode:       v.GetString("DB_SSLMODE"),
			RunMigrations: v.GetBool("DB_RUN_MIGRATIONS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			UserTTL:  userTTL,
		},
		Messaging: MessagingConfig{
			Driver:            driver,
			Brokers:           v.GetString("KAFKA_BROKERS"),
			NotificationTopic: v.GetString("NOTIFICATION_TOPIC"),
			EditedTopic:       v.GetString("APPOINTMENT_EDITED_TOPIC"),
			StreamMaxLen:      v.GetInt64("REDIS_STREAM_MAXLEN"),
		},
		Notification: NotificationConfig{
			Subject:  v.GetString("NOTIFICATION_SUBJECT"),
			Body:     v.GetString("NOTIFICATION_BODY"),
			Timezone: v.GetString("NOTIFICATION_TIMEZONE"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SampleRatio: sampleRatio,
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	return config, nil
}
