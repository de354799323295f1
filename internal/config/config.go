package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

func Load() error {
	// API Configuration
	viper.SetDefault("API_ADDR", ":8080")
	viper.SetDefault("API_URL", "http://localhost:8080")
	viper.SetDefault("CORS_ORIGINS", "*")

	// Database Configuration. DB_DSN has no default: the process must be
	// pointed at a database explicitly.
	viper.SetDefault("DB_DRIVER", "pgx")
	if err := viper.BindEnv("DB_DSN", "DB_DSN", "DATABASE_URL"); err != nil {
		return err
	}

	// MQTT Configuration
	viper.SetDefault("MQTT_BROKER", "tcp://localhost:1883")
	viper.SetDefault("MQTT_CLIENT_ID", "iot-sensor-collector")
	viper.SetDefault("MQTT_READINGS_TOPIC", "sensors/readings")
	viper.SetDefault("MQTT_COMMAND_TOPIC", "sensors/commands")
	viper.SetDefault("MQTT_COMMANDS_ENABLED", "false")

	// AWS Configuration
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_S3_BUCKET", "iot-sensor-archive")
	viper.SetDefault("USE_CLOUD_SERVICES", "false") // Toggle for local vs cloud

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", "false")

	viper.AutomaticEnv()
	return nil
}

// Validate reports missing settings the store cannot start without.
func Validate() error {
	if DBDSN() == "" {
		return fmt.Errorf("DB_DSN (or DATABASE_URL) is not set: %w", domain.ErrConfig)
	}
	switch DBDriver() {
	case "pgx", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q: %w", DBDriver(), domain.ErrConfig)
	}
	return nil
}

func APIAddr() string           { return viper.GetString("API_ADDR") }
func APIURL() string            { return viper.GetString("API_URL") }
func DBDriver() string          { return viper.GetString("DB_DRIVER") }
func DBDSN() string             { return viper.GetString("DB_DSN") }
func MQTTBroker() string        { return viper.GetString("MQTT_BROKER") }
func MQTTClientID() string      { return viper.GetString("MQTT_CLIENT_ID") }
func MQTTReadingsTopic() string { return viper.GetString("MQTT_READINGS_TOPIC") }
func MQTTCommandTopic() string  { return viper.GetString("MQTT_COMMAND_TOPIC") }
func MQTTCommandsEnabled() bool { return viper.GetBool("MQTT_COMMANDS_ENABLED") }
func AWSRegion() string         { return viper.GetString("AWS_REGION") }
func S3Bucket() string          { return viper.GetString("AWS_S3_BUCKET") }
func UseCloudServices() bool    { return viper.GetBool("USE_CLOUD_SERVICES") }
func CORSOrigins() string       { return strings.TrimSpace(viper.GetString("CORS_ORIGINS")) }

// SetupLogging applies LOG_LEVEL and LOG_PRETTY to the global zerolog logger.
func SetupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if viper.GetBool("LOG_PRETTY") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
