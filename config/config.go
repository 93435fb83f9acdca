package config

import "time"

type Config struct {
	AppName                       string `env:"APP_NAME" env-default:"clover-api"`
	Port                          int    `env:"PORT" env-default:"3004"`
	LogLevel                      string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool   `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int    `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"60"`
	HttpServerReadTimeoutSeconds  int    `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"60"`
	HttpServerIdleTimeoutSeconds  int    `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int    `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	MaxImageBytes                 int64  `env:"HTTP_SERVER_MAX_IMAGE_BYTES" env-default:"10485760"`
	StartupMaxAttempts            int    `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL
	DatabaseHost                  string        `env:"DB_HOST" env-default:"localhost"`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"clover"`
	DatabaseSSLMode               string        `env:"DB_SSL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Sheet source defaults (per-collector overrides live in collector_settings)
	SheetBaseURL        string        `env:"SHEET_BASE_URL" env-default:""`
	SheetColumnHeader   string        `env:"SHEET_COLUMN_HEADER" env-default:"Card"`
	SheetFetchTimeout   time.Duration `env:"SHEET_FETCH_TIMEOUT" env-default:"30s"`
	SheetMaxBodyBytes   int64         `env:"SHEET_MAX_BODY_BYTES" env-default:"5242880"`
	SheetMaxListEntries int           `env:"SHEET_MAX_LIST_ENTRIES" env-default:"10000"`

	// Vision inference
	VisionBaseURL     string        `env:"VISION_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	VisionAPIKey      string        `env:"VISION_API_KEY" env-default:""`
	VisionModel       string        `env:"VISION_MODEL" env-default:"gemini-2.0-flash"`
	VisionTemperature float64       `env:"VISION_TEMPERATURE" env-default:"0"`
	VisionMaxTokens   int           `env:"VISION_MAX_TOKENS" env-default:"2048"`
	VisionTimeout     time.Duration `env:"VISION_TIMEOUT" env-default:"60s"`

	// Matching thresholds
	MatchContainmentThreshold float64 `env:"MATCH_CONTAINMENT_THRESHOLD" env-default:"0.7"`
	MatchFuzzyThreshold       float64 `env:"MATCH_FUZZY_THRESHOLD" env-default:"0.75"`

	// Kafka Producer settings
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"true"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"scan-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Tracing
	TracingEnabled      bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingOTLPEndpoint string `env:"TRACING_OTLP_ENDPOINT" env-default:"localhost:4317"`
	TracingOTLPProtocol string `env:"TRACING_OTLP_PROTOCOL" env-default:"grpc"`
	TracingInsecure     bool   `env:"TRACING_INSECURE" env-default:"true"`
}
