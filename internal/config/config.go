package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Storage       StorageConfig
	Bootstrap     BootstrapConfig
	Records       RecordsConfig
	CargoRequests CargoRequestsConfig
	MQTT          MQTTConfig
	Maintenance   MaintenanceConfig
	Log           LogConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type StorageConfig struct {
	UploadDir      string
	DocumentDir    string
	MaxUploadBytes int64
}

type BootstrapConfig struct {
	ManagerEmail    string
	CredentialsFile string
}

// RecordsConfig maps a role to the email domain its records must use.
type RecordsConfig struct {
	EmployeeDomain string
	ManagerDomain  string
	ClientDomain   string
}

const (
	ModifyApprovalAdvisory = "advisory"
	ModifyApprovalApply    = "apply"
)

type CargoRequestsConfig struct {
	ModifyApprovalMode string
}

type MQTTConfig struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         int
}

type MaintenanceConfig struct {
	Schedule string
}

type LogConfig struct {
	File string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENVIRONMENT", "development")

	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_SQLITE_PATH", "company.db")

	viper.SetDefault("JWT_EXPIRY_HOURS", 24)

	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	viper.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Authorization,X-Request-ID")
	viper.SetDefault("CORS_EXPOSED_HEADERS", "X-Request-ID")
	viper.SetDefault("CORS_MAX_AGE", int(12*time.Hour))

	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("DOCUMENT_DIR", "uploads/documents")
	viper.SetDefault("MAX_UPLOAD_BYTES", 10<<20)

	viper.SetDefault("BOOTSTRAP_MANAGER_EMAIL", "manager@manager.com")
	viper.SetDefault("BOOTSTRAP_CREDENTIALS_FILE", "manager_credentials.txt")

	viper.SetDefault("RECORDS_EMPLOYEE_DOMAIN", "employee.com")
	viper.SetDefault("RECORDS_MANAGER_DOMAIN", "manager.com")
	viper.SetDefault("RECORDS_CLIENT_DOMAIN", "client.com")

	viper.SetDefault("CARGO_MODIFY_APPROVAL_MODE", ModifyApprovalAdvisory)

	viper.SetDefault("MQTT_ENABLED", false)
	viper.SetDefault("MQTT_BROKER", "tcp://localhost:1883")
	viper.SetDefault("MQTT_CLIENT_ID", "company-data-manager")
	viper.SetDefault("MQTT_TOPIC_PREFIX", "company")
	viper.SetDefault("MQTT_QOS", 1)

	viper.SetDefault("MAINTENANCE_SCHEDULE", "@hourly")
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			DBName:     viper.GetString("DB_NAME"),
			SSLMode:    viper.GetString("DB_SSLMODE"),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods:   splitList(viper.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders:   splitList(viper.GetString("CORS_ALLOWED_HEADERS")),
			ExposedHeaders:   splitList(viper.GetString("CORS_EXPOSED_HEADERS")),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
		Storage: StorageConfig{
			UploadDir:      viper.GetString("UPLOAD_DIR"),
			DocumentDir:    viper.GetString("DOCUMENT_DIR"),
			MaxUploadBytes: viper.GetInt64("MAX_UPLOAD_BYTES"),
		},
		Bootstrap: BootstrapConfig{
			ManagerEmail:    strings.ToLower(viper.GetString("BOOTSTRAP_MANAGER_EMAIL")),
			CredentialsFile: viper.GetString("BOOTSTRAP_CREDENTIALS_FILE"),
		},
		Records: RecordsConfig{
			EmployeeDomain: viper.GetString("RECORDS_EMPLOYEE_DOMAIN"),
			ManagerDomain:  viper.GetString("RECORDS_MANAGER_DOMAIN"),
			ClientDomain:   viper.GetString("RECORDS_CLIENT_DOMAIN"),
		},
		CargoRequests: CargoRequestsConfig{
			ModifyApprovalMode: strings.ToLower(viper.GetString("CARGO_MODIFY_APPROVAL_MODE")),
		},
		MQTT: MQTTConfig{
			Enabled:     viper.GetBool("MQTT_ENABLED"),
			Broker:      viper.GetString("MQTT_BROKER"),
			ClientID:    viper.GetString("MQTT_CLIENT_ID"),
			Username:    viper.GetString("MQTT_USERNAME"),
			Password:    viper.GetString("MQTT_PASSWORD"),
			TopicPrefix: viper.GetString("MQTT_TOPIC_PREFIX"),
			QoS:         viper.GetInt("MQTT_QOS"),
		},
		Maintenance: MaintenanceConfig{
			Schedule: viper.GetString("MAINTENANCE_SCHEDULE"),
		},
		Log: LogConfig{
			File: viper.GetString("LOG_FILE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks settings whose values are restricted to a fixed set.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.Database.Driver)
	}

	switch c.CargoRequests.ModifyApprovalMode {
	case ModifyApprovalAdvisory, ModifyApprovalApply:
	default:
		return fmt.Errorf("unsupported CARGO_MODIFY_APPROVAL_MODE %q (want advisory or apply)", c.CargoRequests.ModifyApprovalMode)
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.SQLitePath)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// DomainFor returns the email domain records of the given role must use.
func (c *RecordsConfig) DomainFor(role string) string {
	switch role {
	case "manager":
		return c.ManagerDomain
	case "client":
		return c.ClientDomain
	default:
		return c.EmployeeDomain
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
