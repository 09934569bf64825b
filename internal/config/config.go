package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port           string   `mapstructure:"port"`
		Env            string   `mapstructure:"env"`
		PublicBaseURL  string   `mapstructure:"public_base_url"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"app"`
	DB struct {
		DSN        string `mapstructure:"dsn"`
		Migrations string `mapstructure:"migrations"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Admin struct {
		Username     string `mapstructure:"username"`
		Password     string `mapstructure:"password"`
		PasswordHash string `mapstructure:"password_hash"`
		MarkerStore  string `mapstructure:"marker_store"`
	} `mapstructure:"admin"`
	Storage struct {
		Provider        string        `mapstructure:"provider"`
		Endpoint        string        `mapstructure:"endpoint"`
		Key             string        `mapstructure:"key"`
		ImageBucket     string        `mapstructure:"image_bucket"`
		CVBucket        string        `mapstructure:"cv_bucket"`
		DocumentsBucket string        `mapstructure:"documents_bucket"`
		CacheControl    string        `mapstructure:"cache_control"`
		UploadTimeout   time.Duration `mapstructure:"upload_timeout"`
	} `mapstructure:"storage"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Content struct {
		Persist          bool   `mapstructure:"persist"`
		Store            string `mapstructure:"store"`
		SnapshotKey      string `mapstructure:"snapshot_key"`
		MaxSnapshotBytes int    `mapstructure:"max_snapshot_bytes"`
	} `mapstructure:"content"`
	Assets struct {
		MaxUploadBytes    int64         `mapstructure:"max_upload_bytes"`
		TransientTTL      time.Duration `mapstructure:"transient_ttl"`
		TransientCapacity int           `mapstructure:"transient_capacity"`
		NoticeHistory     int           `mapstructure:"notice_history"`
	} `mapstructure:"assets"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
		ServiceName  string `mapstructure:"service_name"`
	} `mapstructure:"tracing"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.public_base_url", "http://localhost:8080")
	v.SetDefault("app.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("db.migrations", "file://migrations")
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.marker_store", "redis")
	v.SetDefault("storage.provider", "bucket")
	v.SetDefault("storage.image_bucket", "portfolio-images")
	v.SetDefault("storage.cv_bucket", "portfolio-cv")
	v.SetDefault("storage.documents_bucket", "portfolio-documents")
	v.SetDefault("storage.cache_control", "3600")
	v.SetDefault("storage.upload_timeout", 30*time.Second)
	v.SetDefault("content.persist", true)
	v.SetDefault("content.store", "redis")
	v.SetDefault("content.snapshot_key", "portfolio_live_data")
	v.SetDefault("content.max_snapshot_bytes", 5<<20)
	v.SetDefault("assets.max_upload_bytes", 10<<20)
	v.SetDefault("assets.transient_ttl", time.Hour)
	v.SetDefault("assets.transient_capacity", 64)
	v.SetDefault("assets.notice_history", 50)
	v.SetDefault("tracing.service_name", "portfolio-cms")
}

// LoadConfig reads .env, an optional config.yaml under path and the process
// environment, in increasing order of precedence.
func LoadConfig(path string) (cfg Config, err error) {
	if err = godotenv.Load(path + "/.env"); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.public_base_url", "PUBLIC_BASE_URL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.migrations", "DB_MIGRATIONS")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	v.BindEnv("admin.username", "ADMIN_USERNAME")
	v.BindEnv("admin.password", "ADMIN_PASSWORD")
	v.BindEnv("admin.password_hash", "ADMIN_PASSWORD_HASH")

	v.BindEnv("storage.provider", "STORAGE_PROVIDER")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT", "SUPABASE_URL")
	v.BindEnv("storage.key", "STORAGE_KEY", "SUPABASE_KEY")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")

	if err = v.Unmarshal(&cfg); err != nil {
		return
	}

	// comma separated env values arrive as a single element
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}
	return cfg, nil
}
