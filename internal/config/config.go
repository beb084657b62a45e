package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuracion del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// Proveedor de IA: "gemini" u "openai" (cualquier API compatible).
	AIProvider       string `env:"AI_PROVIDER" envDefault:"gemini"`
	AIAPIKey         string `env:"AI_API_KEY"`
	AIBaseURL        string `env:"AI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	AIModel          string `env:"AI_MODEL" envDefault:"gemini-2.5-flash"`
	AIEmbeddingModel string `env:"AI_EMBEDDING_MODEL"`
	AITimeoutSeconds int    `env:"AI_TIMEOUT_SECONDS" envDefault:"15"`

	// Secreto compartido para verificar la firma HMAC de los webhooks.
	ShopifyAPISecret string `env:"SHOPIFY_API_SECRET"`

	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
