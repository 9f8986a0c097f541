package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	API     API     `envPrefix:"API_"`
	Session Session `envPrefix:"SESSION_"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"devserver.db"`
	JWTSecret   string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	// VIPCode gates the admin "promote to VIP" action.
	VIPCode string `env:"VIP_CODE" envDefault:"VIP"`
}

// API configures the storefront's outbound marketplace client.
type API struct {
	BaseURL        string `env:"BASE_URL" envDefault:"http://localhost:8080/api"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"30"`
}

// Session configures the durable client-side session store.
type Session struct {
	DBPath string `env:"DB_PATH" envDefault:"storefront-session.db"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
