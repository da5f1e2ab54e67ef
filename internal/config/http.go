package config

type HTTP struct {
	Port    uint32 `env:"HTTP_PORT" envDefault:"8000"`
	Swagger bool   `env:"HTTP_SWAGGER" envDefault:"true"`

	CorsOrigins []string `env:"HTTP_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// MaxUploadBytes caps the multipart body accepted by the import endpoints.
	MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// LoginRate is a ulule/limiter formatted rate, e.g. "20-M" for 20 per minute.
	LoginRate string `env:"HTTP_LOGIN_RATE" envDefault:"20-M"`
}
