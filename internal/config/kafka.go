package config

type Kafka struct {
	// Enabled switches the outbox relay and the event consumer on. With it off,
	// outbox messages accumulate in Postgres until a relay runs.
	Enabled   bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	Addresses []string `env:"KAFKA_ADDRESSES" envSeparator:"," envDefault:"localhost:9092"`
	Group     string   `env:"KAFKA_GROUP" envDefault:"bizdesk"`
}
