package config

type Dashboard struct {
	// LowStockThreshold is inclusive: products with stock <= threshold are reported.
	LowStockThreshold int `env:"DASHBOARD_LOW_STOCK_THRESHOLD" envDefault:"10"`
}
