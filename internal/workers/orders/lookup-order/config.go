// internal/workers/orders/lookup-order/config.go
package lookuporder

import "order-loadgen/internal/common/config"

type Config struct {
	OrdersPath       string
	IDPrefix         string
	ValidateResponse bool
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		OrdersPath:       cfg.Target.OrdersPath,
		IDPrefix:         cfg.Batch.IDPrefix,
		ValidateResponse: cfg.Batch.ValidateResponse,
	}
}
