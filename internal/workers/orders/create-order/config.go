// internal/workers/orders/create-order/config.go
package createorder

import "order-loadgen/internal/common/config"

type Config struct {
	OrdersPath      string
	IDPrefix        string
	ValidatePayload bool
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		OrdersPath:      cfg.Target.OrdersPath,
		IDPrefix:        cfg.Batch.IDPrefix,
		ValidatePayload: cfg.Batch.ValidatePayload,
	}
}
