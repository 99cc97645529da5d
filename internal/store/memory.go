// internal/store/memory.go
package store

import (
	"context"
	"encoding/json"
	"sync"

	apperrors "order-loadgen/internal/common/errors"
	"order-loadgen/internal/models"
)

// MemoryRepository keeps orders in process. It has the same duplicate and
// not-found semantics as PostgresRepository.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string][]byte)}
}

func (r *MemoryRepository) Save(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return apperrors.NewPayloadInvalidError(err.Error())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.OrderUID]; exists {
		return apperrors.NewDuplicateOrderError(order.OrderUID)
	}
	r.orders[order.OrderUID] = data
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, orderUID string) (*models.Order, error) {
	r.mu.RLock()
	data, ok := r.orders[orderUID]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewOrderNotFoundError(orderUID)
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }

// Len is the number of stored orders.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
