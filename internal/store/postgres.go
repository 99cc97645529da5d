// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"order-loadgen/internal/common/database"
	apperrors "order-loadgen/internal/common/errors"
	"order-loadgen/internal/common/logger"
	"order-loadgen/internal/models"
)

const (
	createTableQuery = `CREATE TABLE IF NOT EXISTS orders_json (
	order_uid TEXT PRIMARY KEY,
	data JSONB NOT NULL
)`
	insertOrderQuery = `INSERT INTO orders_json (order_uid, data) VALUES ($1, $2)`
	selectOrderQuery = `SELECT data FROM orders_json WHERE order_uid = $1`

	uniqueViolation = pq.ErrorCode("23505")
)

// Repository persists orders as whole JSON documents keyed by order_uid.
type Repository interface {
	Save(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderUID string) (*models.Order, error)
	Ping(ctx context.Context) error
}

type PostgresRepository struct {
	pg     *database.PostgresClient
	logger logger.Logger
}

func NewPostgresRepository(pg *database.PostgresClient, log logger.Logger) *PostgresRepository {
	return &PostgresRepository{pg: pg, logger: log}
}

// EnsureSchema creates the orders_json table if it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pg.Exec(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create orders_json: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return apperrors.NewPayloadInvalidError(err.Error())
	}

	if _, err := r.pg.Exec(ctx, insertOrderQuery, order.OrderUID, data); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.NewDuplicateOrderError(order.OrderUID)
		}
		return apperrors.NewDatabaseQueryFailedError(insertOrderQuery, err)
	}

	r.logger.Debug("order stored", map[string]interface{}{
		"orderUid": order.OrderUID,
		"bytes":    len(data),
	})
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, orderUID string) (*models.Order, error) {
	var data []byte
	err := r.pg.QueryRow(ctx, selectOrderQuery, orderUID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewOrderNotFoundError(orderUID)
		}
		return nil, apperrors.NewDatabaseQueryFailedError(selectOrderQuery, err)
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(selectOrderQuery, fmt.Errorf("decode stored order: %w", err))
	}
	return &order, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pg.Ping(ctx)
}
