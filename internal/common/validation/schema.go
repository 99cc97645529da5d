package validation

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	apperrors "order-loadgen/internal/common/errors"
)

//go:embed order.schema.json
var orderSchemaJSON string

var (
	orderSchemaOnce sync.Once
	orderSchema     *gojsonschema.Schema
	orderSchemaErr  error
)

func compiledOrderSchema() (*gojsonschema.Schema, error) {
	orderSchemaOnce.Do(func() {
		orderSchema, orderSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(orderSchemaJSON))
	})
	return orderSchema, orderSchemaErr
}

// ValidateOrder checks a Go value (usually *models.Order) against the order schema.
func ValidateOrder(order interface{}) error {
	return validate(gojsonschema.NewGoLoader(order))
}

// ValidateOrderJSON checks a raw JSON document against the order schema.
func ValidateOrderJSON(document []byte) error {
	return validate(gojsonschema.NewBytesLoader(document))
}

func validate(documentLoader gojsonschema.JSONLoader) error {
	schema, err := compiledOrderSchema()
	if err != nil {
		return fmt.Errorf("compile order schema: %w", err)
	}

	result, err := schema.Validate(documentLoader)
	if err != nil {
		return apperrors.NewPayloadInvalidError(err.Error())
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewPayloadInvalidError(strings.Join(errs, "; "))
	}
	return nil
}
