// internal/workers/orders/lookup-order/models.go
package lookuporder

import "encoding/json"

// Result carries the order document exactly as the service sent it,
// compacted to a single line.
type Result struct {
	Index    int             `json:"index"`
	OrderUID string          `json:"orderUid"`
	Body     json.RawMessage `json:"body"`
}
