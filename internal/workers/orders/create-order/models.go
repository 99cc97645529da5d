// internal/workers/orders/create-order/models.go
package createorder

// Result describes one accepted order submission.
type Result struct {
	Index      int    `json:"index"`
	OrderUID   string `json:"orderUid"`
	StatusCode int    `json:"statusCode"`
}
