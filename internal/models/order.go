// internal/models/order.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultOrderPrefix is the fixed head of every generated order_uid.
	DefaultOrderPrefix = "b563feb7b2b84b6"

	itemRIDPrefix = "ab4219087a764ae0b"
	testMarker    = "test"
)

type Order struct {
	OrderUID          string       `json:"order_uid"`
	TrackNumber       string       `json:"track_number"`
	Entry             string       `json:"entry"`
	Delivery          DeliveryInfo `json:"delivery"`
	Payment           PaymentInfo  `json:"payment"`
	Items             []ItemInfo   `json:"items"`
	Locale            string       `json:"locale"`
	InternalSignature string       `json:"internal_signature"`
	CustomerID        string       `json:"customer_id"`
	DeliveryService   string       `json:"delivery_service"`
	Shardkey          string       `json:"shardkey"`
	SmID              uint64       `json:"sm_id"`
	DateCreated       string       `json:"date_created"`
	OofShard          string       `json:"oof_shard"`
}

type DeliveryInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Zip     string `json:"zip"`
	City    string `json:"city"`
	Address string `json:"address"`
	Region  string `json:"region"`
	Email   string `json:"email"`
}

type PaymentInfo struct {
	Transaction  string `json:"transaction"`
	RequestID    string `json:"request_id"`
	Currency     string `json:"currency"`
	Provider     string `json:"provider"`
	Amount       uint32 `json:"amount"`
	PaymentDt    int64  `json:"payment_dt"`
	Bank         string `json:"bank"`
	DeliveryCost uint32 `json:"delivery_cost"`
	GoodsTotal   uint32 `json:"goods_total"`
	CustomFee    uint32 `json:"custom_fee"`
}

type ItemInfo struct {
	ChrtID      uint64 `json:"chrt_id"`
	TrackNumber string `json:"track_number"`
	Price       uint32 `json:"price"`
	RID         string `json:"rid"`
	Name        string `json:"name"`
	Sale        uint32 `json:"sale"`
	Size        string `json:"size"`
	TotalPrice  uint32 `json:"total_price"`
	NmID        uint64 `json:"nm_id"`
	Brand       string `json:"brand"`
	Status      uint32 `json:"status"`
}

// OrderUID returns the order identifier for index i. The lookup path of an
// order is always built from this value.
func OrderUID(prefix string, index int) string {
	return prefix + testMarker + strconv.Itoa(index)
}

// ItemRID returns the item rid for index i.
func ItemRID(index int) string {
	return itemRIDPrefix + testMarker + strconv.Itoa(index)
}

// CustomerID returns the customer identifier for index i.
func CustomerID(index int) string {
	return testMarker + strconv.Itoa(index)
}

// OrderPath is the service path that serves the order built for index i.
func OrderPath(ordersPath, prefix string, index int) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(ordersPath, "/"), OrderUID(prefix, index))
}

// BuildOrder renders the order template for a single index. Every call
// returns a fresh value; nothing is shared between callers.
func BuildOrder(prefix string, index int) *Order {
	uid := OrderUID(prefix, index)

	return &Order{
		OrderUID:    uid,
		TrackNumber: "WBILMTESTTRACK",
		Entry:       "WBIL",
		Delivery: DeliveryInfo{
			Name:    "Test Testov",
			Phone:   "+9720000000",
			Zip:     "2639809",
			City:    "Kiryat Mozkin",
			Address: "Ploshad Mira 15",
			Region:  "Kraiot",
			Email:   "test@gmail.com",
		},
		Payment: PaymentInfo{
			Transaction:  uid,
			RequestID:    "",
			Currency:     "USD",
			Provider:     "wbpay",
			Amount:       1817,
			PaymentDt:    1637907727,
			Bank:         "alpha",
			DeliveryCost: 1500,
			GoodsTotal:   317,
			CustomFee:    0,
		},
		Items: []ItemInfo{
			{
				ChrtID:      9934930,
				TrackNumber: "WBILMTESTTRACK",
				Price:       453,
				RID:         ItemRID(index),
				Name:        "Mascaras",
				Sale:        30,
				Size:        "0",
				TotalPrice:  317,
				NmID:        2389212,
				Brand:       "Vivienne Sabo",
				Status:      202,
			},
		},
		Locale:            "en",
		InternalSignature: "",
		CustomerID:        CustomerID(index),
		DeliveryService:   "meest",
		Shardkey:          "9",
		SmID:              99,
		DateCreated:       "2021-11-26T06:22:19Z",
		OofShard:          "1",
	}
}
