package schema

import "time"

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "shop.orders",
	"name": "order_placed",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_item",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "name", "type": "string"},
					{"name": "unit_price_cents", "type": "long"},
					{"name": "quantity", "type": "int"}
				]
			}
		}},
		{"name": "total_cents", "type": "long"},
		{"name": "currency", "type": "string"},
		{"name": "placed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

const OrderPaidSchemaTextV1 = `{
	"type": "record",
	"namespace": "shop.orders",
	"name": "order_paid",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "total_cents", "type": "long"},
		{"name": "currency", "type": "string"},
		{"name": "paid_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type (
	OrderPlacedV1 struct {
		OrderID    string        `avro:"order_id"`
		Items      []OrderItemV1 `avro:"items"`
		TotalCents int64         `avro:"total_cents"`
		Currency   string        `avro:"currency"`
		PlacedAt   time.Time     `avro:"placed_at"`
	}

	OrderItemV1 struct {
		ProductID      string `avro:"product_id"`
		Name           string `avro:"name"`
		UnitPriceCents int64  `avro:"unit_price_cents"`
		Quantity       int    `avro:"quantity"`
	}
)

type OrderPaidV1 struct {
	OrderID    string    `avro:"order_id"`
	TotalCents int64     `avro:"total_cents"`
	Currency   string    `avro:"currency"`
	PaidAt     time.Time `avro:"paid_at"`
}
