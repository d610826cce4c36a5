package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

const (
	StockInStock    = "IN_STOCK"
	StockLowStock   = "LOW_STOCK"
	StockOutOfStock = "OUT_OF_STOCK"
)

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

type Product struct {
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	Description     string          `db:"description" json:"description,omitempty"`
	DescriptionHTML string          `db:"description_html" json:"descriptionHtml,omitempty"`
	Price           decimal.Decimal `db:"price" json:"price"`
	SellerID        string          `db:"seller_id" json:"sellerId"`
	CategoryID      string          `db:"category_id" json:"categoryId,omitempty"`
	CreatedAt       string          `db:"created_at" json:"createdAt"`
	UpdatedAt       string          `db:"updated_at" json:"updatedAt"`
}

type ProductImage struct {
	ID        string `db:"id" json:"id"`
	Data      []byte `db:"data" json:"-"`
	IsPrimary bool   `db:"is_primary" json:"isPrimary"`
	ProductID string `db:"product_id" json:"productId"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

type ProductVariant struct {
	ID        string `db:"id" json:"id"`
	Variant   string `db:"variant" json:"variant"`
	Stock     int    `db:"stock" json:"stock"`
	ProductID string `db:"product_id" json:"productId"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

// CartLine is one cart row: a (user, product, optional variant) triple with a
// quantity. VariantID is empty when the line is not bound to a variant.
type CartLine struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	ProductID string `db:"product_id" json:"productId"`
	VariantID string `db:"variant_id" json:"variantId,omitempty"`
	Quantity  int    `db:"quantity" json:"quantity"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

type WishlistLine struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	ProductID string `db:"product_id" json:"productId"`
	VariantID string `db:"variant_id" json:"variantId,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

// Order rows exist in the schema but no exposed operation mutates them.
type Order struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"userId"`
	Total     decimal.Decimal `db:"total" json:"total"`
	Status    string          `db:"status" json:"status"`
	CreatedAt string          `db:"created_at" json:"createdAt"`
}

type OrderItem struct {
	OrderID   string          `db:"order_id" json:"orderId"`
	ProductID string          `db:"product_id" json:"productId"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

// Now returns the timestamp format stored in every created_at/updated_at
// column. Nanosecond precision keeps insertion order stable for rows created
// in the same transaction.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// ParseTime reads a stored timestamp back into a time.Time; zero on failure.
func ParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
