package services

import "github.com/bimodwien/full-ecommerce-new/internal/domain"

// StockTotal sums the stock across a product's variants.
func StockTotal(variants []domain.ProductVariant) int {
	total := 0
	for _, v := range variants {
		total += v.Stock
	}
	return total
}

// StockStatusFor classifies a summed stock total.
func StockStatusFor(total int) string {
	switch {
	case total <= 0:
		return domain.StockOutOfStock
	case total < 5:
		return domain.StockLowStock
	default:
		return domain.StockInStock
	}
}
