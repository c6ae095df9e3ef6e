package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Product is a cart line item.
type Product struct {
	ID     int64
	Title  string
	Price  decimal.Decimal
	Image  string
	Amount int64
}

type Stock struct {
	ProductID int64
	Amount    int64
}

type AmountUpdate struct {
	ProductID int64
	Amount    int64
}

type Totals struct {
	Distinct int
	Items    int64
	Subtotal Money
}

// CalculateTotals sums the cart in the given currency. Prices are assumed to be
// already expressed in that currency.
func CalculateTotals(items []Product, unit currency.Unit) Totals {
	subtotal := decimal.Zero
	var count int64

	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(item.Amount)))
		count += item.Amount
	}

	return Totals{
		Distinct: len(items),
		Items:    count,
		Subtotal: Money{Amount: subtotal, Currency: unit},
	}
}
