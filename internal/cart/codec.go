package cart

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/shopspring/decimal"
)

// productJSON is the persisted shape of a line item. Price is written as a JSON
// number; quoted numbers are accepted on read.
type productJSON struct {
	ID     int64       `json:"id"`
	Title  string      `json:"title"`
	Price  json.Number `json:"price"`
	Image  string      `json:"image"`
	Amount int64       `json:"amount"`
}

func encodeCart(items []domain.Product) ([]byte, error) {
	rows := make([]productJSON, 0, len(items))
	for _, item := range items {
		rows = append(rows, productJSON{
			ID:     item.ID,
			Title:  item.Title,
			Price:  json.Number(item.Price.String()),
			Image:  item.Image,
			Amount: item.Amount,
		})
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func decodeCart(data []byte) ([]domain.Product, error) {
	var rows []productJSON
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		price, err := decimal.NewFromString(row.Price.String())
		if err != nil {
			return nil, fmt.Errorf("price[%s] of product[%d] is not valid: %w", row.Price, row.ID, err)
		}

		items = append(items, domain.Product{
			ID:     row.ID,
			Title:  row.Title,
			Price:  price,
			Image:  row.Image,
			Amount: row.Amount,
		})
	}

	return items, nil
}

// normalize drops entries that break the cart invariants: non-positive amounts
// and repeated IDs (the first occurrence wins).
func normalize(items []domain.Product) (_ []domain.Product, dropped int) {
	seen := make(map[int64]struct{}, len(items))
	result := make([]domain.Product, 0, len(items))

	for _, item := range items {
		if item.Amount <= 0 {
			dropped++
			continue
		}
		if _, ok := seen[item.ID]; ok {
			dropped++
			continue
		}
		seen[item.ID] = struct{}{}
		result = append(result, item)
	}

	return result, dropped
}
