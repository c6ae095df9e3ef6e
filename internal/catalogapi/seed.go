package catalogapi

import (
	"fmt"
	"os"

	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type seedFile struct {
	Products []struct {
		ID    int64   `yaml:"id"`
		Title string  `yaml:"title"`
		Price float64 `yaml:"price"`
		Image string  `yaml:"image"`
	} `yaml:"products"`
	Stock []struct {
		ID     int64 `yaml:"id"`
		Amount int64 `yaml:"amount"`
	} `yaml:"stock"`
}

// Catalog is the read-only data served by the API.
type Catalog struct {
	Products []domain.Product
	Stock    map[int64]int64
}

func LoadSeed(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	return ParseSeed(data)
}

func ParseSeed(data []byte) (Catalog, error) {
	var seed seedFile
	if err := yaml.UnmarshalStrict(data, &seed); err != nil {
		return Catalog{}, fmt.Errorf("yaml.UnmarshalStrict: %w", err)
	}

	catalog := Catalog{
		Products: make([]domain.Product, 0, len(seed.Products)),
		Stock:    make(map[int64]int64, len(seed.Stock)),
	}

	seen := make(map[int64]struct{}, len(seed.Products))
	for _, p := range seed.Products {
		if p.ID <= 0 {
			return Catalog{}, fmt.Errorf("product[%s]: %w", p.Title, domain.ErrInvalidProductID)
		}
		if _, ok := seen[p.ID]; ok {
			return Catalog{}, fmt.Errorf("product[%d] is duplicated", p.ID)
		}
		seen[p.ID] = struct{}{}

		catalog.Products = append(catalog.Products, domain.Product{
			ID:    p.ID,
			Title: p.Title,
			Price: decimal.NewFromFloat(p.Price),
			Image: p.Image,
		})
	}

	for _, s := range seed.Stock {
		if s.Amount < 0 {
			return Catalog{}, fmt.Errorf("stock[%d] is negative", s.ID)
		}
		catalog.Stock[s.ID] = s.Amount
	}

	return catalog, nil
}
