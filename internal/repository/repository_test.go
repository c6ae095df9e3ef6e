package repository_test

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_kv_entries.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func startRedis(ctx context.Context) (*tcredis.RedisContainer, string, error) {
	redisContainer, err := tcredis.Run(ctx, "redis:7.4-alpine")
	if err != nil {
		return nil, "", fmt.Errorf("tcredis.Run: %w", err)
	}

	connStr, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("rc.ConnectionString: %w", err)
	}

	return redisContainer, connStr, nil
}

func randomKey() string {
	return "@" + gofakeit.AppName() + ":cart:" + gofakeit.UUID()
}

// randomValue returns a JSON document shaped like a persisted cart.
func randomValue() []byte {
	type line struct {
		ID     int64   `json:"id"`
		Title  string  `json:"title"`
		Price  float64 `json:"price"`
		Image  string  `json:"image"`
		Amount int64   `json:"amount"`
	}

	lines := make([]line, gofakeit.Number(1, 4))
	for i := range lines {
		lines[i] = line{
			ID:     int64(i + 1),
			Title:  gofakeit.ProductName(),
			Price:  gofakeit.Price(1, 500),
			Image:  gofakeit.URL(),
			Amount: int64(gofakeit.Number(1, 9)),
		}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		panic(err)
	}

	return data
}
