package repository_test

import (
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/nikolayk812/rocketcart/internal/port"
	"github.com/nikolayk812/rocketcart/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type redisStorageSuite struct {
	suite.Suite

	storage   port.Storage
	client    *redis.Client
	container *tcredis.RedisContainer
}

func TestRedisStorageSuite(t *testing.T) {
	suite.Run(t, new(redisStorageSuite))
}

func (suite *redisStorageSuite) SetupSuite() {
	ctx := testContext(suite.T())

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startRedis(ctx)
	suite.Require().NoError(err)

	opts, err := redis.ParseURL(connStr)
	suite.Require().NoError(err)

	suite.client = redis.NewClient(opts)
	suite.storage = repository.NewRedis(suite.client)
}

func (suite *redisStorageSuite) TearDownSuite() {
	if suite.client != nil {
		suite.NoError(suite.client.Close())
	}
	suite.NoError(terminateContainer(suite.container))
}

func (suite *redisStorageSuite) TestGetSet() {
	tests := []struct {
		name      string
		key       string
		values    [][]byte
		wantErrIs error
		wantError string
	}{
		{
			name:   "set then get: ok",
			key:    randomKey(),
			values: [][]byte{randomValue()},
		},
		{
			name:   "overwrite: last value wins",
			key:    randomKey(),
			values: [][]byte{randomValue(), randomValue()},
		},
		{
			name:      "get missing key: not found",
			key:       randomKey(),
			wantErrIs: domain.ErrNotFound,
		},
		{
			name:      "empty key: error",
			key:       "",
			values:    [][]byte{randomValue()},
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := testContext(t)

			for _, value := range tt.values {
				err := suite.storage.Set(ctx, tt.key, value)
				if tt.wantError != "" {
					require.EqualError(t, err, tt.wantError)
					return
				}
				require.NoError(t, err)
			}

			got, err := suite.storage.Get(ctx, tt.key)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.values[len(tt.values)-1], got)
		})
	}
}
