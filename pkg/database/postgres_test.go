package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/training-hours-api/pkg/config"
)

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "svc",
		Password: "pw",
		Name:     "training",
		SSLMode:  "require",
	})
	assert.Equal(t, "host=db port=5433 user=svc password=pw dbname=training sslmode=require", dsn)
}
