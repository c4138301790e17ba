package db

import (
	"errors"
	"fmt"
	"testing"

	"lucy-college/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "college",
		Password: "p@ss word",
		DBName:   "lucy_college",
	})

	assert.Equal(t, "postgres://college:p%40ss%20word@db:5432/lucy_college?sslmode=disable", dsn)
}

func TestViolationPredicates_IgnoreForeignErrors(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", errors.New("connection refused"))

	assert.False(t, IsUniqueViolation(err, ""))
	assert.False(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(nil, ""))
}
