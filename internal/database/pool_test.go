package database

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/cybertec-postgresql/pgscan/internal/errors"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

func TestNewPoolInvalidConnectionString(t *testing.T) {
	_, err := NewPool(context.Background(), &types.Config{ConnectionString: "port=notanumber"})
	if err == nil {
		t.Fatal("expected an error for a malformed connection string")
	}

	var connErr *errors.ConnectionError
	if !stderrors.As(err, &connErr) {
		t.Fatalf("expected *errors.ConnectionError, got %T", err)
	}
	if connErr.Suggestion == "" {
		t.Error("expected a suggestion for a malformed connection string")
	}
	if !strings.Contains(err.Error(), "invalid connection configuration") {
		t.Errorf("unexpected message: %v", err)
	}
}
