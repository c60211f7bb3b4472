package app

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestKeyspace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		cmd  redis.Cmder
		want string
	}{
		{redis.NewStringCmd(ctx, "get", "session:abc"), "session"},
		{redis.NewStatusCmd(ctx, "set", "seats:trip-1", "[]"), "seats"},
		{redis.NewBoolCmd(ctx, "setnx", "lock:seat:trip-1:seat-1", "BK1"), "lock"},
		{redis.NewStringCmd(ctx, "get", "idempotency:POST:/v1/sessions:k"), "idempotency"},
		{redis.NewStatusCmd(ctx, "ping"), "redis"},
		{redis.NewStringCmd(ctx, "get", "plainkey"), "redis"},
	}

	for _, tt := range tests {
		if got := keyspace(tt.cmd); got != tt.want {
			t.Errorf("%v: expected %q, got %q", tt.cmd.Args(), tt.want, got)
		}
	}
}
