package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveExplicitOverride(t *testing.T) {
	t.Setenv("INSTANCE_ID", "env-id")

	// A config override wins over the environment.
	assert.Equal(t, "cfg-id", Resolve(context.Background(), "cfg-id"))
}

func TestResolveFromEnvironment(t *testing.T) {
	t.Setenv("INSTANCE_ID", "i-0abc123")

	assert.Equal(t, "i-0abc123", Resolve(context.Background(), ""))
}

func TestResolveFallsBack(t *testing.T) {
	t.Setenv("INSTANCE_ID", "")

	// Off EC2 the metadata lookup fails fast and the hostname is used;
	// either way something non-empty comes back.
	assert.NotEmpty(t, Resolve(context.Background(), ""))
}
