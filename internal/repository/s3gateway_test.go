package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestNewS3GatewayRequiresBucket(t *testing.T) {
	_, err := NewS3Gateway(S3GatewayConfig{})
	assert.Error(t, err)
}

func TestNewS3GatewayDefaultsRegion(t *testing.T) {
	gateway, err := NewS3Gateway(S3GatewayConfig{Bucket: "devops-metrics-bucket"})
	assert.NoError(t, err)
	assert.Equal(t, "devops-metrics-bucket", gateway.Bucket())
	assert.Equal(t, "us-east-1", gateway.Region())

	gateway, err = NewS3Gateway(S3GatewayConfig{Bucket: "b", Region: "eu-west-1"})
	assert.NoError(t, err)
	assert.Equal(t, "eu-west-1", gateway.Region())
}

func TestS3ClientInitDetachedFromCallerContext(t *testing.T) {
	gateway, err := NewS3Gateway(S3GatewayConfig{
		Bucket:          "devops-metrics-bucket",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
	})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled first caller must not poison the shared client.
	client, err := gateway.s3Client(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, client)

	// Later callers get the same client; init ran exactly once.
	again, err := gateway.s3Client(context.Background())
	assert.NoError(t, err)
	assert.Same(t, client, again)
}

func TestRemoteErrorFormat(t *testing.T) {
	err := &RemoteError{Code: "NoSuchBucket", Message: "bucket missing"}
	assert.Equal(t, "NoSuchBucket: bucket missing", err.Error())
}

func TestAsRemoteError(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"}
	wrapped := fmt.Errorf("operation failed: %w", apiErr)

	mapped := asRemoteError(wrapped)
	var remote *RemoteError
	assert.True(t, errors.As(mapped, &remote))
	assert.Equal(t, "AccessDenied", remote.Code)
	assert.Equal(t, "nope", remote.Message)

	// Non-API errors pass through unchanged.
	plain := errors.New("dial tcp: timeout")
	assert.Equal(t, plain, asRemoteError(plain))
}
