package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ErrClientNotInitialized means credential or config resolution failed when
// the client was first needed. The state is permanent until the process is
// reconfigured; every operation keeps returning it.
var ErrClientNotInitialized = errors.New("S3 client not initialized")

// RemoteError is a rejection from the object store itself: the service was
// reached but refused the operation.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ObjectStore is the capability the metric store is built on: put, get,
// list and a bucket probe. Implementations report failures as typed errors,
// never as silent empty results.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string, maxKeys int) ([]string, error)
	HeadBucket(ctx context.Context) error
	Bucket() string
	Region() string
}

// S3GatewayConfig configures the S3 gateway.
type S3GatewayConfig struct {
	Bucket   string
	Region   string
	Endpoint string // for S3-compatible services (MinIO, etc.)
	// Static credentials for local development. In production prefer IAM
	// roles, instance profiles or the standard AWS environment variables.
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// S3Gateway wraps an S3 bucket behind ObjectStore. The underlying client is
// built lazily on first use and shared by all callers; if credential
// resolution fails the gateway degrades to a permanent unavailable state
// instead of crashing at startup.
type S3Gateway struct {
	cfg S3GatewayConfig

	once    sync.Once
	client  *s3.Client
	initErr error
}

// NewS3Gateway validates cfg and returns a gateway. No network or credential
// work happens here; that is deferred to the first operation.
func NewS3Gateway(cfg S3GatewayConfig) (*S3Gateway, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	return &S3Gateway{cfg: cfg}, nil
}

func (g *S3Gateway) Bucket() string { return g.cfg.Bucket }
func (g *S3Gateway) Region() string { return g.cfg.Region }

// s3Client resolves the shared client, building it exactly once. Concurrent
// first users block on the same initialization.
func (g *S3Gateway) s3Client(ctx context.Context) (*s3.Client, error) {
	g.once.Do(func() {
		// Detached from the caller: the client outlives the first request,
		// and a cancelled first request must not stick the gateway in the
		// unavailable state reserved for config resolution failures.
		initCtx := context.WithoutCancel(ctx)

		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(g.cfg.Region),
		}
		if g.cfg.AccessKeyID != "" && g.cfg.SecretAccessKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(g.cfg.AccessKeyID, g.cfg.SecretAccessKey, ""),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(initCtx, opts...)
		if err != nil {
			g.initErr = fmt.Errorf("%w: %v", ErrClientNotInitialized, err)
			return
		}

		var s3Opts []func(*s3.Options)
		if g.cfg.Endpoint != "" {
			s3Opts = append(s3Opts, func(o *s3.Options) {
				o.BaseEndpoint = aws.String(g.cfg.Endpoint)
				o.UsePathStyle = g.cfg.UsePathStyle
			})
		}
		g.client = s3.NewFromConfig(awsCfg, s3Opts...)
	})

	if g.initErr != nil {
		return nil, g.initErr
	}
	return g.client, nil
}

// Put writes body at key with the given content type.
func (g *S3Gateway) Put(ctx context.Context, key string, body []byte, contentType string) error {
	client, err := g.s3Client(ctx)
	if err != nil {
		return err
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return asRemoteError(err)
	}
	return nil
}

// Get reads the object at key.
func (g *S3Gateway) Get(ctx context.Context, key string) ([]byte, error) {
	client, err := g.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, asRemoteError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return data, nil
}

// List returns up to maxKeys object keys under prefix. A single page is
// enough here; callers never ask for more than one listing's worth.
func (g *S3Gateway) List(ctx context.Context, prefix string, maxKeys int) ([]string, error) {
	client, err := g.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(g.cfg.Bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(int32(maxKeys)),
	})
	if err != nil {
		return nil, asRemoteError(err)
	}

	keys := make([]string, 0, len(resp.Contents))
	for _, obj := range resp.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys, nil
}

// HeadBucket probes the bucket for existence and access.
func (g *S3Gateway) HeadBucket(ctx context.Context) error {
	client, err := g.s3Client(ctx)
	if err != nil {
		return err
	}
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(g.cfg.Bucket),
	})
	if err != nil {
		return asRemoteError(err)
	}
	return nil
}

// asRemoteError maps SDK errors onto RemoteError, keeping the provider's
// error code and message.
func asRemoteError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage()}
	}
	return err
}
