package identity

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// imdsTimeout bounds the metadata-service lookup so non-EC2 hosts do not
// stall startup waiting on a link-local address.
const imdsTimeout = 1 * time.Second

// Resolve determines the instance identity reported by health checks and
// attached to system metrics. Order: explicit override (config), the
// INSTANCE_ID environment variable, the EC2 metadata service, and finally
// the hostname for anything not running on EC2.
func Resolve(ctx context.Context, override string) string {
	if override != "" {
		return override
	}
	if id := os.Getenv("INSTANCE_ID"); id != "" {
		return id
	}
	if id, err := fromIMDS(ctx); err == nil && id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

func fromIMDS(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, imdsTimeout)
	defer cancel()

	client := imds.New(imds.Options{})
	out, err := client.GetMetadata(ctx, &imds.GetMetadataInput{Path: "instance-id"})
	if err != nil {
		return "", err
	}
	defer out.Content.Close()

	data, err := io.ReadAll(out.Content)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
