package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Archive writes JSON snapshots into one bucket, used for offloading
// expired audit data before it is purged from Postgres.
type Archive struct {
	client *minio.Client
	bucket string
}

func NewArchive(client *minio.Client, bucket string) (*Archive, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	return &Archive{client: client, bucket: bucket}, nil
}

func (a *Archive) PutJSON(ctx context.Context, objectKey string, payload []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, objectKey, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return nil
}
