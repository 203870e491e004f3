package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"lexvault/internal/domain/service"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

var _ service.FileStorage = (*CloudStorageClient)(nil)

func (c *CloudStorageClient) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	obj := c.client.Bucket(c.bucketName).Object(key)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.Metadata = metadata
	wc.CacheControl = "private, no-store"

	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to write object to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %v", err)
	}

	return nil
}

func (c *CloudStorageClient) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := c.client.Bucket(c.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open object reader: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %v", err)
	}

	return data, nil
}

func (c *CloudStorageClient) SignedDownloadURL(ctx context.Context, key, filename string, inline bool, expiry time.Duration) (string, error) {
	disposition := "inline"
	if !inline {
		disposition = fmt.Sprintf(`attachment; filename="%s"`, filename)
	}

	opts := &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(expiry),
		Scheme:  storage.SigningSchemeV4,
		QueryParameters: url.Values{
			"response-content-disposition": {disposition},
		},
	}

	signed, err := c.client.Bucket(c.bucketName).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %v", err)
	}

	return signed, nil
}

func (c *CloudStorageClient) SignedUploadURL(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     time.Now().Add(expiry),
		Scheme:      storage.SigningSchemeV4,
	}

	signed, err := c.client.Bucket(c.bucketName).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed upload URL: %v", err)
	}

	return signed, nil
}

func (c *CloudStorageClient) Delete(ctx context.Context, key string) error {
	obj := c.client.Bucket(c.bucketName).Object(key)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object: %v", err)
	}

	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
