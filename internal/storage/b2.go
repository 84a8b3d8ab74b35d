package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// B2Store keeps images in a Backblaze B2 bucket and returns their public URLs
type B2Store struct {
	client *b2.Client
	bucket *b2.Bucket
}

// NewB2Store connects to B2 and resolves the bucket
func NewB2Store(ctx context.Context, keyID, appKey, bucketName string) (*B2Store, error) {
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &B2Store{client: client, bucket: bucket}, nil
}

// Save uploads r as name and returns the object's URL
func (s *B2Store) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if !validName(name) {
		return "", ErrInvalidName
	}

	obj := s.bucket.Object(name)
	w := obj.NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return obj.URL(), nil
}

// Delete removes the object from the bucket
func (s *B2Store) Delete(ctx context.Context, name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	return s.bucket.Object(name).Delete(ctx)
}
