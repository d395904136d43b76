package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MeloFM/logger"

	"github.com/minio/minio-go/v7"
)

// MediaCache is the durable offline cache for media assets, keyed by the
// resolved asset URL and backed by a MinIO bucket.
type MediaCache struct {
	client *minio.Client
	bucket string
	http   *http.Client
}

// NewMediaCache creates a cache over the given bucket.
func NewMediaCache(client *minio.Client, bucket string) *MediaCache {
	return &MediaCache{
		client: client,
		bucket: bucket,
		http:   &http.Client{Timeout: 5 * time.Minute},
	}
}

// objectName derives the bucket object key from the asset URL path.
func objectName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid asset url %q: %w", rawURL, err)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "", fmt.Errorf("asset url %q has no path", rawURL)
	}
	return "media/" + name, nil
}

// Has reports whether the asset is already cached.
func (c *MediaCache) Has(ctx context.Context, rawURL string) (bool, error) {
	name, err := objectName(rawURL)
	if err != nil {
		return false, err
	}

	_, err = c.client.StatObject(ctx, c.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat cached media %s: %w", name, err)
	}
	return true, nil
}

// Store fetches the asset over HTTP and writes it into the bucket. The caller
// is expected to have checked Has first; storing an existing key simply
// overwrites it with identical content.
func (c *MediaCache) Store(ctx context.Context, rawURL string) error {
	name, err := objectName(rawURL)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build media request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch media %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("media fetch for %s returned status %d", rawURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	_, err = c.client.PutObject(ctx, c.bucket, name, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store media %s: %w", name, err)
	}

	logger.Debug("媒体资源已写入缓存",
		logger.String("url", rawURL),
		logger.String("object", name))
	return nil
}
