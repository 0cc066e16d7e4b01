package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"

	"github.com/saudelog/agenda-api/pkg/circuitbreaker"
)

type GCSConfig struct {
	Bucket         string
	UploadExpiry   time.Duration
	DownloadExpiry time.Duration
}

// GCSPresigner signs V4 URLs against a single bucket using ambient
// credentials.
type GCSPresigner struct {
	client         *gcs.Client
	bucket         string
	uploadExpiry   time.Duration
	downloadExpiry time.Duration
	cb             *circuitbreaker.CircuitBreaker
}

func NewGCSPresigner(ctx context.Context, cfg GCSConfig) (*GCSPresigner, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	if cfg.UploadExpiry <= 0 {
		cfg.UploadExpiry = 15 * time.Minute
	}
	if cfg.DownloadExpiry <= 0 {
		cfg.DownloadExpiry = 5 * time.Minute
	}

	return &GCSPresigner{
		client:         client,
		bucket:         cfg.Bucket,
		uploadExpiry:   cfg.UploadExpiry,
		downloadExpiry: cfg.DownloadExpiry,
		cb: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "gcs",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
	}, nil
}

func (p *GCSPresigner) PresignUpload(ctx context.Context, object, contentType string) (*UploadDescriptor, error) {
	expires := time.Now().Add(p.uploadExpiry)

	var url string
	err := p.cb.Execute(func() error {
		var signErr error
		url, signErr = p.client.Bucket(p.bucket).SignedURL(object, &gcs.SignedURLOptions{
			Scheme:      gcs.SigningSchemeV4,
			Method:      http.MethodPut,
			Expires:     expires,
			ContentType: contentType,
		})
		return signErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload URL: %w", err)
	}

	return &UploadDescriptor{
		URL:    url,
		Method: http.MethodPut,
		Headers: map[string]string{
			"Content-Type": contentType,
		},
		Expires: expires,
	}, nil
}

func (p *GCSPresigner) PresignDownload(ctx context.Context, object string) (string, error) {
	var url string
	err := p.cb.Execute(func() error {
		var signErr error
		url, signErr = p.client.Bucket(p.bucket).SignedURL(object, &gcs.SignedURLOptions{
			Scheme:  gcs.SigningSchemeV4,
			Method:  http.MethodGet,
			Expires: time.Now().Add(p.downloadExpiry),
		})
		return signErr
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign download URL: %w", err)
	}
	return url, nil
}

func (p *GCSPresigner) Stat(ctx context.Context, object string) (*ObjectInfo, error) {
	var attrs *gcs.ObjectAttrs
	err := p.cb.Execute(func() error {
		var statErr error
		attrs, statErr = p.client.Bucket(p.bucket).Object(object).Attrs(ctx)
		return statErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return &ObjectInfo{
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
	}, nil
}

func (p *GCSPresigner) Delete(ctx context.Context, object string) error {
	err := p.cb.Execute(func() error {
		return p.client.Bucket(p.bucket).Object(object).Delete(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (p *GCSPresigner) Close() error {
	return p.client.Close()
}
