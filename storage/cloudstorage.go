package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/jobgenie/backend/config"
	"github.com/jobgenie/backend/utils"
)

const maxResumeBytes = 2 * 1024 * 1024

// CloudStorageClient reads saved resume text from Google Cloud Storage
type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

// NewCloudStorageClient creates a new Cloud Storage client
func NewCloudStorageClient(ctx context.Context, cfg *config.Config) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud Storage client: %w", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: cfg.ResumeBucketName,
	}, nil
}

// Close closes the Cloud Storage client
func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

// ResumeText downloads the resume at resumeURL and returns it as plain text
func (c *CloudStorageClient) ResumeText(ctx context.Context, resumeURL string) (string, error) {
	objectName, err := objectName(c.bucketName, resumeURL)
	if err != nil {
		return "", err
	}

	rc, err := c.client.Bucket(c.bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create reader: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxResumeBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	return utils.ResumeText(data, path.Base(objectName)), nil
}

// objectName accepts https://storage.googleapis.com/<bucket>/<object>,
// gs://<bucket>/<object> or a bare object name
func objectName(bucket, resumeURL string) (string, error) {
	for _, prefix := range []string{
		fmt.Sprintf("https://storage.googleapis.com/%s/", bucket),
		fmt.Sprintf("gs://%s/", bucket),
	} {
		if strings.HasPrefix(resumeURL, prefix) {
			return strings.TrimPrefix(resumeURL, prefix), nil
		}
	}
	if strings.Contains(resumeURL, "://") || resumeURL == "" {
		return "", fmt.Errorf("invalid resume URL format")
	}
	return strings.TrimPrefix(resumeURL, "/"), nil
}
