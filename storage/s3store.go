package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/texuf/towns-utils/types"
)

// ReportStore uploads operator reports to an S3 compatible bucket.
type ReportStore struct {
	client     *minio.Client
	bucket     string
	pathPrefix string
}

func NewReportStore(ctx context.Context, config *types.S3StoreConfig) (*ReportStore, error) {
	if config.Endpoint == "" || config.Bucket == "" {
		return nil, fmt.Errorf("report store endpoint and bucket are required")
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.Secure,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", config.Bucket)
	}

	return &ReportStore{
		client:     client,
		bucket:     config.Bucket,
		pathPrefix: strings.Trim(config.PathPrefix, "/"),
	}, nil
}

// ObjectKey returns the key of a report of the given environment taken at the given time.
func ObjectKey(pathPrefix string, environment string, at time.Time) string {
	at = at.UTC()
	return path.Join(pathPrefix, environment, at.Format("2006-01-02"), fmt.Sprintf("operators_%v.json", at.Format("150405")))
}

// StoreReport uploads the report as json and also overwrites the environment's latest.json.
func (s *ReportStore) StoreReport(ctx context.Context, environment string, report *types.OperatorsReport, at time.Time) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := ObjectKey(s.pathPrefix, environment, at)
	for _, objectKey := range []string{key, path.Join(s.pathPrefix, environment, "latest.json")} {
		_, err = s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/json",
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload report %v: %w", objectKey, err)
		}
	}

	return key, nil
}
