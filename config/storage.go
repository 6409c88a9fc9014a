package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// ObjectGetter is the subset of the S3 client used to fetch the dataset
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds S3 client info
type S3Config struct {
	Client ObjectGetter
}

// NewS3Config initializes the S3 client from the default AWS credential chain
func NewS3Config(ctx context.Context, region string) (*S3Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// IsS3URI reports whether a dataset path points at an S3 object
func IsS3URI(uri string) bool {
	return strings.HasPrefix(uri, s3Scheme)
}

// ParseS3URI splits s3://bucket/key into its bucket and key
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	rest := strings.TrimPrefix(uri, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri must be s3://bucket/key: %q", uri)
	}
	return bucket, key, nil
}

// FetchDataset downloads the object at uri into destDir and returns the local
// file path. The file is written to a temporary name and renamed into place.
func (s *S3Config) FetchDataset(ctx context.Context, uri, destDir string) (string, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return "", err
	}

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", uri, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create dataset cache dir: %w", err)
	}
	dest := filepath.Join(destDir, path.Base(key))

	tmp, err := os.CreateTemp(destDir, ".dataset-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, out.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to download %s: %w", uri, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move dataset into place: %w", err)
	}
	return dest, nil
}
