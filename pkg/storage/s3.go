package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNoBucket = errors.New("S3_BUCKET is required")

type Config struct {
	Bucket          string        `envconfig:"S3_BUCKET"`
	Region          string        `envconfig:"S3_REGION" default:"us-east-1"`
	Endpoint        string        `envconfig:"S3_ENDPOINT"`
	AccessKeyID     string        `envconfig:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string        `envconfig:"S3_SECRET_ACCESS_KEY"`
	PresignTTL      time.Duration `envconfig:"S3_PRESIGN_TTL" default:"15m"`
}

func (c Config) Enabled() bool {
	return c.Bucket != ""
}

type S3 struct {
	client     *s3.Client
	bucket     string
	baseURL    string
	presignTTL time.Duration
}

func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	if !cfg.Enabled() {
		return nil, ErrNoBucket
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// minio and other s3-compatible stores
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		baseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/"
	}
	return &S3{
		client:     client,
		bucket:     cfg.Bucket,
		baseURL:    baseURL,
		presignTTL: cfg.PresignTTL,
	}, nil
}

// Upload stores body under prefix and returns the object key.
func (s *S3) Upload(ctx context.Context, prefix, filename string, body io.Reader, contentType string) (string, error) {
	key := prefix + uuid.NewString() + filepath.Ext(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "put object")
	}
	return key, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// PresignedGetURL returns a temporary download URL for key.
func (s *S3) PresignedGetURL(ctx context.Context, key string) (string, error) {
	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignTTL
	})
	if err != nil {
		return "", errors.Wrap(err, "presign")
	}
	return req.URL, nil
}

// ObjectURL is the permanent address of key; the bucket may still require
// a presigned URL to read it.
func (s *S3) ObjectURL(key string) string {
	return s.baseURL + key
}

// KeyFromURL reports the object key when url points into this bucket.
func (s *S3) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, s.baseURL) {
		return "", false
	}
	key := strings.TrimPrefix(url, s.baseURL)
	return key, key != ""
}
