package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"infographica/internal/model"
)

// S3Config mirrors the teacher's artifact.S3Config field-for-field.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store is the production Store, grounded on the teacher's S3Store
// (internal/gateway/repository/artifact/s3_store.go) with objects keyed
// by content hash instead of run-id/path. Each object's expiry is written
// as "expires-at" user metadata; the store itself never deletes expired
// objects.
type S3Store struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{client: client, bucketName: bucket, region: region}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("store is nil")
	}
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Store) Put(ctx context.Context, a model.Artifact, ttl time.Duration) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	exists, err := s.objectExists(ctx, a.Hash)
	if err != nil {
		return "", err
	}
	if exists {
		return s.GetURL(ctx, a.Hash)
	}

	_, err = s.client.PutObject(ctx, s.bucketName, a.Hash, bytes.NewReader(a.Bytes), int64(len(a.Bytes)), minio.PutObjectOptions{
		ContentType:  a.ContentType,
		UserMetadata: map[string]string{"expires-at": time.Now().Add(ttl).Format(time.RFC3339)},
	})
	if err != nil {
		return "", err
	}
	return s.GetURL(ctx, a.Hash)
}

func (s *S3Store) objectExists(ctx context.Context, hash string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucketName, hash, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3Store) Get(ctx context.Context, hash string) (model.Artifact, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return model.Artifact{}, fmt.Errorf("ensure bucket: %w", err)
	}
	obj, err := s.client.GetObject(ctx, s.bucketName, hash, minio.GetObjectOptions{})
	if err != nil {
		return model.Artifact{}, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return model.Artifact{}, ErrNotFound
		}
		return model.Artifact{}, err
	}
	info, err := obj.Stat()
	if err != nil {
		return model.Artifact{}, err
	}
	return model.Artifact{Bytes: data, ContentType: info.ContentType, Hash: hash}, nil
}

func (s *S3Store) Exists(ctx context.Context, hash string) (bool, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return false, fmt.Errorf("ensure bucket: %w", err)
	}
	return s.objectExists(ctx, hash)
}

// GetURL returns a presigned download URL, valid for one hour.
func (s *S3Store) GetURL(ctx context.Context, hash string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, hash, time.Hour, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
