package minio

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver stores the final logs of deleted jobs in an object bucket.
type Archiver struct {
	client *minioSDK.Client
	bucket string
}

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// New connects to the object store and makes sure the bucket exists.
func New(ctx context.Context, opts Options) (*Archiver, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	client, err := minioSDK.New(opts.Endpoint, &minioSDK.Options{
		Creds:     credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:    opts.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minioSDK.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
		}
		log.Printf("bucket created: %s", opts.Bucket)
	}
	return &Archiver{client: client, bucket: opts.Bucket}, nil
}

// LogObjectName is the key under which the logs of one pod are stored.
func LogObjectName(jobID uint, pod string) string {
	return fmt.Sprintf("jobs/%d/%s.log", jobID, pod)
}

// Archive uploads r as a plain text object. The size is unknown so the
// upload is streamed in parts.
func (a *Archiver) Archive(ctx context.Context, objectName string, r io.Reader) error {
	if strings.TrimSpace(objectName) == "" {
		return fmt.Errorf("object name cannot be empty")
	}
	_, err := a.client.PutObject(ctx, a.bucket, objectName, r, -1, minioSDK.PutObjectOptions{
		ContentType: "text/plain",
	})
	return err
}
