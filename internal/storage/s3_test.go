package storage

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cfg "github.com/templui/fittrack/internal/config"
)

func TestNewWithoutBucket(t *testing.T) {
	s, err := New(context.Background(), &cfg.Config{S3Region: "us-east-1"})
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestURLPresignsPathStyle(t *testing.T) {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("minio", "minio-secret", ""),
		BaseEndpoint: aws.String("http://localhost:9000"),
		UsePathStyle: true,
	})
	s := &S3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        "fittrack",
		publicURL:     "http://localhost:9000/fittrack",
		presignExpiry: time.Hour,
	}

	url := s.URL(context.Background(), "public/recipes/abc.png")
	assert.Contains(t, url, "http://localhost:9000/fittrack/public/recipes/abc.png")
	assert.Contains(t, url, "X-Amz-Expires=3600")
	assert.Contains(t, url, "X-Amz-Signature=")
}
