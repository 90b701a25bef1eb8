package s3client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const DefaultRegion = "ap-southeast-1"

type Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string // optional, for S3-compatible stores
	Bucket    string
}

// Client reads objects from a single bucket.
type Client struct {
	api    s3iface.S3API
	bucket string
}

// New initializes the S3 client using static AWS credentials
func New(cfg Config) (*Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("AWS_ACCESS_KEY and AWS_SECRET_KEY must be set")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket must be set")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	awsCfg := &aws.Config{
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:      aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return NewWithAPI(s3.New(sess), cfg.Bucket), nil
}

func NewWithAPI(api s3iface.S3API, bucket string) *Client {
	return &Client{api: api, bucket: bucket}
}

// GetObject retrieves an object from the bucket
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	result, err := c.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}
