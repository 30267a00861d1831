package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"makeoverapi/config"
)

// ImageBucket stores wardrobe photos and look images by object key.
type ImageBucket interface {
	// PresignUpload returns a URL the client PUTs the photo to.
	PresignUpload(ctx context.Context, key string) (string, error)
	PresignRead(ctx context.Context, key string) (string, error)
	PutImage(ctx context.Context, key string, image []byte) error
}

const presignTTL = 15 * time.Minute

var allowedUploadMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/heic": true,
	"image/webp": true,
}

// R2Bucket talks to Cloudflare R2 through its S3 compatible API.
type R2Bucket struct {
	name    string
	client  *s3.Client
	presign *s3.PresignClient
}

func NewR2Bucket(ctx context.Context, r2 config.R2Config) (*R2Bucket, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: r2.Endpoint()}, nil
	})
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2.AccessKeyID, r2.AccessKeySecret, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &R2Bucket{
		name:    r2.Bucket,
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

func (b *R2Bucket) PresignUpload(ctx context.Context, key string) (string, error) {
	request, err := b.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign upload %s: %w", key, err)
	}
	return request.URL, nil
}

func (b *R2Bucket) PresignRead(ctx context.Context, key string) (string, error) {
	request, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign read %s: %w", key, err)
	}
	return request.URL, nil
}

// PutImage uploads an already encoded image. Only the photo formats the app
// produces are accepted.
func (b *R2Bucket) PutImage(ctx context.Context, key string, image []byte) error {
	contentType := http.DetectContentType(image)
	if !allowedUploadMimeTypes[contentType] {
		return fmt.Errorf("unsupported image type: %s", contentType)
	}
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
