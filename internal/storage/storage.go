// Package storage keeps product and case photos in an S3-compatible bucket
// (Cloudflare R2 or AWS S3).
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ThumbnailWidth is the width of generated JPEG thumbnails; height keeps the
// aspect ratio.
const ThumbnailWidth = 400

var ErrInvalidDataURI = errors.New("invalid data URI")

// Store turns inline photos and generated files into stored objects.
type Store interface {
	// SavePhoto uploads photo when it is a data URI and returns the value to
	// persist in its place. Anything else is returned unchanged.
	SavePhoto(ctx context.Context, prefix, photo string) (string, error)
	// SaveFile uploads data and returns its public URL, or "" when files
	// cannot be published.
	SaveFile(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// BucketStore uploads to a single bucket and serves objects from
// PublicBaseURL.
type BucketStore struct {
	client        putter
	bucket        string
	publicBaseURL string
}

func NewBucketStore(ctx context.Context, cfg Config) (*BucketStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newBucketStore(client, cfg.Bucket, cfg.PublicBaseURL), nil
}

func newBucketStore(client putter, bucket, publicBaseURL string) *BucketStore {
	return &BucketStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

func (s *BucketStore) SavePhoto(ctx context.Context, prefix, photo string) (string, error) {
	if !IsDataURI(photo) {
		return photo, nil
	}

	mimeType, data, err := ParseDataURI(photo)
	if err != nil {
		return "", err
	}

	thumb, err := Thumbnail(data)
	if err != nil {
		return "", fmt.Errorf("decode photo: %w", err)
	}

	name := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102"), uuid.NewString())
	key := path.Join(prefix, name+extensionFor(mimeType))
	if err := s.put(ctx, key, data, mimeType); err != nil {
		return "", err
	}
	if err := s.put(ctx, path.Join(prefix, "thumbnails", name+".jpg"), thumb, "image/jpeg"); err != nil {
		return "", err
	}
	return s.url(key), nil
}

func (s *BucketStore) SaveFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := s.put(ctx, key, data, contentType); err != nil {
		return "", err
	}
	return s.url(key), nil
}

func (s *BucketStore) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *BucketStore) url(key string) string {
	if s.publicBaseURL == "" {
		return key
	}
	return s.publicBaseURL + "/" + key
}

// Passthrough is used when no bucket is configured: photos are stored as sent.
type Passthrough struct{}

func (Passthrough) SavePhoto(ctx context.Context, prefix, photo string) (string, error) {
	return photo, nil
}

func (Passthrough) SaveFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "", nil
}

func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURI decodes a base64 data URI such as
// "data:image/png;base64,iVBOR...".
func ParseDataURI(s string) (string, []byte, error) {
	if !IsDataURI(s) {
		return "", nil, ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}

	mimeType, params, _ := strings.Cut(header, ";")
	if !strings.Contains(params, "base64") {
		return "", nil, ErrInvalidDataURI
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mimeType, data, nil
}

// Thumbnail decodes an image and returns a JPEG resized to ThumbnailWidth.
func Thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	thumbnail := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}
