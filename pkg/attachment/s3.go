package attachment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of the AWS S3 API the store uses. Declared as an
// interface so tests can substitute a mock.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config contains configuration for the S3 attachment store.
type S3Config struct {
	Bucket         string `env:"ATTACHMENT_S3_BUCKET"`
	Region         string `env:"ATTACHMENT_S3_REGION"`
	AccessKeyID    string `env:"ATTACHMENT_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"ATTACHMENT_S3_SECRET_KEY"`
	Endpoint       string `env:"ATTACHMENT_S3_ENDPOINT"`         // optional: S3-compatible services
	ForcePathStyle bool   `env:"ATTACHMENT_S3_FORCE_PATH_STYLE"` // for services like MinIO
}

// S3Store keeps attachment files in an S3 (or S3-compatible) bucket.
// It is safe for concurrent use.
type S3Store struct {
	client S3Client
	bucket string
}

// S3Option configures the S3 store.
type S3Option func(*s3Options)

type s3Options struct {
	client S3Client
}

// WithS3Client sets a pre-configured client, bypassing AWS config
// loading. Useful for tests.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) {
		o.client = client
	}
}

// NewS3Store creates an S3-backed attachment store.
func NewS3Store(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("attachment: s3 bucket is required")
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		if cfg.Region == "" {
			return nil, errors.New("attachment: s3 region is required")
		}

		awsOptions := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID, cfg.SecretKey, "",
				)),
			)
		}

		awsConfig, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Save uploads the content under a fresh reference.
func (s *S3Store) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ref := newRef(filename)

	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Join(ErrFailedToReadFile, err)
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
		Body:   bytes.NewReader(data),
	}); err != nil {
		return "", errors.Join(ErrFailedToWriteFile, err)
	}
	return ref, nil
}

// Fetch downloads the full object for a reference.
func (s *S3Store) Fetch(ctx context.Context, ref string) (*File, error) {
	if !validRef(ref) {
		return nil, ErrInvalidRef
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrFileNotFound
		}
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &File{
		Ref:         ref,
		Filename:    path.Base(ref),
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// Delete removes the object for a reference. S3 treats deleting a missing
// key as success, which matches the local store semantics.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if !validRef(ref) {
		return ErrInvalidRef
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}); err != nil {
		return errors.Join(ErrFailedToDeleteFile, err)
	}
	return nil
}

// Exists checks whether a reference resolves to a stored object.
func (s *S3Store) Exists(ctx context.Context, ref string) bool {
	if !validRef(ref) {
		return false
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	return err == nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
