package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"

	"sekolahku_backend/internals/configs"
)

// S3Store menyimpan object di AWS S3 (atau endpoint kompatibel S3).
type S3Store struct {
	svc        *s3.S3
	bucket     string
	publicBase string
}

func NewS3Store(cfg configs.StorageConfig) (*S3Store, error) {
	if cfg.S3Region == "" || cfg.S3Bucket == "" {
		return nil, errors.New("missing env: AWS_REGION/AWS_S3_BUCKET")
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "aws session")
	}

	base := strings.TrimRight(cfg.S3PublicBase, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
	return &S3Store{svc: s3.New(sess), bucket: cfg.S3Bucket, publicBase: base}, nil
}

func (s *S3Store) Driver() string { return "s3" }

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		return errors.New("s3 butuh io.ReadSeeker")
	}
	_, err := s.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	return err
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Store) PublicURL(key string) string { return s.publicBase + "/" + key }

func (s *S3Store) KeyFromURL(publicURL string) (string, error) {
	return keyUnder(s.publicBase, publicURL)
}
