package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"

	"sekolahku_backend/internals/configs"
)

// OSSStore menyimpan object di Aliyun OSS.
type OSSStore struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	publicBase string
}

func NewOSSStore(cfg configs.StorageConfig) (*OSSStore, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSAccessKey == "" || cfg.OSSSecretKey == "" || cfg.OSSBucket == "" {
		return nil, errors.New("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if cfg.OSSSecurityToken != "" {
		client, err = oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey, oss.SecurityToken(cfg.OSSSecurityToken))
	} else {
		client, err = oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	}
	if err != nil {
		return nil, errors.Wrap(err, "oss.New")
	}

	bkt, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, errors.Wrap(err, "client.Bucket")
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(cfg.OSSBucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[OSS] warn: skip location check due to AccessDenied (bucket=%s). Continuing.", cfg.OSSBucket)
		} else {
			return nil, errors.Wrap(err, "verify bucket")
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", cfg.OSSBucket, loc)
	}

	s := &OSSStore{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   cfg.OSSEndpoint,
		BucketName: cfg.OSSBucket,
		publicBase: strings.TrimRight(strings.TrimSpace(cfg.OSSPublicBase), "/"),
	}
	if s.publicBase == "" {
		end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
		s.publicBase = fmt.Sprintf("https://%s.%s", s.BucketName, end)
	}
	return s, nil
}

func (s *OSSStore) Driver() string { return "oss" }

func (s *OSSStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentLength(size),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	return s.Bucket.PutObject(key, r, opts...)
}

func (s *OSSStore) Delete(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return s.publicBase + "/" + key
}

func (s *OSSStore) KeyFromURL(publicURL string) (string, error) {
	return keyUnder(s.publicBase, publicURL)
}
