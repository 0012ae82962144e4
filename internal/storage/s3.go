package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/golfcloud/backend/internal/config"
	"github.com/golfcloud/backend/internal/models"
)

// Suffix conventions for sidecar objects stored next to a video.
const (
	MetaSuffix  = ".meta.json"
	ThumbSuffix = ".thumb.jpg"
)

// IsSidecarKey reports whether a listed key names a sidecar rather than a
// playable video.
func IsSidecarKey(key string) bool {
	return strings.HasSuffix(key, MetaSuffix) || strings.HasSuffix(key, ThumbSuffix)
}

// ThumbKey derives the thumbnail sidecar key for a video key.
func ThumbKey(videoKey string) string {
	return videoKey + ThumbSuffix
}

// S3Gateway issues upload credentials and read URLs for an S3-compatible
// bucket and performs server-side puts, listings, and deletes. It is
// constructed once at startup and injected into handlers.
type S3Gateway struct {
	client    *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
	bucket    string
	baseURL   string
}

// NewS3Gateway configures a gateway targeting the provided object store.
func NewS3Gateway(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Gateway, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 gateway: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Gateway{
		client:    client,
		presigner: s3.NewPresignClient(client),
		uploader:  uploader,
		bucket:    cfg.Bucket,
		baseURL:   strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// PresignUpload returns a time-limited URL permitting a single direct PUT of
// the object under key.
func (g *S3Gateway) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (models.UploadCredential, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return models.UploadCredential{}, errors.New("s3 gateway: empty key")
	}

	req, err := g.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return models.UploadCredential{}, fmt.Errorf("presign put %s: %w", key, err)
	}

	return models.UploadCredential{
		Key:       key,
		URL:       req.URL,
		PublicURL: g.PublicURL(key),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// PresignFormUpload returns browser form-POST credentials for the object
// under key, constrained to the provided content type and maximum size.
func (g *S3Gateway) PresignFormUpload(ctx context.Context, key, contentType string, maxSize int64, ttl time.Duration) (models.UploadCredential, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return models.UploadCredential{}, errors.New("s3 gateway: empty key")
	}

	req, err := g.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = ttl
		o.Conditions = []interface{}{
			[]interface{}{"content-length-range", 0, maxSize},
			map[string]string{"Content-Type": contentType},
		}
	})
	if err != nil {
		return models.UploadCredential{}, fmt.Errorf("presign post %s: %w", key, err)
	}

	fields := make(map[string]string, len(req.Values)+1)
	for k, v := range req.Values {
		fields[k] = v
	}
	fields["Content-Type"] = contentType

	return models.UploadCredential{
		Key:       key,
		URL:       req.URL,
		Fields:    fields,
		PublicURL: g.PublicURL(key),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// SignedReadURL returns a short-lived GET URL for the object under key.
func (g *S3Gateway) SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("s3 gateway: empty key")
	}

	req, err := g.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}

	return req.URL, nil
}

// List returns descriptors for every object under the prefix. Callers are
// responsible for separating videos from sidecars by suffix convention.
func (g *S3Gateway) List(ctx context.Context, prefix string) ([]models.ObjectInfo, error) {
	var objects []models.ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(g.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(g.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			info := models.ObjectInfo{Key: aws.ToString(obj.Key)}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			if obj.LastModified != nil {
				info.LastModified = obj.LastModified.UTC()
			}
			objects = append(objects, info)
		}
	}

	return objects, nil
}

// Delete removes the object under key. The delete is idempotent: removing a
// key that does not exist succeeds. Sidecar siblings are never touched.
func (g *S3Gateway) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("s3 gateway: empty key")
	}

	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

// Put uploads the provided content server-side and returns its public location.
// Used for thumbnail sidecars, which arrive through the API rather than a
// presigned upload.
func (g *S3Gateway) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", errors.New("s3 gateway: empty key")
	}

	_, err := g.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        manager.ReadSeekCloser(r),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 gateway upload %s: %w", key, err)
	}

	return g.PublicURL(key), nil
}

// PublicURL builds the unauthenticated location for a key when a public base
// URL is configured, falling back to the bare key.
func (g *S3Gateway) PublicURL(key string) string {
	if g.baseURL == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", g.baseURL, key)
}
