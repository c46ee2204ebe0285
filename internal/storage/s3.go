package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	appConfig "storagebackup/config"
)

const (
	s3Delimiter       = "/"
	defaultS3PageSize = 1000
)

type s3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ s3API = (*s3.Client)(nil)

// S3 reads the project's buckets through the S3-compatible endpoint.
// Offset paging is emulated with continuation tokens, so pages must be
// requested in order. Not safe for concurrent use.
type S3 struct {
	api        s3API
	downloader *manager.Downloader
	cursors    map[string]s3Cursor
}

// s3Cursor is where the next sequential page starts. done marks a prefix
// whose listing ended exactly on a page boundary.
type s3Cursor struct {
	token string
	done  bool
}

func NewS3(cfg *appConfig.Config) (*S3, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.S3AccessKey,
				SecretAccessKey: cfg.S3SecretKey,
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL())
		o.UsePathStyle = true
	})

	return newS3(client), nil
}

func newS3(api s3API) *S3 {
	return &S3{
		api: api,
		downloader: manager.NewDownloader(api, func(d *manager.Downloader) {
			d.Concurrency = 1
		}),
		cursors: make(map[string]s3Cursor),
	}
}

func (c *S3) ListBuckets(ctx context.Context) ([]Bucket, error) {
	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, newError("list_buckets", "", "", classifyS3Error(err))
	}

	buckets := make([]Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		name := aws.ToString(b.Name)
		buckets = append(buckets, Bucket{ID: name, Name: name})
	}
	return buckets, nil
}

func (c *S3) ListEntries(ctx context.Context, bucket, prefix string, opts ListOptions) ([]Entry, error) {
	keyPrefix := prefix
	if keyPrefix != "" && !strings.HasSuffix(keyPrefix, s3Delimiter) {
		keyPrefix += s3Delimiter
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultS3PageSize
	}

	var token *string
	if opts.Offset > 0 {
		key := cursorKey(bucket, keyPrefix, opts.Offset)
		next, ok := c.cursors[key]
		if !ok {
			return nil, newError("list", bucket, prefix, ErrUnsupportedOffset)
		}
		delete(c.cursors, key)
		if next.done {
			return []Entry{}, nil
		}
		token = aws.String(next.token)
	}

	entries := make([]Entry, 0)
	for {
		out, err := c.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(keyPrefix),
			Delimiter:         aws.String(s3Delimiter),
			MaxKeys:           aws.Int32(int32(limit - len(entries))),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, newError("list", bucket, prefix, classifyS3Error(err))
		}

		for _, p := range out.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(p.Prefix), keyPrefix), s3Delimiter)
			if name != "" {
				entries = append(entries, Entry{Name: name})
			}
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if key == keyPrefix {
				continue
			}
			entries = append(entries, Entry{
				Name:     strings.TrimPrefix(key, keyPrefix),
				ID:       strings.Trim(aws.ToString(obj.ETag), `"`),
				Metadata: objectMetadata(obj),
			})
		}

		if !aws.ToBool(out.IsTruncated) {
			if len(entries) >= limit {
				c.cursors[cursorKey(bucket, keyPrefix, opts.Offset+limit)] = s3Cursor{done: true}
			}
			break
		}
		token = out.NextContinuationToken
		if len(entries) >= limit {
			c.cursors[cursorKey(bucket, keyPrefix, opts.Offset+limit)] = s3Cursor{token: aws.ToString(token)}
			break
		}
	}

	sortEntries(entries, opts.SortBy)
	return entries, nil
}

func (c *S3) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := c.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, newError("download", bucket, path, classifyS3Error(err))
	}
	return buf.Bytes(), nil
}

func objectMetadata(obj types.Object) map[string]any {
	md := map[string]any{
		"size": aws.ToInt64(obj.Size),
	}
	if obj.ETag != nil {
		md["eTag"] = aws.ToString(obj.ETag)
	}
	if obj.LastModified != nil {
		md["lastModified"] = obj.LastModified.UTC()
	}
	return md
}

func sortEntries(entries []Entry, by SortBy) {
	desc := strings.EqualFold(by.Order, "desc")
	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return entries[i].Name > entries[j].Name
		}
		return entries[i].Name < entries[j].Name
	})
}

func cursorKey(bucket, prefix string, offset int) string {
	return fmt.Sprintf("%s\x00%s\x00%d", bucket, prefix, offset)
}

func classifyS3Error(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("%w: %w", ErrObjectNotFound, err)
	case "NoSuchBucket":
		return fmt.Errorf("%w: %w", ErrBucketNotFound, err)
	}
	return err
}
