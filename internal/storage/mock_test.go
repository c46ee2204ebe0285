package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	storage_go "github.com/supabase-community/storage-go"
)

type mockS3API struct {
	ListBucketsFunc   func(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjectsV2Func func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObjectFunc     func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *mockS3API) ListBuckets(
	ctx context.Context,
	params *s3.ListBucketsInput,
	optFns ...func(*s3.Options),
) (*s3.ListBucketsOutput, error) {
	if m.ListBucketsFunc != nil {
		return m.ListBucketsFunc(ctx, params, optFns...)
	}
	return &s3.ListBucketsOutput{}, nil
}

func (m *mockS3API) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

func (m *mockS3API) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{}, nil
}

type mockRESTAPI struct {
	ListBucketsFunc  func() ([]storage_go.Bucket, error)
	ListFilesFunc    func(string, string, storage_go.FileSearchOptions) ([]storage_go.FileObject, error)
	DownloadFileFunc func(string, string) ([]byte, error)
}

func (m *mockRESTAPI) ListBuckets() ([]storage_go.Bucket, error) {
	if m.ListBucketsFunc != nil {
		return m.ListBucketsFunc()
	}
	return nil, nil
}

func (m *mockRESTAPI) ListFiles(bucketId string, queryPath string, options storage_go.FileSearchOptions) ([]storage_go.FileObject, error) {
	if m.ListFilesFunc != nil {
		return m.ListFilesFunc(bucketId, queryPath, options)
	}
	return nil, nil
}

func (m *mockRESTAPI) DownloadFile(bucketId string, filePath string, _ ...storage_go.UrlOptions) ([]byte, error) {
	if m.DownloadFileFunc != nil {
		return m.DownloadFileFunc(bucketId, filePath)
	}
	return nil, nil
}
