package rawdb

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
)

// memS3 implements the subset of s3iface.S3API used by S3DB.
type memS3 struct {
	s3iface.S3API
	mu      sync.Mutex
	buckets map[string]map[string][]byte
}

func newMemS3() *memS3 {
	return &memS3{buckets: make(map[string]map[string][]byte)}
}

func (m *memS3) CreateBucket(in *s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := aws.StringValue(in.Bucket)
	if _, ok := m.buckets[name]; ok {
		return nil, awserr.New(s3.ErrCodeBucketAlreadyOwnedByYou, "BucketAlreadyOwnedByYou", nil)
	}
	m.buckets[name] = make(map[string][]byte)
	return &s3.CreateBucketOutput{}, nil
}

func (m *memS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	by, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bkt, ok := m.buckets[aws.StringValue(in.Bucket)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchBucket, "no bucket", nil)
	}
	bkt[aws.StringValue(in.Key)] = by
	return &s3.PutObjectOutput{}, nil
}

func (m *memS3) GetObject(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	by, ok := m.buckets[aws.StringValue(in.Bucket)][aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no key", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(by))}, nil
}

func (m *memS3) HeadObject(in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[aws.StringValue(in.Bucket)][aws.StringValue(in.Key)]; !ok {
		return nil, awserr.New("NotFound", "not found", nil)
	}
	return &s3.HeadObjectOutput{}, nil
}

func (m *memS3) DeleteObject(in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets[aws.StringValue(in.Bucket)], aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (m *memS3) ListObjectsV2Pages(in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool) error {
	m.mu.Lock()
	page := &s3.ListObjectsV2Output{}
	for k := range m.buckets[aws.StringValue(in.Bucket)] {
		page.Contents = append(page.Contents, &s3.Object{Key: aws.String(k)})
	}
	m.mu.Unlock()
	fn(page, true)
	return nil
}

func TestS3DB(t *testing.T) {
	api := newMemS3()
	db, err := newS3DB(api, "W3Ledger")
	assert.NoError(t, err)
	assert.Contains(t, api.buckets, "w3ledger-pending-index-bucket")
	assert.Contains(t, api.buckets, "w3ledger-constants-bucket")

	// reopening with existing buckets
	_, err = newS3DB(api, "W3Ledger")
	assert.NoError(t, err)

	assert.Equal(t, S3Type, db.Type())
	testKV(t, db)
}
