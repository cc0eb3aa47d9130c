package rawdb

import (
	"bytes"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/w3ledger/w3ledger/schema"
)

const (
	S3Type = "s3"
)

type S3DB struct {
	s3Api        s3iface.S3API
	bucketPrefix string
}

func NewS3DB(accKey, secretKey, region, bktPrefix, endpoint string) (*S3DB, error) {
	mySession := session.Must(session.NewSession())
	cred := credentials.NewStaticCredentials(accKey, secretKey, "")
	cfgs := aws.NewConfig().WithRegion(region).WithCredentials(cred)
	if endpoint != "" {
		cfgs.WithEndpoint(endpoint) // inject endpoint
		// if endpoint is an IP address, use path-style addressing.
		if u, err := url.Parse(endpoint); err == nil {
			if net.ParseIP(u.Hostname()) != nil {
				cfgs.S3ForcePathStyle = aws.Bool(true)
			}
		}
	}
	s3Api := s3.New(mySession, cfgs)
	db, err := newS3DB(s3Api, bktPrefix)
	if err != nil {
		return nil, err
	}
	log.Info("run with s3 success")
	return db, nil
}

func newS3DB(s3Api s3iface.S3API, bktPrefix string) (*S3DB, error) {
	if err := createS3Bucket(s3Api, bktPrefix); err != nil {
		return nil, err
	}
	return &S3DB{s3Api: s3Api, bucketPrefix: bktPrefix}, nil
}

func (s *S3DB) Type() string {
	return S3Type
}

func (s *S3DB) Put(bucket, key string, value []byte) (err error) {
	_, err = s.s3Api.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket)),
		Key:    aws.String(key),
		Body:   bytes.NewReader(value),
	})
	return
}

func (s *S3DB) Get(bucket, key string) (data []byte, err error) {
	out, err := s.s3Api.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket)),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, handleS3Err(err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3DB) GetAllKey(bucket string) (keys []string, err error) {
	keys = make([]string, 0)
	input := &s3.ListObjectsV2Input{Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket))}
	err = s.s3Api.ListObjectsV2Pages(input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, item := range page.Contents {
			keys = append(keys, aws.StringValue(item.Key))
		}
		return true
	})
	return
}

func (s *S3DB) Delete(bucket, key string) (err error) {
	_, err = s.s3Api.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket)),
		Key:    aws.String(key),
	})
	return
}

func (s *S3DB) Exist(bucket, key string) bool {
	_, err := s.s3Api.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket)),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *S3DB) Close() (err error) {
	return
}

func createS3Bucket(svc s3iface.S3API, prefix string) error {
	for _, bucketName := range Buckets {
		s3Bkt := getS3Bucket(prefix, bucketName) // s3 bucket name only accept lower case
		_, err := svc.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(s3Bkt)})
		if err != nil && !strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
			return err
		}
	}
	return nil
}

func getS3Bucket(prefix, bktName string) string {
	return strings.ToLower(prefix + "-" + bktName)
}

func handleS3Err(err error) error {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return schema.ErrNotExist
		}
	}
	return err
}
