// pkg/archive/archive.go

package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Archiver keeps a copy of generated documents.
type Archiver interface {
	// Archive stores body under name and returns where it ended up.
	Archive(ctx context.Context, name string, body []byte) (string, error)
}

// Noop discards documents.
type Noop struct{}

func (Noop) Archive(ctx context.Context, name string, body []byte) (string, error) {
	return "", nil
}

// uploader is the part of s3manager.Uploader we use.
type uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3 uploads documents to a bucket.
type S3 struct {
	bucket   string
	prefix   string
	uploader uploader
}

// NewS3 creates an archiver for bucket in region. Credentials come from
// the usual AWS environment and shared config.
func NewS3(region, bucket, prefix string) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &S3{
		bucket:   bucket,
		prefix:   prefix,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// Key returns the object key used for name.
func (s *S3) Key(name string) string {
	prefix := strings.Trim(s.prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func (s *S3) Archive(ctx context.Context, name string, body []byte) (string, error) {
	key := s.Key(name)
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to s3: %w", key, err)
	}
	return out.Location, nil
}

var (
	_ Archiver = Noop{}
	_ Archiver = (*S3)(nil)
)
