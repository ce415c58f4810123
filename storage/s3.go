package storage

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

const s3Prefix = "testimonials"

// S3Store uploads images to a bucket and references them by object URL.
// Credentials come from the default AWS chain.
type S3Store struct {
	bucket   string
	uploader *s3manager.Uploader
	client   *s3.S3
}

func NewS3Store(bucket, region string) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, errors.Wrap(err, "could not create aws session")
	}
	return &S3Store{
		bucket:   bucket,
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
	}, nil
}

func (s *S3Store) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	name, err := objectName(contentType)
	if err != nil {
		return "", err
	}
	key := path.Join(s3Prefix, name)
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "could not upload image to s3")
	}
	return out.Location, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key, err := s.keyFromRef(ref)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "could not delete image from s3")
}

// keyFromRef handles both virtual-hosted and path-style object URLs.
func (s *S3Store) keyFromRef(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrap(err, "invalid image reference")
	}
	key := strings.TrimPrefix(u.Path, "/")
	key = strings.TrimPrefix(key, s.bucket+"/")
	if key == "" {
		return "", errors.Errorf("invalid image reference %q", ref)
	}
	return key, nil
}
