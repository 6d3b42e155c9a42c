package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Writer uploads artifacts to s3://bucket/prefix/name with server side
// encryption, since the founding post artifact may carry a credential.
type S3Writer struct {
	client s3API
	bucket string
	prefix string
}

func NewS3Writer(client s3API, bucket, prefix string) *S3Writer {
	return &S3Writer{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (w *S3Writer) Key(name string) string {
	return path.Join(w.prefix, filepath.ToSlash(name))
}

func (w *S3Writer) Write(ctx context.Context, name string, data []byte, perm os.FileMode) (string, error) {
	key := w.Key(name)

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(w.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(data),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
		Metadata: map[string]string{
			"file-mode": fmt.Sprintf("%#o", perm.Perm()),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3://%s/%s: %w", name, w.bucket, key, err)
	}

	return fmt.Sprintf("s3://%s/%s", w.bucket, key), nil
}
