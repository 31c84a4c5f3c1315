package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"bookclub/internal/book"
	"bookclub/internal/config"
)

// ObjectAPI is the subset of the S3 client used by Document.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Document keeps the whole record tree as one JSON object in a bucket.
// Writes are conditional on the ETag read, so a concurrent writer yields
// ErrConflict instead of a lost update.
type Document struct {
	client  ObjectAPI
	bucket  string
	key     string
	timeout time.Duration

	mu sync.Mutex
}

// NewDocument stores the tree in the object bucket/rootPath.
func NewDocument(client ObjectAPI, bucket, rootPath string, timeout time.Duration) *Document {
	return &Document{
		client:  client,
		bucket:  bucket,
		key:     strings.TrimPrefix(rootPath, "/"),
		timeout: timeout,
	}
}

// NewS3Client builds a client from the service account settings. Without
// static credentials the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// FetchAll reads the document and returns its records in store order.
func (d *Document) FetchAll(ctx context.Context) ([]book.Book, error) {
	tree, _, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Records()
}

// Append adds b to the document with a conditional write.
func (d *Document) Append(ctx context.Context, b book.Book) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tree, etag, err := d.load(ctx)
	if err != nil {
		return err
	}
	if err := tree.Append(b); err != nil {
		return err
	}
	body, err := tree.Encode()
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}
	if etag != "" {
		input.IfMatch = aws.String(etag)
	} else {
		input.IfNoneMatch = aws.String("*")
	}

	timeoutCtx, cancel := withTimeout(ctx, d.timeout)
	defer cancel()
	if _, err := d.client.PutObject(timeoutCtx, input); err != nil {
		if isPreconditionFailed(err) {
			return ErrConflict
		}
		return fmt.Errorf("put %s/%s: %w", d.bucket, d.key, err)
	}
	return nil
}

// Close is a no-op.
func (d *Document) Close() error { return nil }

// load reads the document and its ETag. A missing object is an empty tree.
func (d *Document) load(ctx context.Context) (Tree, string, error) {
	timeoutCtx, cancel := withTimeout(ctx, d.timeout)
	defer cancel()

	out, err := d.client.GetObject(timeoutCtx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return Tree{Kind: TreeEmpty}, "", nil
		}
		return Tree{}, "", fmt.Errorf("get %s/%s: %w", d.bucket, d.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Tree{}, "", fmt.Errorf("read %s/%s: %w", d.bucket, d.key, err)
	}
	tree, err := DecodeTree(data)
	if err != nil {
		return Tree{}, "", err
	}
	return tree, aws.ToString(out.ETag), nil
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
