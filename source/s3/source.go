// Package s3 provides a configuration record store backed by an S3 object.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/yacchi/omocfg/format"
	"github.com/yacchi/omocfg/source"
)

// ObjectAPI is the subset of the S3 client used by Source.
// *s3.Client implements it.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Source loads and saves a configuration record stored as an S3 object.
// The document format is detected from the object key's extension unless set
// with WithFormat.
type Source struct {
	bucket    string
	key       string
	format    format.Format
	awsConfig *aws.Config
	client    ObjectAPI

	clientInit    sync.Once
	clientInitErr error
}

// Ensure Source implements the source.Store interface.
var _ source.Store = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithClient sets the S3 client. This overrides WithAWSConfig.
func WithClient(client ObjectAPI) Option {
	return func(s *Source) {
		s.client = client
	}
}

// WithAWSConfig sets the AWS configuration used to create the default client.
// If not provided, the default configuration is loaded from the environment.
func WithAWSConfig(cfg aws.Config) Option {
	return func(s *Source) {
		s.awsConfig = &cfg
	}
}

// WithFormat sets the document format of the object.
func WithFormat(f format.Format) Option {
	return func(s *Source) {
		s.format = f
	}
}

// New creates a store for the object at bucket/key.
//
// Example:
//
//	src := s3.New("team-config", "opencode/global.json")
//	src := s3.New("team-config", "profiles/dev", s3.WithFormat(format.YAML))
func New(bucket, key string, opts ...Option) *Source {
	s := &Source{
		bucket: bucket,
		key:    key,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bucket returns the S3 bucket name.
func (s *Source) Bucket() string {
	return s.bucket
}

// Key returns the S3 object key.
func (s *Source) Key() string {
	return s.key
}

// URL returns the s3:// URL of the object.
func (s *Source) URL() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// Format returns the document format of the object.
func (s *Source) Format() (format.Format, error) {
	if s.format != "" {
		return s.format, nil
	}
	return format.FromPath(s.key)
}

// ensureClient creates a default S3 client if one was not provided.
func (s *Source) ensureClient(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	s.clientInit.Do(func() {
		var cfg aws.Config
		if s.awsConfig != nil {
			cfg = *s.awsConfig
		} else {
			loaded, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				s.clientInitErr = fmt.Errorf("failed to load AWS config: %w", err)
				return
			}
			cfg = loaded
		}
		s.client = s3.NewFromConfig(cfg)
	})
	return s.clientInitErr
}

// Load implements the source.Store interface.
// A missing object is reported with an error matching source.ErrNotExist.
func (s *Source) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.Format()
	if err != nil {
		return nil, err
	}
	if err := s.ensureClient(ctx); err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, source.NewNotExistError(s.URL(), err)
		}
		return nil, fmt.Errorf("failed to get object %s: %w", s.URL(), err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	rec, err := format.Parse(f, data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", s.URL(), err)
	}
	return rec, nil
}

// Save implements the source.Store interface by replacing the object.
func (s *Source) Save(ctx context.Context, rec map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := s.Format()
	if err != nil {
		return err
	}
	data, err := format.Marshal(f, rec)
	if err != nil {
		return fmt.Errorf("object %s: %w", s.URL(), err)
	}
	if err := s.ensureClient(ctx); err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(f)),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", s.URL(), err)
	}
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

func contentType(f format.Format) string {
	switch f {
	case format.JSON, format.JSONC:
		return "application/json"
	case format.YAML:
		return "application/yaml"
	case format.TOML:
		return "application/toml"
	default:
		return "application/octet-stream"
	}
}
