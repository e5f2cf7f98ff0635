package manifest

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/qcss/internal/errors"
)

const tracerName = "github.com/vango-dev/qcss/pkg/manifest"

// Source loads a manifest from somewhere outside the process.
type Source interface {
	Load(ctx context.Context) (*Manifest, error)

	// String describes the source for logs.
	String() string
}

// FileSource reads a manifest file from disk.
type FileSource struct {
	Path string

	// Format overrides detection from the file extension.
	Format Format
}

// NewFileSource returns a source for path with the format taken from its
// extension.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, Format: FormatFromPath(path)}
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (*Manifest, error) {
	_, span := startSpan(ctx, "manifest.LoadFile", attribute.String("manifest.path", s.Path))
	defer span.End()

	data, err := os.ReadFile(s.Path)
	if err != nil {
		qe := errors.New("E202").WithDetail(s.Path).Wrap(err)
		if os.IsNotExist(err) {
			qe.WithSuggestion("Run the qcss build step or set manifest.path in qcss.json")
		}
		return nil, endSpan(span, nil, qe)
	}

	format := s.Format
	if format == "" {
		format = FormatFromPath(s.Path)
	}
	m, err := DecodeBytes(data, format, s.Path)
	return m, endSpan(span, m, err)
}

// String implements Source.
func (s *FileSource) String() string {
	return "file://" + s.Path
}

// GetObjectAPI is the slice of the S3 client a S3Source needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a manifest object from S3 or an S3-compatible store.
type S3Source struct {
	Client GetObjectAPI
	Bucket string
	Key    string
	Format Format
}

// NewS3Source returns a source for bucket/key with the format taken from
// the key's extension.
func NewS3Source(client GetObjectAPI, bucket, key string) *S3Source {
	return &S3Source{
		Client: client,
		Bucket: bucket,
		Key:    key,
		Format: FormatFromPath(key),
	}
}

// Load implements Source.
func (s *S3Source) Load(ctx context.Context) (*Manifest, error) {
	ctx, span := startSpan(ctx, "manifest.LoadS3",
		attribute.String("manifest.bucket", s.Bucket),
		attribute.String("manifest.key", s.Key),
	)
	defer span.End()

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, endSpan(span, nil, errors.New("E202").WithDetail(s.String()).Wrap(err))
	}
	defer out.Body.Close()

	format := s.Format
	if format == "" {
		format = FormatFromPath(s.Key)
	}
	m, err := Decode(out.Body, format, s.String())
	return m, endSpan(span, m, err)
}

// String implements Source.
func (s *S3Source) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

// S3ClientOptions configures NewS3Client.
type S3ClientOptions struct {
	Region string

	// Endpoint targets an S3-compatible store (MinIO, R2); path-style
	// addressing is used when set.
	Endpoint string

	// Credentials defaults to the AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
	// and AWS_SESSION_TOKEN environment variables.
	Credentials aws.CredentialsProvider
}

// NewS3Client builds a client without the shared-config loader.
func NewS3Client(opts S3ClientOptions) *s3.Client {
	creds := opts.Credentials
	if creds == nil {
		creds = aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials))
	}
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	return s3.New(s3.Options{
		Region:       region,
		Credentials:  creds,
		BaseEndpoint: optionalString(opts.Endpoint),
		UsePathStyle: opts.Endpoint != "",
	})
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New("E202").
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are not set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, m *Manifest, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("manifest.entries", m.Len()))
	return nil
}
