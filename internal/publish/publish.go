// Package publish uploads rendered markup to an S3 bucket.
//
// Example usage:
//
//	client := publish.NewClient(cfg.Publish)
//	p := publish.New(client, cfg.Publish.Bucket, cfg.Publish.Prefix)
//	key, err := p.Publish(ctx, "pages/index.json", markup)
package publish

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/jsxdom/internal/config"
	"github.com/vango-dev/jsxdom/internal/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/jsxdom/internal/publish"

// ContentType is the content type of published objects.
const ContentType = "text/html; charset=utf-8"

// PutObjectAPI is the part of the S3 client the publisher uses.
// *s3.Client implements it.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Page is one document to publish.
type Page struct {
	// Name is the document path relative to the project, such as
	// "blog/post.json".
	Name string

	// Markup is the rendered HTML.
	Markup []byte
}

// Publisher uploads pages under a bucket prefix.
type Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = l
	}
}

// WithTracer sets the tracer. Default: the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(p *Publisher) {
		p.tracer = t
	}
}

// New creates a Publisher.
func New(client PutObjectAPI, bucket, prefix string, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the object key for a document name: the prefix joined with
// the name, with a .json extension replaced by .html.
func (p *Publisher) Key(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
	if ext := path.Ext(name); strings.EqualFold(ext, ".json") {
		name = strings.TrimSuffix(name, ext)
	}
	if path.Ext(name) == "" {
		name += ".html"
	}
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// Publish uploads one page and returns its object key.
func (p *Publisher) Publish(ctx context.Context, name string, markup []byte) (string, error) {
	key := p.Key(name)
	ctx, span := p.tracer.Start(ctx, "publish.PutObject", trace.WithAttributes(
		attribute.String("s3.bucket", p.bucket),
		attribute.String("s3.key", key),
		attribute.Int("s3.size", len(markup)),
	))
	defer span.End()

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(markup),
		ContentType: aws.String(ContentType),
		Metadata: map[string]string{
			"source":       name,
			"published-at": p.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", errors.Errorf("E160", "Upload of %s to s3://%s/%s failed", name, p.bucket, key).Wrap(err)
	}

	p.logger.Info("published", "bucket", p.bucket, "key", key, "bytes", len(markup))
	return key, nil
}

// PublishAll uploads pages in order and stops at the first failure. It
// returns the keys uploaded so far.
func (p *Publisher) PublishAll(ctx context.Context, pages []Page) ([]string, error) {
	keys := make([]string, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return keys, errors.New("E160").Wrap(err)
		}
		key, err := p.Publish(ctx, page.Name, page.Markup)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// NewClient creates an S3 client from publish settings. Credentials come
// from the standard AWS environment variables.
func NewClient(cfg config.PublishConfig) *s3.Client {
	return s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: endpoint(cfg.Endpoint),
		UsePathStyle: cfg.PathStyle,
		Credentials:  aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	})
}

func endpoint(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

// envCredentials reads AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
// AWS_SESSION_TOKEN.
func envCredentials(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New("E160").
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}, nil
}
