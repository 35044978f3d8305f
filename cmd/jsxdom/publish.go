package main

import (
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"github.com/vango-dev/jsxdom/internal/preview"
	"github.com/vango-dev/jsxdom/internal/publish"
	"github.com/vango-dev/jsxdom/pkg/dom"
)

type publishOptions struct {
	bucket   string
	prefix   string
	region   string
	endpoint string
	dryRun   bool
}

// newUploader is replaced in tests.
var newUploader = func(e *env) publish.PutObjectAPI {
	return publish.NewClient(e.cfg.Publish)
}

func publishCmd(flags *globalFlags) *cobra.Command {
	opts := &publishOptions{}

	cmd := &cobra.Command{
		Use:   "publish [documents...]",
		Short: "Render documents and upload them to S3",
		Long: `Render descriptor documents and upload the markup to an S3 bucket.

Without arguments every document under the preview directory is
published. Object keys are the document paths under the prefix, with
.json replaced by .html. Credentials are read from AWS_ACCESS_KEY_ID,
AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.

Examples:
  jsxdom publish --bucket my-site
  jsxdom publish pages/index.json --prefix v2/
  jsxdom publish --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			applyPublishOverrides(e, opts)
			if err := e.cfg.ValidatePublish(); err != nil {
				return err
			}
			return runPublish(cmd, e, args, opts.dryRun)
		},
	}

	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "Destination bucket (default from jsxdom.json)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Object key prefix (default from jsxdom.json)")
	cmd.Flags().StringVar(&opts.region, "region", "", "Bucket region (default from jsxdom.json)")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Render and list keys without uploading")

	return cmd
}

func applyPublishOverrides(e *env, opts *publishOptions) {
	p := &e.cfg.Publish
	if opts.bucket != "" {
		p.Bucket = opts.bucket
	}
	if opts.prefix != "" {
		p.Prefix = opts.prefix
	}
	if opts.region != "" {
		p.Region = opts.region
	}
	if opts.endpoint != "" {
		p.Endpoint = opts.endpoint
	}
}

func runPublish(cmd *cobra.Command, e *env, args []string, dryRun bool) error {
	dir := e.cfg.PreviewDir()
	names := args
	if len(names) == 0 {
		ignore := append(slices.Clone(preview.DefaultIgnore), e.cfg.Preview.Ignore...)
		docs, err := preview.Documents(dir, ignore)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			names = append(names, filepath.Join(dir, filepath.FromSlash(doc)))
		}
	}
	if len(names) == 0 {
		return usageError("No documents to publish in %s", dir)
	}

	pages := make([]publish.Page, 0, len(names))
	for _, file := range names {
		d, err := decodeSource(cmd.InOrStdin(), file, e.registry)
		if err != nil {
			return err
		}
		out, err := e.builder.BuildContext(cmd.Context(), d)
		if err != nil {
			return err
		}
		markup := out.OuterHTML()
		if e.cfg.Pretty {
			markup = dom.Pretty(markup)
		}
		pages = append(pages, publish.Page{Name: keyName(dir, file), Markup: []byte(markup)})
	}

	var client publish.PutObjectAPI
	if !dryRun {
		client = newUploader(e)
	}
	p := publish.New(client, e.cfg.Publish.Bucket, e.cfg.Publish.Prefix, publish.WithLogger(e.logger))

	w := cmd.OutOrStdout()
	if dryRun {
		for _, page := range pages {
			info(w, "s3://%s/%s (%d bytes)", e.cfg.Publish.Bucket, p.Key(page.Name), len(page.Markup))
		}
		return nil
	}

	keys, err := p.PublishAll(cmd.Context(), pages)
	for _, key := range keys {
		success(w, "s3://%s/%s", e.cfg.Publish.Bucket, key)
	}
	return err
}

// keyName returns the document path used for its object key: relative to
// the preview directory when the file is inside it.
func keyName(dir, file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	if rel, err := filepath.Rel(dir, abs); err == nil && filepath.IsLocal(rel) {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(file)
}
