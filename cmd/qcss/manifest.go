package main

import (
	"context"
	"os"

	"github.com/vango-dev/qcss/internal/errors"
	"github.com/vango-dev/qcss/pkg/manifest"
)

// source picks the configured manifest source.
func (a *app) source() (manifest.Source, error) {
	var format manifest.Format
	if a.cfg.Manifest.Format != "" {
		f, err := manifest.ParseFormat(a.cfg.Manifest.Format)
		if err != nil {
			return nil, err
		}
		format = f
	}

	if a.cfg.UsesS3() {
		s3cfg := a.cfg.Manifest.S3
		src := manifest.NewS3Source(manifest.NewS3Client(manifest.S3ClientOptions{
			Region:   s3cfg.Region,
			Endpoint: s3cfg.Endpoint,
		}), s3cfg.Bucket, s3cfg.Key)
		if format != "" {
			src.Format = format
		}
		return src, nil
	}

	path := a.cfg.ManifestPath()
	if path == "" {
		return nil, errors.New("E140").WithDetail("manifest").
			WithSuggestion("Pass --manifest or set manifest.path in qcss.json")
	}
	src := manifest.NewFileSource(path)
	if format != "" {
		src.Format = format
	}
	return src, nil
}

// loadManifest reads the configured manifest once.
func (a *app) loadManifest(ctx context.Context) (*manifest.Manifest, error) {
	src, err := a.source()
	if err != nil {
		return nil, err
	}
	m, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("manifest loaded", "source", src.String(), "entries", m.Len())
	return m, nil
}

// openInput opens name for reading; "-" is stdin.
func openInput(name string) (*os.File, func(), error) {
	if name == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, errors.New("E300").WithDetail(name).Wrap(err)
	}
	return f, func() { f.Close() }, nil
}
