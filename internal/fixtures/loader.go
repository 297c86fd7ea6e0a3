package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-unicms/internal/locale"
	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

var ErrUnsupportedFormat = errors.New("fixtures: unsupported file format")

// bundle is the multi-record file layout. Records without an entity inherit
// the bundle entity.
type bundle struct {
	Entity  string     `json:"entity" yaml:"entity"`
	Records []Document `json:"records" yaml:"records"`
}

// Loader discovers fixture files in a filesystem. Files ending in .json,
// .yaml, .yml and .md are read; everything else is ignored.
type Loader struct {
	fs         fs.FS
	renderer   *Renderer
	normalizer *locale.Normalizer
	logger     interfaces.Logger
}

type LoaderOption func(*Loader)

// WithNormalizer sets the language normalizer used for Markdown lang keys.
func WithNormalizer(n *locale.Normalizer) LoaderOption {
	return func(l *Loader) {
		if n != nil {
			l.normalizer = n
		}
	}
}

func WithLoaderLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLoader(filesystem fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:         filesystem,
		renderer:   NewRenderer(),
		normalizer: locale.NewNormalizer(string(locale.Default), nil, locale.DefaultAliases()),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load walks the filesystem in lexical order and returns every document,
// normalized and validated.
func (l *Loader) Load(ctx context.Context) ([]*Document, error) {
	var docs []*Document
	err := fs.WalkDir(l.fs, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !supported(p) {
			return nil
		}
		loaded, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		docs = append(docs, loaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.Debug("fixtures.load", "documents", len(docs))
	return docs, nil
}

// LoadFile reads one fixture file.
func (l *Loader) LoadFile(p string) ([]*Document, error) {
	data, err := fs.ReadFile(l.fs, p)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", p, err)
	}

	var docs []*Document
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".json":
		docs, err = decodeBundle(data, json.Unmarshal)
	case ".yaml", ".yml":
		docs, err = decodeBundle(data, yaml.Unmarshal)
	case ".md":
		var doc *Document
		doc, err = parseMarkdown(data, l.renderer, l.normalizer)
		if err == nil {
			if strings.TrimSpace(doc.Key) == "" {
				doc.Key = strings.TrimSuffix(path.Base(p), path.Ext(p))
			}
			docs = []*Document{doc}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, p)
	}
	if err != nil {
		return nil, fmt.Errorf("fixtures: decode %s: %w", p, err)
	}

	for _, doc := range docs {
		doc.Source = p
		if err := doc.Normalize(); err != nil {
			return nil, err
		}
		if err := doc.Validate(); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func decodeBundle(data []byte, unmarshal func([]byte, any) error) ([]*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var b bundle
	if err := unmarshal(data, &b); err != nil {
		return nil, err
	}
	if len(b.Records) == 0 {
		var doc Document
		if err := unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return []*Document{&doc}, nil
	}

	docs := make([]*Document, 0, len(b.Records))
	for i := range b.Records {
		doc := b.Records[i]
		if strings.TrimSpace(doc.Entity) == "" {
			doc.Entity = b.Entity
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

func supported(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml", ".md":
		return true
	}
	return false
}
