package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/hourly/internal/clock"
	"github.com/viant/hourly/internal/idgen"
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/service/dao"
)

// Config represents export configuration
type Config struct {
	// URL is the base location of exported files
	URL string `json:"url" yaml:"url" mapstructure:"url"`
	// Prefix is prepended to every export file name
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
}

// DefaultConfig returns the default export configuration
func DefaultConfig() Config {
	return Config{URL: "mem://localhost/hourly/exports", Prefix: "allocation"}
}

// Service persists CSV exports
type Service struct {
	config Config
	fs     afs.Service
}

// Export writes result as CSV and returns its reference
func (s *Service) Export(ctx context.Context, result model.Result) (string, []byte, error) {
	data, err := Encode(Rows(result))
	if err != nil {
		return "", nil, err
	}
	ref := fmt.Sprintf("%s_%s_%s.csv", s.config.Prefix, clock.Now().UTC().Format("20060102T150405"), idgen.New())
	URL := url.Join(s.config.URL, ref)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return "", nil, fmt.Errorf("failed to upload export %s: %w", URL, err)
	}
	return ref, data, nil
}

// Load returns export content for a reference produced by Export
func (s *Service) Load(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" || strings.ContainsAny(ref, `/\`) || strings.Contains(ref, "..") {
		return nil, dao.ErrInvalidID
	}
	URL := url.Join(s.config.URL, ref)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check export %s: %w", URL, err)
	}
	if !exists {
		return nil, fmt.Errorf("export %s: %w", ref, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download export %s: %w", URL, err)
	}
	return data, nil
}

// Clear deletes every export written under the configured location and returns how many were removed.
func (s *Service) Clear(ctx context.Context) (int, error) {
	exists, err := s.fs.Exists(ctx, s.config.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to check exports %s: %w", s.config.URL, err)
	}
	if !exists {
		return 0, nil
	}
	objects, err := s.fs.List(ctx, s.config.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to list exports %s: %w", s.config.URL, err)
	}
	deleted := 0
	for _, object := range objects {
		if object.IsDir() || !s.owns(object.Name()) {
			continue
		}
		if err = s.fs.Delete(ctx, object.URL()); err != nil {
			return deleted, fmt.Errorf("failed to delete export %s: %w", object.URL(), err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *Service) owns(name string) bool {
	return strings.HasPrefix(name, s.config.Prefix+"_") && strings.HasSuffix(name, ".csv")
}

// New creates an export service
func New(config Config) *Service {
	if config.URL == "" {
		config.URL = DefaultConfig().URL
	}
	if config.Prefix == "" {
		config.Prefix = DefaultConfig().Prefix
	}
	config.URL = url.Normalize(config.URL, file.Scheme)
	return &Service{config: config, fs: afs.New()}
}
