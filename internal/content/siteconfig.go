package content

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Default locations of the site configuration documents, relative to the
// working directory.
const (
	DefaultSiteConfigFile  = "config/site.yml"
	DefaultPostsConfigFile = "config/posts.yml"
	DefaultSEOImage        = "/static/assets/me-circle.png"
)

// SiteSettings identify the public site.
type SiteSettings struct {
	URL          string
	Name         string
	Description  string
	DefaultImage string
}

// SEO carries the metadata a page head needs.
type SEO struct {
	SiteName        string `json:"site_name"`
	Description     string `json:"description"`
	CanonicalURL    string `json:"canonical_url"`
	DefaultImageURL string `json:"default_image_url"`
}

// ShareLinks are prebuilt social sharing URLs for a post.
type ShareLinks struct {
	X        string `json:"x"`
	Facebook string `json:"facebook"`
}

// SiteConfigLoader reads the opaque site and posts configuration documents.
// Both are passed through to clients as decoded YAML mappings.
type SiteConfigLoader struct {
	siteFile  string
	postsFile string
	readFile  func(name string) ([]byte, error)
	logger    interfaces.Logger
}

// NewSiteConfigLoader constructs a loader. Empty paths use the defaults.
func NewSiteConfigLoader(siteFile, postsFile string, logger interfaces.Logger) *SiteConfigLoader {
	if strings.TrimSpace(siteFile) == "" {
		siteFile = DefaultSiteConfigFile
	}
	if strings.TrimSpace(postsFile) == "" {
		postsFile = DefaultPostsConfigFile
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &SiteConfigLoader{siteFile: siteFile, postsFile: postsFile, readFile: os.ReadFile, logger: logger}
}

// WithFS makes the loader read both documents from fsys instead of disk.
func (l *SiteConfigLoader) WithFS(fsys fs.FS) *SiteConfigLoader {
	if fsys != nil {
		l.readFile = func(name string) ([]byte, error) {
			return fs.ReadFile(fsys, strings.TrimPrefix(name, "/"))
		}
	}
	return l
}

// Site returns the general site configuration.
func (l *SiteConfigLoader) Site(ctx context.Context) (map[string]any, error) {
	return l.load(ctx, l.siteFile)
}

// Posts returns the posts configuration.
func (l *SiteConfigLoader) Posts(ctx context.Context) (map[string]any, error) {
	return l.load(ctx, l.postsFile)
}

// load decodes a YAML mapping. Missing files, malformed YAML and non mapping
// documents all yield an empty map.
func (l *SiteConfigLoader) load(ctx context.Context, name string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := l.readFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, wrapReadError(err, name)
	}
	var decoded any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		l.logger.Warn("content.siteconfig.invalid", "path", name, "error", err)
		return map[string]any{}, nil
	}
	if mapped := toMap(decoded); mapped != nil {
		return mapped, nil
	}
	return map[string]any{}, nil
}

// FeaturedPostID reads featured_post_id as an int or a numeric string.
func FeaturedPostID(postsConfig map[string]any) *int {
	switch value := postsConfig["featured_post_id"].(type) {
	case int:
		return &value
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// BuildSEO computes canonical metadata for requestPath.
func BuildSEO(settings SiteSettings, requestPath string) SEO {
	base := strings.TrimRight(strings.TrimSpace(settings.URL), "/")
	image := settings.DefaultImage
	if image == "" {
		image = DefaultSEOImage
	}
	if !strings.HasPrefix(image, "http://") && !strings.HasPrefix(image, "https://") {
		image = base + image
	}
	if requestPath == "" {
		requestPath = "/"
	}
	return SEO{
		SiteName:        settings.Name,
		Description:     settings.Description,
		CanonicalURL:    base + requestPath,
		DefaultImageURL: image,
	}
}

// BuildShareLinks returns share URLs for a post published at pageURL.
func BuildShareLinks(title, pageURL string) ShareLinks {
	return ShareLinks{
		X:        "https://x.com/intent/tweet?text=" + queryValue(title+"\n") + "&url=" + queryValue(pageURL),
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + queryValue(pageURL),
	}
}

// queryValue escapes a query parameter value with spaces as %20.
func queryValue(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
