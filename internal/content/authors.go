package content

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DefaultAuthorsFile is the author index inside the content directory.
const DefaultAuthorsFile = "authors.yml"

// AuthorIndex reads the authors document:
//
//	authors:
//	  jane:
//	    name: Jane Doe
//	    description: Writes things.
//	    avatar: assets/jane.png
//	    url: https://example.com
type AuthorIndex struct {
	fsys   fs.FS
	file   string
	logger interfaces.Logger
}

// NewAuthorIndex constructs an AuthorIndex reading file from fsys.
func NewAuthorIndex(fsys fs.FS, file string, logger interfaces.Logger) *AuthorIndex {
	if strings.TrimSpace(file) == "" {
		file = DefaultAuthorsFile
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &AuthorIndex{fsys: fsys, file: file, logger: logger}
}

// Load returns every known author keyed by key. A missing or malformed file
// yields an empty index.
func (a *AuthorIndex) Load(ctx context.Context) (map[string]AuthorProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profiles := map[string]AuthorProfile{}
	if a.fsys == nil {
		return profiles, nil
	}

	data, err := fs.ReadFile(a.fsys, a.file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return profiles, nil
		}
		return nil, wrapReadError(err, a.file)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		a.logger.Warn("content.authors.invalid", "path", a.file, "error", err)
		return profiles, nil
	}

	for key, value := range toMap(doc["authors"]) {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields := toMap(value)
		profile := AuthorProfile{
			Key:         key,
			Name:        strings.TrimSpace(toString(fields["name"])),
			Description: strings.TrimSpace(toString(fields["description"])),
			AvatarURL:   markdown.NormalizeURL(toString(fields["avatar"])),
			URL:         strings.TrimSpace(toString(fields["url"])),
		}
		if profile.Name == "" {
			profile.Name = key
		}
		profiles[key] = profile
	}
	return profiles, nil
}

// Keys lists known author keys in sorted order.
func (a *AuthorIndex) Keys(ctx context.Context) ([]string, error) {
	profiles, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(profiles))
	for key := range profiles {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Profiles resolves keys in two groups: known authors in the order given,
// then stand-ins for unknown keys that carry only the key as their name.
func (a *AuthorIndex) Profiles(ctx context.Context, keys []string) ([]AuthorProfile, error) {
	known, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AuthorProfile, 0, len(keys))
	var missing []string
	for _, key := range keys {
		if profile, ok := known[key]; ok {
			out = append(out, profile)
			continue
		}
		missing = append(missing, key)
	}
	for _, key := range missing {
		a.logger.Debug("content.authors.unknown", "author", key)
		out = append(out, AuthorProfile{Key: key, Name: key})
	}
	return out, nil
}
