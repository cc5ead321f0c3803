package content

import (
	"context"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DuplicatePolicy decides what happens when two post files share a slug.
type DuplicatePolicy string

const (
	// DuplicateFirstMatch keeps the first post in sorted order and logs a
	// warning for every shadowed file.
	DuplicateFirstMatch DuplicatePolicy = "first-match"
	// DuplicateReject fails the load with a conflict error.
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy maps a configuration value to a policy. Unknown values
// report false.
func ParseDuplicatePolicy(value string) (DuplicatePolicy, bool) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", DuplicateFirstMatch:
		return DuplicateFirstMatch, true
	case DuplicateReject:
		return DuplicateReject, true
	default:
		return DuplicateFirstMatch, false
	}
}

// PostCache memoises assembled posts by file identity. Implementations must
// treat a change of modification time or size as a different entry.
type PostCache interface {
	GetOrLoad(path string, modTime time.Time, size int64, load func() (any, error)) (any, error)
}

// Index discovers, assembles, filters and orders the posts directory. It
// keeps no state between calls; repeated work is absorbed by the optional
// PostCache.
type Index struct {
	dir       string
	assembler *Assembler
	docs      Documents
	stat      func(name string) (fs.FileInfo, error)
	cache     PostCache
	policy    DuplicatePolicy
	logger    interfaces.Logger
	observe   func(kind string)
}

// IndexOption customises an Index.
type IndexOption func(*Index)

// WithPostCache places cache in front of the assembler.
func WithPostCache(cache PostCache, stat func(name string) (fs.FileInfo, error)) IndexOption {
	return func(idx *Index) {
		if cache != nil && stat != nil {
			idx.cache = cache
			idx.stat = stat
		}
	}
}

// WithDuplicatePolicy sets the duplicate slug policy.
func WithDuplicatePolicy(policy DuplicatePolicy) IndexOption {
	return func(idx *Index) {
		if policy != "" {
			idx.policy = policy
		}
	}
}

// WithIndexLogger sets the logger.
func WithIndexLogger(logger interfaces.Logger) IndexOption {
	return func(idx *Index) {
		if logger != nil {
			idx.logger = logger
		}
	}
}

// WithLoadObserver is called once per assembled document.
func WithLoadObserver(observe func(kind string)) IndexOption {
	return func(idx *Index) {
		idx.observe = observe
	}
}

// NewIndex constructs an Index over dir.
func NewIndex(dir string, docs Documents, assembler *Assembler, opts ...IndexOption) *Index {
	idx := &Index{
		dir:       dir,
		docs:      docs,
		assembler: assembler,
		policy:    DuplicateFirstMatch,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(idx)
		}
	}
	return idx
}

// LoadAll assembles every post, drops drafts unless includeDrafts is set and
// orders the result newest first. Undated posts sort as the oldest and equal
// dates order by lower-cased title, descending.
func (idx *Index) LoadAll(ctx context.Context, includeDrafts bool) ([]*PostContent, error) {
	paths, err := idx.docs.List(ctx, idx.dir)
	if err != nil {
		return nil, wrapReadError(err, idx.dir)
	}

	posts := make([]*PostContent, 0, len(paths))
	for _, filePath := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		post, err := idx.load(ctx, filePath)
		if err != nil {
			return nil, err
		}
		if post.Draft && !includeDrafts {
			continue
		}
		posts = append(posts, post)
	}

	SortPosts(posts)
	if err := idx.checkDuplicates(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Get returns the first post in sorted order whose slug matches, or nil.
func (idx *Index) Get(ctx context.Context, slug string, includeDrafts bool) (*PostContent, error) {
	posts, err := idx.LoadAll(ctx, includeDrafts)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, nil
}

func (idx *Index) load(ctx context.Context, filePath string) (*PostContent, error) {
	assemble := func() (any, error) {
		post, err := idx.assembler.Assemble(ctx, filePath)
		if err == nil && idx.observe != nil {
			idx.observe("post")
		}
		return post, err
	}

	if idx.cache == nil {
		post, err := assemble()
		if err != nil {
			return nil, err
		}
		return post.(*PostContent), nil
	}

	info, err := idx.stat(filePath)
	if err != nil {
		return nil, wrapReadError(err, filePath)
	}
	value, err := idx.cache.GetOrLoad(filePath, info.ModTime(), info.Size(), assemble)
	if err != nil {
		return nil, err
	}
	post, ok := value.(*PostContent)
	if !ok || post == nil {
		value, err = assemble()
		if err != nil {
			return nil, err
		}
		post = value.(*PostContent)
	}
	return post, nil
}

func (idx *Index) checkDuplicates(posts []*PostContent) error {
	seen := make(map[string]*PostContent, len(posts))
	for _, post := range posts {
		first, ok := seen[post.Slug]
		if !ok {
			seen[post.Slug] = post
			continue
		}
		if idx.policy == DuplicateReject {
			return duplicateSlug(post.Slug, first.SourcePath, post.SourcePath)
		}
		idx.logger.Warn("content.post.slug_shadowed",
			"slug", post.Slug,
			"kept", first.SourcePath,
			"shadowed", post.SourcePath,
		)
	}
	return nil
}

// SortPosts orders posts by (date, lower-cased title) descending. The sort is
// stable so filename order survives among exact ties.
func SortPosts(posts []*PostContent) {
	sort.SliceStable(posts, func(i, j int) bool {
		return postAfter(posts[i], posts[j])
	})
}

func postAfter(a, b *PostContent) bool {
	switch {
	case a.Date == nil && b.Date != nil:
		return false
	case a.Date != nil && b.Date == nil:
		return true
	case a.Date != nil && b.Date != nil && !a.Date.Equal(*b.Date):
		return a.Date.After(*b.Date)
	}
	return strings.ToLower(a.Title) > strings.ToLower(b.Title)
}

// FilterByTag keeps posts carrying tag, ignoring case. An empty tag keeps all.
func FilterByTag(posts []*PostContent, tag string) []*PostContent {
	if strings.TrimSpace(tag) == "" {
		return posts
	}
	out := make([]*PostContent, 0, len(posts))
	for _, post := range posts {
		if post.HasTag(tag) {
			out = append(out, post)
		}
	}
	return out
}
