package content

// Preview sizes used by the home and about views.
const (
	RecentPostsLimit  = 3
	HomeCVEntries     = 4
	AboutCVEntries    = 3
	defaultExcerptLen = 280
)

// HomeView is everything the landing page shows.
type HomeView struct {
	Hero           any            `json:"hero"`
	FeaturedPost   *PostContent   `json:"featured_post"`
	RecentPosts    []*PostContent `json:"recent_posts"`
	CVEntries      []CVEntry      `json:"cv_entries"`
	CVSuggestPrior bool           `json:"cv_suggest_prior"`
	AboutPreview   string         `json:"about_preview"`
}

// AboutView backs the about page.
type AboutView struct {
	About          any       `json:"about"`
	CVEntries      []CVEntry `json:"cv_entries"`
	CVSuggestPrior bool      `json:"cv_suggest_prior"`
}

// PostDetail is a single post with resolved authors and share links.
type PostDetail struct {
	Post    *PostContent    `json:"post"`
	Authors []AuthorProfile `json:"authors"`
	Share   ShareLinks      `json:"share"`
	SEO     SEO             `json:"seo"`
}

// SelectFeatured picks the post whose id equals featuredID, else the first
// post. It returns nil only for an empty list.
func SelectFeatured(posts []*PostContent, featuredID *int) *PostContent {
	if featuredID != nil {
		for _, post := range posts {
			if post.PostID != nil && *post.PostID == *featuredID {
				return post
			}
		}
	}
	if len(posts) == 0 {
		return nil
	}
	return posts[0]
}

// SelectRecent drops the featured post and keeps up to limit posts. When
// nothing else is left the featured post is returned alone.
func SelectRecent(posts []*PostContent, featured *PostContent, limit int) []*PostContent {
	recent := posts
	if featured != nil {
		others := make([]*PostContent, 0, len(posts))
		for _, post := range posts {
			if post.Slug != featured.Slug {
				others = append(others, post)
			}
		}
		if len(others) > 0 {
			recent = others
		} else {
			recent = []*PostContent{featured}
		}
	}
	if limit >= 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// previewEntries returns the first limit entries and whether the full list
// reaches the limit, which hints that older entries exist.
func previewEntries(entries []CVEntry, limit int) ([]CVEntry, bool) {
	suggest := len(entries) >= limit
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []CVEntry{}
	}
	return entries, suggest
}
