package content

import (
	"time"

	"github.com/goliatone/go-folio/internal/markdown"
)

// TOCEntry points at a second level heading of a rendered post.
type TOCEntry = markdown.TOCEntry

// PageContent is a rendered singleton page such as home or about.
type PageContent struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	HTML       string `json:"html"`
	SourcePath string `json:"-"`
}

// PostContent is a fully assembled blog post. Every derived field is a pure
// function of the source file's metadata and body.
type PostContent struct {
	PostID             *int       `json:"post_id,omitempty"`
	Slug               string     `json:"slug"`
	Title              string     `json:"title"`
	Date               *time.Time `json:"date,omitempty"`
	Draft              bool       `json:"draft"`
	Authors            []string   `json:"authors"`
	Tags               []string   `json:"tags"`
	TOCEntries         []TOCEntry `json:"toc_entries"`
	ReadingTimeMinutes int        `json:"reading_time_minutes"`
	SummaryHTML        string     `json:"summary_html"`
	MainBodyHTML       string     `json:"main_body_html"`
	BodyHTML           string     `json:"body_html"`
	CoverImageURL      string     `json:"cover_image_url,omitempty"`
	HasMore            bool       `json:"has_more"`
	SourcePath         string     `json:"-"`
}

// URL returns the public path of the post.
func (p *PostContent) URL() string {
	if p == nil {
		return ""
	}
	return "/" + p.Slug + "/"
}

// DateString formats the publication date as YYYY-MM-DD, or "" when unset.
func (p *PostContent) DateString() string {
	if p == nil || p.Date == nil {
		return ""
	}
	return p.Date.Format(dateLayout)
}

// HasTag reports whether the post carries tag, ignoring case.
func (p *PostContent) HasTag(tag string) bool {
	for _, candidate := range p.Tags {
		if equalFold(candidate, tag) {
			return true
		}
	}
	return false
}

// CVEntry is one experience or education item.
type CVEntry struct {
	Period       string   `json:"period"`
	Role         string   `json:"role"`
	Organisation string   `json:"organisation"`
	Context      string   `json:"context,omitempty"`
	Highlights   []string `json:"highlights"`
}

// CVContent is the parsed curriculum vitae document.
type CVContent struct {
	Title      string    `json:"title"`
	IntroHTML  string    `json:"intro_html"`
	Experience []CVEntry `json:"experience"`
	Education  []CVEntry `json:"education"`
	Skills     []string  `json:"skills"`
}

// Entries returns the experience list, the entries shown in previews.
func (c *CVContent) Entries() []CVEntry {
	if c == nil {
		return nil
	}
	return c.Experience
}

// AuthorProfile describes a post author. Profiles built for unknown keys use
// the key as the name and leave the other fields empty.
type AuthorProfile struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	URL         string `json:"url,omitempty"`
}
