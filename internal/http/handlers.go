package http

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-folio/internal/contact"
	"github.com/goliatone/go-folio/internal/content"
	"github.com/goliatone/go-folio/internal/logging"
)

type homeResponse struct {
	*content.HomeView
	SEO content.SEO `json:"seo"`
}

type aboutResponse struct {
	*content.AboutView
	SEO content.SEO `json:"seo"`
}

type cvResponse struct {
	*content.CVContent
	SEO content.SEO `json:"seo"`
}

type pageResponse struct {
	*content.PageContent
	SEO content.SEO `json:"seo"`
}

type postSummary struct {
	Slug               string   `json:"slug"`
	URL                string   `json:"url"`
	Title              string   `json:"title"`
	Date               string   `json:"date,omitempty"`
	Draft              bool     `json:"draft,omitempty"`
	Authors            []string `json:"authors"`
	Tags               []string `json:"tags"`
	ReadingTimeMinutes int      `json:"reading_time_minutes"`
	SummaryHTML        string   `json:"summary_html"`
	CoverImageURL      string   `json:"cover_image_url,omitempty"`
	HasMore            bool     `json:"has_more"`
}

type postListResponse struct {
	Tag   string        `json:"tag,omitempty"`
	Posts []postSummary `json:"posts"`
}

type contactResponse struct {
	Status  string            `json:"status"`
	Error   string            `json:"error,omitempty"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func summarize(post *content.PostContent) postSummary {
	return postSummary{
		Slug:               post.Slug,
		URL:                post.URL(),
		Title:              post.Title,
		Date:               post.DateString(),
		Draft:              post.Draft,
		Authors:            nonNil(post.Authors),
		Tags:               nonNil(post.Tags),
		ReadingTimeMinutes: post.ReadingTimeMinutes,
		SummaryHTML:        post.SummaryHTML,
		CoverImageURL:      post.CoverImageURL,
		HasMore:            post.HasMore,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (api *API) handleHome(w http.ResponseWriter, r *http.Request) {
	view, err := api.content.Home(r.Context())
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, homeResponse{HomeView: view, SEO: api.content.SEO("/")})
}

func (api *API) handleAbout(w http.ResponseWriter, r *http.Request) {
	view, err := api.content.About(r.Context())
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aboutResponse{AboutView: view, SEO: api.content.SEO("/about/")})
}

func (api *API) handleCV(w http.ResponseWriter, r *http.Request) {
	cv, err := api.content.CV(r.Context())
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cvResponse{CVContent: cv, SEO: api.content.SEO("/cv/")})
}

func (api *API) handlePage(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PathValue("key"))
	page, err := api.content.Page(r.Context(), key)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{PageContent: page, SEO: api.content.SEO("/" + key + "/")})
}

func (api *API) handlePostList(w http.ResponseWriter, r *http.Request) {
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	var (
		posts []*content.PostContent
		err   error
	)
	if tag == "" {
		posts, err = api.content.Posts(r.Context())
	} else {
		posts, err = api.content.PostsByTag(r.Context(), tag)
	}
	if err != nil {
		api.fail(w, r, err)
		return
	}
	summaries := make([]postSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, summarize(post))
	}
	writeJSON(w, http.StatusOK, postListResponse{Tag: tag, Posts: summaries})
}

func (api *API) handlePostGet(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "slug required"})
		return
	}
	detail, err := api.content.PostDetail(r.Context(), slug)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (api *API) handleContact(w http.ResponseWriter, r *http.Request) {
	if api.contact == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var sub contact.Submission
	if err := decodeJSON(w, r, &sub); err != nil {
		status := http.StatusBadRequest
		if isBodyTooLarge(err) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, contactResponse{
			Status:  string(contact.StatusValidationError),
			Error:   "bad_request",
			Message: "invalid JSON payload",
		})
		return
	}

	result, err := api.contact.Submit(r.Context(), clientIP(r), sub)
	if err != nil {
		status, payload := mapError(err)
		writeJSON(w, status, contactResponse{
			Status:  string(result),
			Error:   payload.Error,
			Code:    payload.Code,
			Message: payload.Message,
			Fields:  payload.Fields,
		})
		return
	}
	writeJSON(w, http.StatusOK, contactResponse{Status: string(result)})
}

func (api *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !goerrors.IsNotFound(err) {
		logging.ForRequest(r.Context(), api.logger).Error("http.request.failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}
