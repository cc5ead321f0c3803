package content

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodePageNotFound  = "PAGE_NOT_FOUND"
	textCodePostNotFound  = "POST_NOT_FOUND"
	textCodeDuplicateSlug = "DUPLICATE_SLUG"
	textCodeReadFailed    = "CONTENT_READ_FAILED"
	textCodeRenderFailed  = "CONTENT_RENDER_FAILED"
)

func pageNotFound(key string) error {
	return goerrors.New(fmt.Sprintf("content: page %q not found", key), goerrors.CategoryNotFound).
		WithTextCode(textCodePageNotFound).
		WithMetadata(map[string]any{"page": key})
}

func postNotFound(slug string) error {
	return goerrors.New(fmt.Sprintf("content: post %q not found", slug), goerrors.CategoryNotFound).
		WithTextCode(textCodePostNotFound).
		WithMetadata(map[string]any{"slug": slug})
}

func duplicateSlug(slug, first, second string) error {
	return goerrors.New(fmt.Sprintf("content: slug %q defined by %s and %s", slug, first, second), goerrors.CategoryConflict).
		WithTextCode(textCodeDuplicateSlug).
		WithMetadata(map[string]any{"slug": slug, "files": []string{first, second}})
}

func wrapReadError(err error, path string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "content: read "+path).
		WithTextCode(textCodeReadFailed)
}

func wrapRenderError(err error, path string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "content: render "+path).
		WithTextCode(textCodeRenderFailed)
}
