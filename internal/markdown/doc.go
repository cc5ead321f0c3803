// Package markdown turns front matter delimited Markdown files into HTML.
// It covers front matter splitting, asset link normalisation, rendering with
// the site's extension set and the metadata derived from rendered output
// (cover image, table of contents, reading time).
package markdown
