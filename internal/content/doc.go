// Package content assembles the site's Markdown documents into typed values:
// posts with derived metadata, singleton pages, the CV and author profiles.
//
// Every load re-reads its files. Callers wanting to avoid repeated work plug a
// PostCache in front of the assembler; the observable result is identical.
package content
