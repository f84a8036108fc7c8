// Package catalog implements the in-memory file index.
//
// The index keeps records in a positional order with unique names. It
// supports insert and remove by position, rename, a stable in-place sort
// on name, size or modification time, and linear searches that mark every
// match as accessed.
//
// File records cache their content together with derived metadata: size,
// line count, detected MIME type and a content checksum.
//
// Example Usage:
//
//	ix := catalog.New()
//	ix.InsertAt(catalog.Entry{Name: "a.txt", Content: "hi"}, catalog.LastPosition)
//	ix.SortBy(catalog.BySize)
//	docs := ix.ByCategory(catalog.Document)
package catalog
