// Package searchfile holds the registry of files observed during
// ingestion. Unlike the line index, this registry is never deduplicated:
// each (revision, path) pair seen while walking a revision's tree creates
// a fresh record, even if another revision's walk produced an identical
// path with identical content.
package searchfile

import (
	"encoding/hex"
	"fmt"
)

// ContentID is the identity of a blob's content as assigned by the object
// store collaborator (a SHA-1 object id, for a git backend).
type ContentID [20]byte

// String renders the content id as lowercase hex.
func (c ContentID) String() string {
	return hex.EncodeToString(c[:])
}

// File is one entry in the file registry: a named path as it existed in
// one named revision, together with the identity of its blob content.
type File struct {
	Revision string
	Path     string
	Content  ContentID
}

// String renders a File as "revision:path", the text query results wrap
// in parentheses when attributing a match.
func (f *File) String() string {
	return fmt.Sprintf("%s:%s", f.Revision, f.Path)
}

// Registry accumulates File records across any number of revision walks.
type Registry struct {
	files []*File
}

// NewRegistry returns an empty file registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a new file record and returns it. It is never deduplicated
// against existing records, by design: the same path can legitimately
// appear once per revision it was walked in.
func (r *Registry) Add(revision, path string, content ContentID) *File {
	f := &File{Revision: revision, Path: path, Content: content}
	r.files = append(r.files, f)
	return f
}

// Files returns every registered file, in registration order.
func (r *Registry) Files() []*File {
	return r.files
}

// Len returns the number of registered files.
func (r *Registry) Len() int {
	return len(r.files)
}
