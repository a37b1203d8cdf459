// Package vcs is the concrete object-store collaborator: it opens a git
// repository, resolves a revision name to a commit, and walks that
// commit's tree yielding every text blob reachable from it. It is the
// only package in this module that imports go-git; nothing above
// internal/ingest needs to know that the backing store is git at all.
package vcs

import (
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"codesearch/internal/searchfile"
)

// ErrNotACommit is returned when a resolved revision dereferences to an
// object that is not, and cannot be walked down to, a commit.
var ErrNotACommit = errors.New("vcs: revision does not resolve to a commit")

// Blob is one text file reachable from a walked revision.
type Blob struct {
	Path    string
	Content searchfile.ContentID
	Data    []byte
}

// Repository is a handle on an opened git repository.
type Repository struct {
	repo *git.Repository
}

// Open opens the git repository rooted at path (a working tree or a bare
// repository).
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("vcs: open %s: %w", path, err)
	}
	return &Repository{repo: repo}, nil
}

// Resolve resolves revision (a hash, branch, or tag name) to a commit,
// dereferencing annotated tags until a non-tag object is reached.
func (r *Repository) Resolve(revision string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("vcs: resolve %s: %w", revision, err)
	}

	obj, err := r.repo.Object(plumbing.AnyObject, *hash)
	if err != nil {
		return nil, fmt.Errorf("vcs: load object for %s: %w", revision, err)
	}

	for {
		switch o := obj.(type) {
		case *object.Commit:
			return o, nil
		case *object.Tag:
			obj, err = o.Object()
			if err != nil {
				return nil, fmt.Errorf("vcs: dereference tag %s: %w", revision, err)
			}
		default:
			return nil, fmt.Errorf("%w: %s is a %s", ErrNotACommit, revision, obj.Type())
		}
	}
}

// Walk visits every text blob reachable from commit's tree, skipping any
// path matching one of the exclude glob patterns (doublestar syntax,
// matched against the full repository-relative path and against its base
// name) and any blob go-git
// detects as binary. yield is called once per surviving blob; walking
// stops early if yield returns an error.
func (r *Repository) Walk(commit *object.Commit, exclude []string, yield func(Blob) error) error {
	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("vcs: commit tree: %w", err)
	}

	files := tree.Files()
	defer files.Close()

	for {
		f, err := files.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("vcs: walk tree: %w", err)
		}

		if excluded(f.Name, exclude) {
			continue
		}

		isBinary, err := f.IsBinary()
		if err != nil {
			return fmt.Errorf("vcs: check binary %s: %w", f.Name, err)
		}
		if isBinary {
			continue
		}

		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("vcs: read blob %s: %w", f.Name, err)
		}

		if err := yield(Blob{
			Path:    "/" + f.Name,
			Content: searchfile.ContentID(f.Blob.Hash),
			Data:    []byte(content),
		}); err != nil {
			return err
		}
	}
}

func excluded(p string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, p); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, path.Base(p)); ok {
			return true
		}
	}
	return false
}
