package fetcher

import (
	"context"
)

// SourceFile is one Python file pulled out of a fetched checkout. Path is
// relative to the repository root with forward slashes.
type SourceFile struct {
	Path    string
	Content []byte
}

// Checkout is the materialized state of one (repo, ref) pair.
type Checkout struct {
	Repo   string
	Commit string
	Files  []SourceFile
}

// Fetcher materializes a repository at a ref so the pipeline can walk its
// Python sources.
type Fetcher interface {
	Fetch(ctx context.Context, repoURL, ref string) (*Checkout, error)
}
