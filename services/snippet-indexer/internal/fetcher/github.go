package fetcher

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v58/github"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/retry"
)

const maxSourceFileBytes = 2 * 1024 * 1024

type Github struct {
	githubClient *github.Client
	retrier      retry.Retrier[string]
}

type GithubOption func(g *Github)

func WithRetry(retrier retry.Retrier[string]) GithubOption {
	return func(g *Github) {
		g.retrier = retrier
	}
}

func NewGithub(githubClient *github.Client, opts ...GithubOption) Fetcher {
	g := &Github{
		githubClient: githubClient,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.retrier == nil {
		g.retrier = retry.New[string](retry.Options{MaxRetries: 1})
	}

	return g
}

// Fetch clones the repository shallowly at ref and loads every .py file
// beneath it. The checkout is pinned to the resolved commit SHA, not the
// ref, so two ingests of the same ref can be told apart when it moves.
func (g *Github) Fetch(ctx context.Context, repoURL, ref string) (*Checkout, error) {
	commit, err := g.resolveCommit(ctx, repoURL, ref)
	if err != nil {
		return nil, err
	}

	dir, cleanup, err := g.clone(ctx, repoURL, ref)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	files, err := collectPythonFiles(dir)
	if err != nil {
		return nil, err
	}

	return &Checkout{
		Repo:   repoURL,
		Commit: commit,
		Files:  files,
	}, nil
}

func (g *Github) clone(ctx context.Context, repoURL, ref string) (string, func() error, error) {
	dir, err := os.MkdirTemp("", "snippet-ingest-*")
	if err != nil {
		return "", nil, err
	}

	cleanup := func() error {
		return os.RemoveAll(dir)
	}

	for _, args := range cloneCommands(ref, repoURL, dir) {
		cmd := exec.CommandContext(ctx, "git", args...)
		cmd.Dir = dir
		output, err := cmd.CombinedOutput()
		if err != nil {
			_ = cleanup()
			return "", nil, fmt.Errorf("git %s failed: %w\n%s", args[0], err, output)
		}
	}

	return dir, cleanup, nil
}

// cloneCommands picks the checkout strategy for the ref. `--branch` only
// accepts branch and tag names, so a pinned commit is fetched by SHA into an
// empty clone instead.
func cloneCommands(ref, repoURL, dir string) [][]string {
	if isCommitSHA(ref) {
		return [][]string{
			{"clone", "--no-checkout", "--filter=blob:none", repoURL, dir},
			{"fetch", "--depth=1", "origin", ref},
			{"checkout", ref},
		}
	}
	return [][]string{
		{"clone", "--depth=1", "--branch", ref, repoURL, dir},
	}
}

// resolveCommit asks the GitHub API which commit the ref currently names.
// Refs that already look like a full SHA are taken as-is.
func (g *Github) resolveCommit(ctx context.Context, repoURL, ref string) (string, error) {
	if isCommitSHA(ref) {
		return ref, nil
	}

	owner, repo, err := splitRepoURL(repoURL)
	if err != nil {
		return "", err
	}

	return g.retrier.Do(ctx, func() (string, error) {
		commit, _, err := g.githubClient.Repositories.GetCommitSHA1(ctx, owner, repo, ref, "")
		if err != nil {
			return "", err
		}
		return commit, nil
	})
}

func isCommitSHA(ref string) bool {
	if len(ref) != 40 {
		return false
	}
	for _, r := range ref {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

func splitRepoURL(repoURL string) (string, string, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "", "", err
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("cannot derive owner/repo from %q", repoURL)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

func collectPythonFiles(root string) ([]SourceFile, error) {
	var files []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxSourceFileBytes {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, SourceFile{
			Path:    filepath.ToSlash(rel),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
