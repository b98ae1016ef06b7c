// Package gitsource keeps a local checkout of a git repository of card files.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// IsRemote reports whether path looks like a git URL rather than a directory.
func IsRemote(path string) bool {
	return strings.HasSuffix(path, ".git") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://")
}

// LocalPath maps a repository URL to a directory under baseDir, e.g.
// https://github.com/a/b.git becomes baseDir/github.com/a/b. The result is
// always strictly inside baseDir.
func LocalPath(baseDir, repoURL string) (string, error) {
	var host, repoPath string
	parsedURL, err := url.Parse(repoURL)
	if err == nil && (parsedURL.Scheme == "https" || parsedURL.Scheme == "http") {
		host, repoPath = parsedURL.Host, parsedURL.Path
	} else {
		// scp-like syntax: git@host:owner/repo.git
		user, rest, ok := strings.Cut(repoURL, "@")
		if !ok || user == "" {
			return "", fmt.Errorf("could not parse git URL: %s", repoURL)
		}
		host, repoPath, ok = strings.Cut(rest, ":")
		if !ok || host == "" || repoPath == "" {
			return "", fmt.Errorf("could not parse git URL: %s", repoURL)
		}
	}

	if host == "" || host == "." || host == ".." || strings.ContainsAny(host, `/\`) {
		return "", fmt.Errorf("git URL has an invalid host: %s", repoURL)
	}

	base := filepath.Clean(baseDir)
	local := filepath.Join(base, host, strings.TrimSuffix(repoPath, ".git"))
	rel, err := filepath.Rel(base, local)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("git URL escapes the repos directory: %s", repoURL)
	}
	return local, nil
}

// Sync clones a git repository if it doesn't exist at the given path,
// or pulls the latest changes if it does.
func Sync(ctx context.Context, repoURL, localPath string, progress io.Writer) error {
	log := slog.With("url", repoURL, "path", localPath)

	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		log.Info("Cloning repository")
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return fmt.Errorf("failed to create parent of %s: %w", localPath, err)
		}
		_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
			URL:      repoURL,
			Progress: progress,
		})
		if err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", repoURL, err)
		}
		log.Info("Clone successful")

	case err == nil:
		log.Info("Pulling latest changes")
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}

		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}

		err = worktree.PullContext(ctx, &git.PullOptions{
			RemoteName: "origin",
			Progress:   progress,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
		log.Info("Pull successful (or already up-to-date)")

	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return nil
}
