// Package deploy publishes a built output directory to a git remote.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/go-git/go-git/v5/storage/memory"
)

const remoteName = "origin"

// Deployer publishes the directory dir.
type Deployer interface {
	Deploy(ctx context.Context, dir string) error
}

// Auth types understood by NewAuth.
const (
	AuthNone  = "none"
	AuthSSH   = "ssh"
	AuthToken = "token"
	AuthBasic = "basic"
)

// Config describes the remote a GitDeployer pushes to.
type Config struct {
	Remote      string
	Branch      string
	AuthType    string
	KeyPath     string
	Username    string
	Token       string
	AuthorName  string
	AuthorEmail string
}

// GitDeployer commits the output directory as a single commit and
// force-pushes it to Branch on Remote. The repository lives in memory, so no
// .git directory is written next to the output.
type GitDeployer struct {
	Remote      string
	Branch      string
	Auth        transport.AuthMethod
	AuthorName  string
	AuthorEmail string
	Logger      *slog.Logger

	now func() time.Time
}

// NewGitDeployer builds a GitDeployer from cfg, resolving its auth method.
func NewGitDeployer(cfg Config, logger *slog.Logger) (*GitDeployer, error) {
	auth, err := NewAuth(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GitDeployer{
		Remote:      cfg.Remote,
		Branch:      cfg.Branch,
		Auth:        auth,
		AuthorName:  cfg.AuthorName,
		AuthorEmail: cfg.AuthorEmail,
		Logger:      logger,
		now:         time.Now,
	}, nil
}

// NewAuth returns the transport auth method for cfg. A nil method means the
// remote is accessed anonymously.
func NewAuth(cfg Config) (transport.AuthMethod, error) {
	switch strings.ToLower(cfg.AuthType) {
	case "", AuthNone:
		return nil, nil
	case AuthSSH:
		keyPath := cfg.KeyPath
		if keyPath == "" && os.Getenv("SSH_AUTH_SOCK") != "" {
			agent, err := ssh.NewSSHAgentAuth("git")
			if err != nil {
				return nil, fmt.Errorf("deploy: ssh agent: %w", err)
			}
			return agent, nil
		}
		if keyPath == "" {
			keyPath = filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa")
		}
		keys, err := ssh.NewPublicKeysFromFile("git", keyPath, "")
		if err != nil {
			return nil, fmt.Errorf("deploy: load ssh key from %s: %w", keyPath, err)
		}
		return keys, nil
	case AuthToken, AuthBasic:
		user := cfg.Username
		if user == "" {
			// Token auth ignores the user name on most forges but requires one.
			user = "token"
		}
		return &http.BasicAuth{Username: user, Password: cfg.Token}, nil
	default:
		return nil, fmt.Errorf("deploy: unsupported auth type %q", cfg.AuthType)
	}
}

// Deploy stages every file under dir and pushes the result.
func (d *GitDeployer) Deploy(ctx context.Context, dir string) error {
	repo, hash, err := d.stage(dir)
	if err != nil {
		return d.fail(err)
	}
	if err := d.push(ctx, repo); err != nil {
		return d.fail(err)
	}
	d.Logger.Info("Deploy complete", "remote", d.Remote, "branch", d.Branch, "commit", hash.String())
	return nil
}

func (d *GitDeployer) fail(err error) error {
	return &DeploymentError{Remote: d.Remote, Branch: d.Branch, Err: err}
}

// stage creates an in-memory repository whose worktree is dir and commits
// its full contents to Branch.
func (d *GitDeployer) stage(dir string) (*git.Repository, plumbing.Hash, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, plumbing.ZeroHash, err
	}
	if !info.IsDir() {
		return nil, plumbing.ZeroHash, fmt.Errorf("%s is not a directory", dir)
	}

	repo, err := git.Init(memory.NewStorage(), osfs.New(dir))
	if err != nil {
		return nil, plumbing.ZeroHash, fmt.Errorf("init: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, plumbing.ZeroHash, fmt.Errorf("worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return nil, plumbing.ZeroHash, fmt.Errorf("add: %w", err)
	}

	now := d.now()
	hash, err := wt.Commit(CommitMessage(now), &git.CommitOptions{
		Author: &object.Signature{
			Name:  d.AuthorName,
			Email: d.AuthorEmail,
			When:  now,
		},
		AllowEmptyCommits: true,
	})
	if err != nil {
		return nil, plumbing.ZeroHash, fmt.Errorf("commit: %w", err)
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(d.Branch), hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		return nil, plumbing.ZeroHash, fmt.Errorf("set branch ref: %w", err)
	}
	return repo, hash, nil
}

func (d *GitDeployer) push(ctx context.Context, repo *git.Repository) error {
	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: remoteName,
		URLs: []string{d.Remote},
	}); err != nil {
		return fmt.Errorf("add remote: %w", err)
	}
	branch := plumbing.NewBranchReferenceName(d.Branch)
	spec := config.RefSpec(fmt.Sprintf("+%s:%s", branch, branch))
	err := repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       d.Auth,
		Force:      true,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

// CommitMessage returns the deploy commit message for t.
func CommitMessage(t time.Time) string {
	return "Publish deploy " + t.UTC().Format("2006-01-02 15:04:05")
}

// DeploymentError reports a failed deploy. The output directory has already
// been written when it occurs.
type DeploymentError struct {
	Remote string
	Branch string
	Err    error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deploy %s@%s: %v", e.Remote, e.Branch, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }
