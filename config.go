package pubsite

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/deploy"
	"github.com/eringen/pubsite/markdown"
	"github.com/eringen/pubsite/views"
)

// DefaultConfigFile is the config file LoadConfig reads when no path is given.
const DefaultConfigFile = "pubsite.yaml"

// SiteConfig holds all configuration for a pubsite build.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	Description string `yaml:"description"` // Shown under the header on the index
	URL         string `yaml:"url"`         // Canonical base URL (default "http://localhost:8000")
	Language    string `yaml:"language"`    // BCP 47 tag (default "en")

	OutputDir     string   `yaml:"output_dir"`    // default "docs"
	ContentDir    string   `yaml:"content_dir"`   // default "Content"
	ContentDB     string   `yaml:"content_db"`    // SQLite source; overrides ContentDir when set
	ResourcesDir  string   `yaml:"resources_dir"` // default "Resources"
	RSSSections   []string `yaml:"rss_sections"`  // empty: no feed
	MaxImageWidth int      `yaml:"max_image_width"`

	PreviewAddr string `yaml:"preview_addr"` // default ":8000"

	Markdown MarkdownConfig `yaml:"markdown"`
	Deploy   DeployConfig   `yaml:"deploy"`
}

// MarkdownConfig tunes body rendering for the content directory source.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"` // goldmark extension names; empty: gfm
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"` // drop raw HTML
}

// DeployConfig configures git deployment of the output directory.
type DeployConfig struct {
	Remote      string     `yaml:"remote"` // empty: skip deployment
	Branch      string     `yaml:"branch"` // default "generated"
	Auth        AuthConfig `yaml:"auth"`
	AuthorName  string     `yaml:"author_name"`
	AuthorEmail string     `yaml:"author_email"`
}

// AuthConfig selects how the deployer authenticates to the remote.
type AuthConfig struct {
	Type     string `yaml:"type"` // ssh, token, basic or none
	KeyPath  string `yaml:"key_path"`
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8000"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.OutputDir == "" {
		c.OutputDir = "docs"
	}
	if c.ContentDir == "" {
		c.ContentDir = "Content"
	}
	if c.ResourcesDir == "" {
		c.ResourcesDir = "Resources"
	}
	if c.PreviewAddr == "" {
		c.PreviewAddr = ":8000"
	}
	if c.Deploy.Branch == "" {
		c.Deploy.Branch = "generated"
	}
	if c.Deploy.AuthorName == "" {
		c.Deploy.AuthorName = "pubsite"
	}
	if c.Deploy.AuthorEmail == "" {
		c.Deploy.AuthorEmail = "pubsite@localhost"
	}
	c.Deploy.Auth.Type = strings.ToLower(strings.TrimSpace(c.Deploy.Auth.Type))
}

// Validate reports the first invalid option as a *ConfigError.
func (c SiteConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Field: "url", Reason: fmt.Sprintf("%q is not an absolute URL", c.URL)}
	}
	if _, err := language.Parse(c.Language); err != nil {
		return &ConfigError{Field: "language", Reason: err.Error()}
	}
	if strings.TrimSpace(c.OutputDir) == "" || c.OutputDir == "." || c.OutputDir == "/" {
		return &ConfigError{Field: "output_dir", Reason: "must name a dedicated directory"}
	}
	if err := c.checkOutputDir(); err != nil {
		return err
	}
	if c.MaxImageWidth < 0 {
		return &ConfigError{Field: "max_image_width", Reason: "must not be negative"}
	}
	switch c.Deploy.Auth.Type {
	case "", "none", "ssh":
	case "token", "basic":
		if c.Deploy.Auth.Token == "" {
			return &ConfigError{Field: "deploy.auth.token", Reason: "required for " + c.Deploy.Auth.Type + " auth"}
		}
	default:
		return &ConfigError{Field: "deploy.auth.type", Reason: fmt.Sprintf("unknown auth type %q", c.Deploy.Auth.Type)}
	}
	return nil
}

// checkOutputDir rejects an output directory holding any input. A build
// replaces the whole output directory, so an input inside it would be deleted.
func (c SiteConfig) checkOutputDir() error {
	out, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return &ConfigError{Field: "output_dir", Reason: err.Error()}
	}
	inputs := []struct{ field, dir string }{
		{"content_dir", c.ContentDir},
		{"resources_dir", c.ResourcesDir},
	}
	if c.ContentDB != "" {
		inputs = append(inputs, struct{ field, dir string }{"content_db", filepath.Dir(c.ContentDB)})
	}
	for _, in := range inputs {
		if in.dir == "" {
			continue
		}
		dir, err := filepath.Abs(in.dir)
		if err != nil {
			continue
		}
		for _, o := range []string{out, out + "_stage", out + ".prev"} {
			if within(o, dir) {
				return &ConfigError{Field: "output_dir", Reason: fmt.Sprintf("%q contains %s %q", c.OutputDir, in.field, in.dir)}
			}
		}
	}
	return nil
}

// within reports whether p is dir or lies below it. Both paths are absolute.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Metadata returns the site metadata handed to the content model.
func (c SiteConfig) Metadata() content.Metadata {
	return content.Metadata{
		Name:        c.Name,
		Description: c.Description,
		URL:         c.URL,
		Language:    c.Language,
	}
}

// MarkdownRenderer builds the body renderer described by c.Markdown.
func (c SiteConfig) MarkdownRenderer() *markdown.Renderer {
	opts := []markdown.Option{markdown.WithExtensions(c.Markdown.Extensions...)}
	if c.Markdown.HardWraps {
		opts = append(opts, markdown.WithHardWraps())
	}
	if c.Markdown.SafeMode {
		opts = append(opts, markdown.WithSafeMode())
	}
	return markdown.New(opts...)
}

// LoadConfig reads path (DefaultConfigFile when empty), applies environment
// overrides and defaults. A missing default file is not an error; values then
// come from the environment alone. .env and .env.local are loaded first and
// never overwrite variables already set.
func LoadConfig(path string) (SiteConfig, error) {
	for _, f := range []string{".env", ".env.local"} {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return SiteConfig{}, fmt.Errorf("pubsite: load %s: %w", f, err)
			}
			slog.Debug("Loaded environment file", "path", f)
		}
	}

	var cfg SiteConfig
	explicit := path != ""
	if !explicit {
		path = EnvOr("PUBSITE_CONFIG", DefaultConfigFile)
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return SiteConfig{}, &ConfigError{Field: path, Reason: err.Error()}
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return SiteConfig{}, fmt.Errorf("pubsite: read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return SiteConfig{}, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	c.Name = EnvOr("PUBSITE_NAME", c.Name)
	c.Description = EnvOr("PUBSITE_DESCRIPTION", c.Description)
	c.URL = EnvOr("PUBSITE_URL", c.URL)
	c.Language = EnvOr("PUBSITE_LANGUAGE", c.Language)
	c.OutputDir = EnvOr("PUBSITE_OUTPUT_DIR", c.OutputDir)
	c.ContentDir = EnvOr("PUBSITE_CONTENT_DIR", c.ContentDir)
	c.ContentDB = EnvOr("PUBSITE_CONTENT_DB", c.ContentDB)
	c.ResourcesDir = EnvOr("PUBSITE_RESOURCES_DIR", c.ResourcesDir)
	c.PreviewAddr = EnvOr("PUBSITE_PREVIEW_ADDR", c.PreviewAddr)
	if v := os.Getenv("PUBSITE_RSS_SECTIONS"); v != "" {
		c.RSSSections = splitList(v)
	}
	if v := os.Getenv("PUBSITE_MARKDOWN_EXTENSIONS"); v != "" {
		c.Markdown.Extensions = splitList(v)
	}
	if v := os.Getenv("PUBSITE_MAX_IMAGE_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "max_image_width", Reason: fmt.Sprintf("%q is not an integer", v)}
		}
		c.MaxImageWidth = n
	}

	d := &c.Deploy
	d.Remote = EnvOr("PUBSITE_DEPLOY_REMOTE", d.Remote)
	d.Branch = EnvOr("PUBSITE_DEPLOY_BRANCH", d.Branch)
	d.AuthorName = EnvOr("PUBSITE_DEPLOY_AUTHOR_NAME", d.AuthorName)
	d.AuthorEmail = EnvOr("PUBSITE_DEPLOY_AUTHOR_EMAIL", d.AuthorEmail)
	d.Auth.Type = EnvOr("PUBSITE_DEPLOY_AUTH_TYPE", d.Auth.Type)
	d.Auth.KeyPath = EnvOr("PUBSITE_DEPLOY_KEY_PATH", d.Auth.KeyPath)
	d.Auth.Username = EnvOr("PUBSITE_DEPLOY_USERNAME", d.Auth.Username)
	d.Auth.Token = EnvOr("PUBSITE_DEPLOY_TOKEN", d.Auth.Token)
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Option configures additional App behavior.
type Option func(*App)

// WithSource replaces the content source chosen from the config.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithDeployer replaces the git deployer built from the config.
func WithDeployer(d deploy.Deployer) Option {
	return func(a *App) {
		a.deployer = d
	}
}

// WithStyle sets the theme (default views.DefaultStyle()).
func WithStyle(s views.Style) Option {
	return func(a *App) {
		a.style = s
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}
