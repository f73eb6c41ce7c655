package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// ProjectSource is a configured project and where its refs come from. RepoDir is set for a local git repository.
type ProjectSource struct {
	Project *model.Project
	RepoDir string
}

// Project configures one project by flags, or many projects by a YAML file
type Project struct {
	file string

	name           string
	owner          string
	repo           string
	repoDir        string
	markerFile     string
	credentialsID  string
	cloneProtocol  string
	includeTags    bool
	skipBranches   bool
	originPR       []string
	forkPR         []string
	forkTrust      string
	trustedMembers []string
}

func (x *Project) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project-file",
			Usage:       "YAML file of project definitions",
			Category:    "Project",
			Aliases:     []string{"p"},
			Destination: &x.file,
			Sources:     cli.EnvVars("BRIX_PROJECT_FILE"),
		},
		&cli.StringFlag{
			Name:        "project-name",
			Usage:       "Project name (default: owner/repo)",
			Category:    "Project",
			Destination: &x.name,
			Sources:     cli.EnvVars("BRIX_PROJECT_NAME"),
		},
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Repository owner",
			Category:    "Project",
			Destination: &x.owner,
			Sources:     cli.EnvVars("BRIX_OWNER"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository name",
			Category:    "Project",
			Destination: &x.repo,
			Sources:     cli.EnvVars("BRIX_REPO"),
		},
		&cli.StringFlag{
			Name:        "repo-dir",
			Usage:       "Local git repository to index instead of GitHub. Owner and repo are detected from origin if not set",
			Category:    "Project",
			Destination: &x.repoDir,
			Sources:     cli.EnvVars("BRIX_REPO_DIR"),
		},
		&cli.StringFlag{
			Name:        "marker-file",
			Usage:       "Path that makes a ref buildable",
			Category:    "Project",
			Value:       model.DefaultMarkerFile,
			Destination: &x.markerFile,
			Sources:     cli.EnvVars("BRIX_MARKER_FILE"),
		},
		&cli.StringFlag{
			Name:        "credentials-id",
			Usage:       "Credentials ID passed to builds",
			Category:    "Project",
			Destination: &x.credentialsID,
			Sources:     cli.EnvVars("BRIX_CREDENTIALS_ID"),
		},
		&cli.StringFlag{
			Name:        "clone-protocol",
			Usage:       "Clone protocol [https|ssh]",
			Category:    "Project",
			Value:       model.DefaultCloneProtocol,
			Destination: &x.cloneProtocol,
			Sources:     cli.EnvVars("BRIX_CLONE_PROTOCOL"),
		},
		&cli.BoolFlag{
			Name:        "include-tags",
			Usage:       "Build tags",
			Category:    "Project",
			Destination: &x.includeTags,
			Sources:     cli.EnvVars("BRIX_INCLUDE_TAGS"),
		},
		&cli.BoolFlag{
			Name:        "skip-branches",
			Usage:       "Do not build branches",
			Category:    "Project",
			Destination: &x.skipBranches,
			Sources:     cli.EnvVars("BRIX_SKIP_BRANCHES"),
		},
		&cli.StringSliceFlag{
			Name:        "origin-pr",
			Usage:       "Checkout strategies of pull requests from the repository [HEAD|MERGE]",
			Category:    "Project",
			Value:       []string{string(types.CheckoutHead)},
			Destination: &x.originPR,
			Sources:     cli.EnvVars("BRIX_ORIGIN_PR"),
		},
		&cli.StringSliceFlag{
			Name:        "fork-pr",
			Usage:       "Checkout strategies of pull requests from forks [HEAD|MERGE]",
			Category:    "Project",
			Value:       []string{string(types.CheckoutHead)},
			Destination: &x.forkPR,
			Sources:     cli.EnvVars("BRIX_FORK_PR"),
		},
		&cli.StringFlag{
			Name:        "fork-trust",
			Usage:       "Trusted forks [team|everyone|nobody]",
			Category:    "Project",
			Value:       model.ForkTrustTeam,
			Destination: &x.forkTrust,
			Sources:     cli.EnvVars("BRIX_FORK_TRUST"),
		},
		&cli.StringSliceFlag{
			Name:        "trusted-member",
			Usage:       "User whose forks are trusted with team policy",
			Category:    "Project",
			Destination: &x.trustedMembers,
			Sources:     cli.EnvVars("BRIX_TRUSTED_MEMBERS"),
		},
	}
}

func (x *Project) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("File", x.file),
		slog.String("Name", x.name),
		slog.String("Owner", x.owner),
		slog.String("Repo", x.repo),
		slog.String("RepoDir", x.repoDir),
		slog.String("MarkerFile", x.markerFile),
		slog.Bool("IncludeTags", x.includeTags),
		slog.Any("OriginPR", x.originPR),
		slog.Any("ForkPR", x.forkPR),
		slog.String("ForkTrust", x.forkTrust),
	)
}

func toStrategies(values []string) []types.CheckoutStrategy {
	var strategies []types.CheckoutStrategy
	for _, v := range values {
		strategies = append(strategies, types.CheckoutStrategy(v))
	}
	return strategies
}

// Sources returns configured projects. The project file takes precedence over project flags.
// Owner and repo of a flag project may be empty if it is a local repository, and are filled by the caller.
func (x *Project) Sources() ([]*ProjectSource, error) {
	if x.file != "" {
		return LoadProjectFile(x.file)
	}

	if x.owner == "" && x.repo == "" && x.repoDir == "" {
		return nil, nil
	}

	p := &model.Project{
		Name:          types.ProjectName(x.name),
		Owner:         x.owner,
		Repo:          x.repo,
		MarkerFile:    x.markerFile,
		CredentialsID: types.CredentialsID(x.credentialsID),
		CloneProtocol: x.cloneProtocol,
		Traits: model.TraitConfig{
			IncludeBranches:    !x.skipBranches,
			IncludeTags:        x.includeTags,
			OriginPRStrategies: toStrategies(x.originPR),
			ForkPRStrategies:   toStrategies(x.forkPR),
			ForkTrust:          x.forkTrust,
			TrustedMembers:     x.trustedMembers,
		},
	}
	return []*ProjectSource{{Project: p, RepoDir: x.repoDir}}, nil
}

type projectFile struct {
	Projects []projectFileEntry `yaml:"projects"`
}

type projectFileEntry struct {
	Name          string `yaml:"name"`
	Owner         string `yaml:"owner"`
	Repo          string `yaml:"repo"`
	RepoDir       string `yaml:"repo_dir"`
	MarkerFile    string `yaml:"marker_file"`
	CredentialsID string `yaml:"credentials_id"`
	CloneProtocol string `yaml:"clone_protocol"`
	Traits        *struct {
		IncludeBranches *bool    `yaml:"include_branches"`
		IncludeTags     bool     `yaml:"include_tags"`
		OriginPR        []string `yaml:"origin_pr"`
		ForkPR          []string `yaml:"fork_pr"`
		ForkTrust       string   `yaml:"fork_trust"`
		TrustedMembers  []string `yaml:"trusted_members"`
	} `yaml:"traits"`
}

// LoadProjectFile reads project definitions. A relative repo_dir is resolved from the directory of the file.
// Traits not given in the file are the same as DefaultTraitConfig.
func LoadProjectFile(path string) ([]*ProjectSource, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read project file", goerr.V("path", path))
	}

	var file projectFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse project file", goerr.V("path", path))
	}

	var sources []*ProjectSource
	for i, entry := range file.Projects {
		p := &model.Project{
			Name:          types.ProjectName(entry.Name),
			Owner:         entry.Owner,
			Repo:          entry.Repo,
			MarkerFile:    entry.MarkerFile,
			CredentialsID: types.CredentialsID(entry.CredentialsID),
			CloneProtocol: entry.CloneProtocol,
			Traits:        model.DefaultTraitConfig(),
		}

		if t := entry.Traits; t != nil {
			if t.IncludeBranches != nil {
				p.Traits.IncludeBranches = *t.IncludeBranches
			}
			p.Traits.IncludeTags = t.IncludeTags
			if t.OriginPR != nil {
				p.Traits.OriginPRStrategies = toStrategies(t.OriginPR)
			}
			if t.ForkPR != nil {
				p.Traits.ForkPRStrategies = toStrategies(t.ForkPR)
			}
			if t.ForkTrust != "" {
				p.Traits.ForkTrust = t.ForkTrust
			}
			p.Traits.TrustedMembers = t.TrustedMembers
		}

		repoDir := entry.RepoDir
		if repoDir != "" {
			if !filepath.IsAbs(repoDir) {
				repoDir = filepath.Join(filepath.Dir(path), repoDir)
			}
		} else if p.Owner == "" || p.Repo == "" {
			return nil, goerr.Wrap(types.ErrInvalidOption, "owner and repo are required in project file",
				goerr.V("path", path),
				goerr.V("index", i),
			)
		}

		sources = append(sources, &ProjectSource{Project: p, RepoDir: repoDir})
	}

	return sources, nil
}
