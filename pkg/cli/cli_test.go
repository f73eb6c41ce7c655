package cli_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/brix/pkg/cli"
	"github.com/m-mizutani/gt"
)

func setupRepository(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	repo := gt.R1(git.PlainInit(dir, false)).NoError(t)
	wt := gt.R1(repo.Worktree()).NoError(t)

	for _, name := range files {
		gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
		gt.R1(wt.Add(name)).NoError(t)
	}
	gt.R1(wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Bob", Email: "bob@example.com", When: time.Now()},
	})).NoError(t)

	return dir
}

func TestIndexCommand(t *testing.T) {
	t.Run("index local repository", func(t *testing.T) {
		dir := setupRepository(t, "Jenkinsfile")

		err := cli.New().Run([]string{"brix", "index", "--repo-dir", dir, "--owner", "bob", "--repo", "foo"})
		gt.NoError(t, err)
	})

	t.Run("state is kept in badger across runs", func(t *testing.T) {
		dir := setupRepository(t, "Jenkinsfile")
		dbPath := filepath.Join(t.TempDir(), "db")

		args := []string{"brix", "index", "--repo-dir", dir, "--owner", "bob", "--repo", "foo", "--badger-path", dbPath}
		gt.NoError(t, cli.New().Run(args))
		gt.NoError(t, cli.New().Run(args))

		_, err := os.Stat(dbPath)
		gt.NoError(t, err)
	})

	t.Run("no marker is still success", func(t *testing.T) {
		dir := setupRepository(t, "README.md")

		err := cli.New().Run([]string{"brix", "index", "--repo-dir", dir, "--owner", "bob", "--repo", "foo"})
		gt.NoError(t, err)
	})

	t.Run("no project configured", func(t *testing.T) {
		err := cli.New().Run([]string{"brix", "index"})
		gt.Error(t, err)
	})

	t.Run("owner can not be detected without origin", func(t *testing.T) {
		dir := setupRepository(t, "Jenkinsfile")

		err := cli.New().Run([]string{"brix", "index", "--repo-dir", dir})
		gt.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		err := cli.New().Run([]string{"brix", "--log-level", "verbose", "index"})
		gt.Error(t, err)
	})
}
