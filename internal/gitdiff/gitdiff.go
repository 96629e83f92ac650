// Package gitdiff answers "what changed on this branch" for a local git
// repository: changed files, diff statistics, the unified diff and the
// commits between a base branch and HEAD. It reads the repository with
// go-git and never shells out.
package gitdiff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Defaults for Options.
const (
	DefaultBaseBranch   = "main"
	DefaultMaxDiffLines = 500
)

// DiffNotIncluded is reported in place of the diff when IncludeDiff is off.
const DiffNotIncluded = "Diff not included (set include_diff=true to see full diff)"

// ErrNoMergeBase means the base branch and HEAD share no history.
var ErrNoMergeBase = errors.New("no common ancestor between base branch and HEAD")

// Options controls Analyze.
type Options struct {
	// Dir is any directory inside the repository; parents are searched
	// for the .git directory.
	Dir          string
	BaseBranch   string
	IncludeDiff  bool
	MaxDiffLines int
}

func (o *Options) withDefaults() {
	if o.BaseBranch == "" {
		o.BaseBranch = DefaultBaseBranch
	}
	if o.MaxDiffLines <= 0 {
		o.MaxDiffLines = DefaultMaxDiffLines
	}
}

// Analysis is the result of comparing HEAD against the merge base with
// the base branch.
type Analysis struct {
	BaseBranch       string `json:"base_branch"`
	WorkingDirectory string `json:"working_directory"`
	FilesChanged     string `json:"files_changed"`
	Statistics       string `json:"statistics"`
	Commits          string `json:"commits"`
	Diff             string `json:"diff"`
	Truncated        bool   `json:"truncated"`
	TotalDiffLines   int    `json:"total_diff_lines"`
}

// Analyze compares HEAD with the merge base of opts.BaseBranch and HEAD,
// the same range as "git diff base...HEAD".
func Analyze(ctx context.Context, opts Options) (*Analysis, error) {
	opts.withDefaults()

	repo, err := git.PlainOpenWithOptions(opts.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", opts.Dir, err)
	}

	baseHash, err := repo.ResolveRevision(plumbing.Revision(opts.BaseBranch))
	if err != nil {
		return nil, fmt.Errorf("resolving base branch %q: %w", opts.BaseBranch, err)
	}
	headRef, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	base, err := repo.CommitObject(*baseHash)
	if err != nil {
		return nil, fmt.Errorf("reading base commit: %w", err)
	}
	head, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading HEAD commit: %w", err)
	}

	bases, err := base.MergeBase(head)
	if err != nil {
		return nil, fmt.Errorf("computing merge base: %w", err)
	}
	if len(bases) == 0 {
		return nil, ErrNoMergeBase
	}

	patch, err := bases[0].PatchContext(ctx, head)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	commits, err := commitsBetween(ctx, repo, base, head)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		BaseBranch:       opts.BaseBranch,
		WorkingDirectory: opts.Dir,
		FilesChanged:     nameStatus(patch),
		Statistics:       patch.Stats().String(),
		Commits:          commits,
		Diff:             DiffNotIncluded,
	}

	if opts.IncludeDiff {
		a.Diff, a.Truncated, a.TotalDiffLines = truncateLines(patch.String(), opts.MaxDiffLines)
	}
	return a, nil
}

// nameStatus renders one "<status>\t<path>" line per changed file, like
// "git diff --name-status".
func nameStatus(patch *object.Patch) string {
	var b strings.Builder
	for _, fp := range patch.FilePatches() {
		from, to := fp.Files()
		switch {
		case from == nil && to != nil:
			fmt.Fprintf(&b, "A\t%s\n", to.Path())
		case to == nil && from != nil:
			fmt.Fprintf(&b, "D\t%s\n", from.Path())
		case from != nil && to != nil && from.Path() != to.Path():
			fmt.Fprintf(&b, "R\t%s\t%s\n", from.Path(), to.Path())
		case to != nil:
			fmt.Fprintf(&b, "M\t%s\n", to.Path())
		}
	}
	return b.String()
}

// commitsBetween lists commits reachable from head but not from base as
// "<short-hash> <subject>" lines, newest first.
func commitsBetween(ctx context.Context, repo *git.Repository, base, head *object.Commit) (string, error) {
	excluded := make(map[plumbing.Hash]struct{})
	baseIter, err := repo.Log(&git.LogOptions{From: base.Hash})
	if err != nil {
		return "", fmt.Errorf("walking base history: %w", err)
	}
	err = baseIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		excluded[c.Hash] = struct{}{}
		return nil
	})
	baseIter.Close()
	if err != nil {
		return "", fmt.Errorf("walking base history: %w", err)
	}

	headIter, err := repo.Log(&git.LogOptions{From: head.Hash})
	if err != nil {
		return "", fmt.Errorf("walking HEAD history: %w", err)
	}
	defer headIter.Close()

	var b strings.Builder
	err = headIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := excluded[c.Hash]; ok {
			return nil
		}
		fmt.Fprintf(&b, "%s %s\n", c.Hash.String()[:7], subject(c.Message))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking HEAD history: %w", err)
	}
	return b.String(), nil
}

func subject(message string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return strings.TrimSpace(line)
}

// truncateLines keeps the first limit lines of text and appends a marker
// when anything was cut. total counts lines the way strings.Split does.
func truncateLines(text string, limit int) (out string, truncated bool, total int) {
	lines := strings.Split(text, "\n")
	total = len(lines)
	if total <= limit {
		return text, false, total
	}
	out = strings.Join(lines[:limit], "\n") +
		fmt.Sprintf("\n\n... Output truncated. Showing %d of %d lines ...", limit, total) +
		"\n... Use max_diff_lines parameter to see more ..."
	return out, true, total
}
