package gitrepo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-driver-matrix/drivercommand"
	"github.com/hashicorp/go-version"
)

// Repository is the driver git checkout.
type Repository interface {
	Checkout(workDir, tag string) error
	LatestTags(workDir string, count int, pattern *regexp.Regexp) ([]string, error)
	OriginRemote(workDir string) (string, error)
}

type repository struct {
	logger log.Logger
	runner drivercommand.Runner
}

// NewRepository ...
func NewRepository(logger log.Logger, runner drivercommand.Runner) Repository {
	return &repository{
		logger: logger,
		runner: runner,
	}
}

// Checkout drops local modifications (previously applied patches) and switches to the tag.
func (r *repository) Checkout(workDir, tag string) error {
	if _, err := r.git(workDir, "checkout", "."); err != nil {
		return fmt.Errorf("failed to reset checkout: %w", err)
	}

	r.logger.Printf("git checkout to '%s' tag", tag)
	if _, err := r.git(workDir, "checkout", tag); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", tag, err)
	}
	return nil
}

// LatestTags returns the newest tag of the most recent MAJOR.MINOR release lines, count lines at most.
// Tags are ordered by creation date, newest first.
func (r *repository) LatestTags(workDir string, count int, pattern *regexp.Regexp) ([]string, error) {
	if _, err := r.git(workDir, "checkout", "."); err != nil {
		return nil, fmt.Errorf("failed to reset checkout: %w", err)
	}

	out, err := r.git(workDir, "tag", "--sort=-creatordate")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	tags := SelectLatestTags(strings.Split(out.TrimmedOut(), "\n"), count, pattern)
	r.logger.Printf("Selected %d latest tags: %v", count, tags)
	return tags, nil
}

// SelectLatestTags picks the first tag of every release line from the newest-first tag list.
func SelectLatestTags(tags []string, count int, pattern *regexp.Regexp) []string {
	seenLines := map[string]bool{}
	var selected []string

	for _, tag := range tags {
		if len(selected) == count {
			break
		}

		tag = strings.TrimSpace(tag)
		if tag == "" || (pattern != nil && !pattern.MatchString(tag)) {
			continue
		}

		v, err := version.NewVersion(tag)
		if err != nil {
			continue
		}

		segments := v.Segments()
		line := fmt.Sprintf("%d.%d", segments[0], segments[1])
		if seenLines[line] {
			continue
		}

		seenLines[line] = true
		selected = append(selected, tag)
	}

	return selected
}

func (r *repository) OriginRemote(workDir string) (string, error) {
	out, err := r.git(workDir, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("failed to get origin remote: %w", err)
	}
	return out.TrimmedOut(), nil
}

func (r *repository) git(workDir string, args ...string) (drivercommand.Output, error) {
	out, err := r.runner.Run(drivercommand.Params{
		Name: "git",
		Args: args,
		Dir:  workDir,
	})
	if err != nil {
		return out, fmt.Errorf("%w, output: %s", err, out.TrimmedOut())
	}
	return out, nil
}
