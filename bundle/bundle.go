package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBundleName is used for tags which are not versions and have no bundle of their own.
	DefaultBundleName = "master"

	ignoreFileName    = "ignore.yaml"
	patchFilePrefix   = "patch"
	driverVersionSep  = "-"
	strictVersionExpr = `^v?\d+\.\d+\.\d+$`
)

var strictVersionRegexp = regexp.MustCompile(strictVersionExpr)

var (
	// ErrNoConfigForVersion ...
	ErrNoConfigForVersion = errors.New("no config bundle for driver version")
	// ErrStoreUnavailable means the version store itself can't be read.
	ErrStoreUnavailable = errors.New("config store unavailable")
)

// IgnoreSet holds the test identifiers expected to fail.
type IgnoreSet map[string]struct{}

// NewIgnoreSet ...
func NewIgnoreSet(ids ...string) IgnoreSet {
	set := IgnoreSet{}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains ...
func (s IgnoreSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len ...
func (s IgnoreSet) Len() int {
	return len(s)
}

// List returns the identifiers in sorted order.
func (s IgnoreSet) List() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Bundle is the resolved configuration of a driver version.
type Bundle struct {
	Name    string
	Dir     string
	Patches []string
	Ignore  IgnoreSet
}

// Resolver ...
type Resolver interface {
	Resolve(tag string) (Bundle, error)
}

type resolver struct {
	storeDir    string
	logger      log.Logger
	pathChecker pathutil.PathChecker
}

// NewResolver ...
func NewResolver(storeDir string, logger log.Logger, pathChecker pathutil.PathChecker) Resolver {
	return &resolver{
		storeDir:    storeDir,
		logger:      logger,
		pathChecker: pathChecker,
	}
}

// DriverVersion strips the suffix of a release tag: v0.13.0-rc1 -> v0.13.0.
func DriverVersion(tag string) string {
	return strings.SplitN(tag, driverVersionSep, 2)[0]
}

// IsStrictVersion reports whether the name is a MAJOR.MINOR.PATCH version, with optional v prefix.
func IsStrictVersion(name string) bool {
	return strictVersionRegexp.MatchString(name)
}

// Resolve picks the bundle of the greatest known version not newer than the tag's driver version.
// Tags which are not versions select the bundle named after the tag, then after its driver version,
// then the default bundle.
func (r *resolver) Resolve(tag string) (Bundle, error) {
	names, err := r.storeEntries()
	if err != nil {
		return Bundle{}, err
	}

	driverVersion := DriverVersion(tag)

	var name string
	if IsStrictVersion(driverVersion) {
		name, err = floorMatch(driverVersion, names)
		if err != nil {
			return Bundle{}, err
		}
	} else {
		name = aliasMatch(names, tag, driverVersion)
		if name == "" {
			return Bundle{}, fmt.Errorf("%w %s: neither %s nor %s bundle exists in %s", ErrNoConfigForVersion, tag, driverVersion, DefaultBundleName, r.storeDir)
		}
	}

	r.logger.Printf("Driver version %s resolved to config bundle: %s", tag, name)

	return r.load(name)
}

func (r *resolver) storeEntries() ([]string, error) {
	entries, err := os.ReadDir(r.storeDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func floorMatch(driverVersion string, names []string) (string, error) {
	target, err := version.NewSemver(driverVersion)
	if err != nil {
		return "", fmt.Errorf("%w %s: %s", ErrNoConfigForVersion, driverVersion, err)
	}

	var best *version.Version
	var bestName string
	for _, name := range names {
		if !IsStrictVersion(name) {
			continue
		}

		candidate, err := version.NewSemver(name)
		if err != nil {
			continue
		}
		if candidate.GreaterThan(target) {
			continue
		}
		if best == nil || candidate.GreaterThan(best) {
			best = candidate
			bestName = name
		}
	}

	if best == nil {
		return "", fmt.Errorf("%w %s: no bundle at or below this version", ErrNoConfigForVersion, driverVersion)
	}
	return bestName, nil
}

// aliasMatch returns the first alias with a bundle of the same name, the default bundle otherwise.
func aliasMatch(names []string, aliases ...string) string {
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}

	for _, alias := range aliases {
		if known[alias] {
			return alias
		}
	}
	if known[DefaultBundleName] {
		return DefaultBundleName
	}
	return ""
}

func (r *resolver) load(name string) (Bundle, error) {
	dir := filepath.Join(r.storeDir, name)

	ignore, err := r.loadIgnoreSet(dir)
	if err != nil {
		return Bundle{}, err
	}

	patches, err := r.listPatches(dir)
	if err != nil {
		return Bundle{}, err
	}

	return Bundle{
		Name:    name,
		Dir:     dir,
		Patches: patches,
		Ignore:  ignore,
	}, nil
}

type ignoreFile struct {
	Tests struct {
		Ignore []string `yaml:"ignore"`
	} `yaml:"tests"`
}

func (r *resolver) loadIgnoreSet(dir string) (IgnoreSet, error) {
	pth := filepath.Join(dir, ignoreFileName)
	exists, err := r.pathChecker.IsPathExists(pth)
	if err != nil {
		return nil, fmt.Errorf("failed to check ignore file (%s): %w", pth, err)
	}
	if !exists {
		r.logger.Printf("Cannot find ignore file in bundle (%s), no tests are ignored", dir)
		return NewIgnoreSet(), nil
	}

	content, err := os.ReadFile(pth)
	if err != nil {
		return nil, fmt.Errorf("failed to read ignore file (%s): %w", pth, err)
	}

	var parsed ignoreFile
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ignore file (%s): %w", pth, err)
	}

	if len(parsed.Tests.Ignore) == 0 {
		r.logger.Printf("The ignore file (%s) does not contain any test to ignore", pth)
	}

	set := NewIgnoreSet(parsed.Tests.Ignore...)
	r.logger.Debugf("Ignored tests: %v", set.List())
	return set, nil
}

func (r *resolver) listPatches(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundle (%s): %w", dir, err)
	}

	var patches []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), patchFilePrefix) {
			continue
		}
		patches = append(patches, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(patches)
	return patches, nil
}
