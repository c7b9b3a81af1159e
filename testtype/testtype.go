package testtype

import (
	"fmt"
	"sort"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// Type identifies a test suite of the driver.
type Type string

// Supported test types ...
const (
	Rust Type = "rust"
)

// Handler knows how to build and run one test type.
type Handler interface {
	Type() Type
	// BuildCommand returns the shell script preparing the test run, empty if nothing has to be built.
	BuildCommand() string
	// TestCommand returns the shell script writing a JUnit report to <resultBase>.xml.
	TestCommand(resultBase string, extraArgs []string) string
	// ResultPrefix is the name prefix of every file the test run produces.
	ResultPrefix() string
}

// ResultBase is the result file name without extension for a test run of the tag.
func ResultBase(h Handler, tag string) string {
	return fmt.Sprintf("%s_%s", h.ResultPrefix(), tag)
}

// Registry maps test types to their handlers.
type Registry struct {
	handlers map[Type]Handler
}

// NewRegistry ...
func NewRegistry(handlers ...Handler) Registry {
	r := Registry{handlers: map[Type]Handler{}}
	for _, h := range handlers {
		r.handlers[h.Type()] = h
	}
	return r
}

// DefaultRegistry holds every test type the step supports.
func DefaultRegistry() Registry {
	return NewRegistry(NewRustHandler())
}

// Lookup ...
func (r Registry) Lookup(name string) (Handler, error) {
	h, ok := r.handlers[Type(name)]
	if !ok {
		return nil, fmt.Errorf("not supported test type: %s, supported: %s", name, strings.Join(r.Names(), ", "))
	}
	return h, nil
}

// Validate fails on the first unknown test type.
func (r Registry) Validate(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("no test type selected, supported: %s", strings.Join(r.Names(), ", "))
	}
	for _, name := range names {
		if _, err := r.Lookup(name); err != nil {
			return err
		}
	}
	return nil
}

// Names ...
func (r Registry) Names() []string {
	var names []string
	for t := range r.handlers {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

type rustHandler struct{}

// NewRustHandler runs the cargo test suite and converts its json output with cargo2junit.
func NewRustHandler() Handler {
	return rustHandler{}
}

func (rustHandler) Type() Type {
	return Rust
}

func (rustHandler) ResultPrefix() string {
	return "rust_results"
}

func (rustHandler) BuildCommand() string {
	return "cargo build --verbose --examples"
}

func (rustHandler) TestCommand(resultBase string, extraArgs []string) string {
	args := []string{"cargo", "test", "--verbose", "--no-fail-fast"}
	args = append(args, extraArgs...)
	args = append(args, "--", "-Z", "unstable-options", "--format", "json", "--report-time")

	return fmt.Sprintf("%s | tee %s | cargo2junit > %s",
		shellquote.Join(args...),
		shellquote.Join(resultBase+".json"),
		shellquote.Join(resultBase+".xml"),
	)
}
