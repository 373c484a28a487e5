package resolve

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorstack/pkg/errors"
)

// Policies for wall fixtures whose type is not recognised.
const (
	// UnknownIgnore drops unrecognised fixtures from the output.
	UnknownIgnore = "ignore"
	// UnknownGap records unrecognised fixtures as openings, so consumers cut
	// a gap in the wall for them.
	UnknownGap = "gap"
)

// DefaultUnknownFixtures is the default policy for unrecognised fixtures.
const DefaultUnknownFixtures = UnknownIgnore

// Options configures resolution.
type Options struct {
	// Strict turns any diagnostic into an overall failure.
	Strict bool `json:"strict,omitempty"`

	// UnknownFixtures is UnknownIgnore (default) or UnknownGap.
	UnknownFixtures string `json:"unknown_fixtures,omitempty"`

	// Concurrency is the number of floors resolved in parallel. Values
	// below 2 resolve sequentially. The output does not depend on it.
	Concurrency int `json:"-"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.UnknownFixtures == "" {
		o.UnknownFixtures = DefaultUnknownFixtures
	}
	if err := ValidateUnknownFixtures(o.UnknownFixtures); err != nil {
		return err
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateUnknownFixtures checks an unknown-fixture policy name.
func ValidateUnknownFixtures(policy string) error {
	switch policy {
	case UnknownIgnore, UnknownGap:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid unknown_fixtures policy: %q (must be one of: ignore, gap)", policy)
	}
}
