package league

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that a snapshot is well formed enough to store. IDs must be
// present, goals and stats must not be negative, and statuses must be known.
// The statistics in this module never call Validate; they treat anything
// missing as zero.
func (l League) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("invalid league %q: %w", l.ID, err)
	}
	return nil
}
