package roster

import (
	"errors"
	"fmt"
)

// ErrMissingElement is matched by every *MissingElementError.
var ErrMissingElement = errors.New("required element is missing")

// Element roles reported in MissingElementError.
const (
	ROLE_TEMPLATE      = "template"
	ROLE_ANCHOR        = "anchor"
	ROLE_ANCHOR_PARENT = "anchor parent"
	ROLE_DISPLAY       = "display"
)

type MissingElementError struct {
	Role string
	ID   string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("roster: %s element %q is missing", e.Role, e.ID)
}

func (e *MissingElementError) Is(target error) bool {
	return target == ErrMissingElement
}
