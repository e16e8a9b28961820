package model

import (
	"fmt"

	"infographica/internal/ierrors"
)

func errInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ierrors.InputInvalid}, args...)...)
}
