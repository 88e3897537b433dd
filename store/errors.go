package store

import (
	"fmt"

	"github.com/gridfour/gvrs/errs"
)

func errTruncated(what string) error {
	return fmt.Errorf("%w: store: %s", errs.ErrTruncatedPayload, what)
}
