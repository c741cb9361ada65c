package plan

import (
	"errors"
	"fmt"
)

var errEmptyPart = errors.New("empty entry in chapter list")

type selectionSyntaxError struct {
	part string
}

func (e *selectionSyntaxError) Error() string {
	return fmt.Sprintf("%q is not a chapter number or N-M range (or %q)", e.part, SelectAll)
}
