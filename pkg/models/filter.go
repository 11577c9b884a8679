package models

import "fmt"

// Filter is a single structured constraint extracted from a question,
// e.g. {beds 2} or {address.market Paris}. Value is either a string or
// an int depending on the field.
type Filter struct {
	Field string
	Value any
}

func (f Filter) String() string {
	return fmt.Sprintf("%s=%v", f.Field, f.Value)
}
