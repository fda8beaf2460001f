package values

import (
	"github.com/zclconf/go-cty/cty"
)

// Cty allows structs to customize the way they are
// converted to cty.Value
type Cty interface {
	CTY() cty.Value
}

// OptionalString is a string that might not be present at all, which
// is different from being empty
type OptionalString struct {
	String string
	Valid  bool // Valid is true if String is present
}

func SomeString(value string) OptionalString {
	return OptionalString{String: value, Valid: true}
}

func (this OptionalString) CTY() cty.Value {
	if this.Valid {
		return cty.StringVal(this.String)
	}

	return cty.NullVal(cty.String)
}
