package values

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

var ctyInterface = reflect.TypeOf((*Cty)(nil)).Elem()

// check json.typeFields for inspiration of reflect logic

// CTY converts go lang structs into cty maps automatically. Fields
// implementing Cty convert themselves, everything else goes through
// gocty with its implied type
func CTY(instance interface{}) map[string]cty.Value {
	result := map[string]cty.Value{}
	val := reflect.Indirect(reflect.ValueOf(instance))
	for index := 0; index < val.NumField(); index++ {
		field := val.Type().Field(index)
		fieldValue := val.Field(index)
		// Ignore unexported and explicitly skipped fields.
		if !field.IsExported() || field.Tag.Get("cty") == "-" {
			continue
		}

		name := ToSnakeCase(field.Name)
		if field.Type.Implements(ctyInterface) {
			result[name] = fieldValue.Interface().(Cty).CTY()
			continue
		}

		item := fieldValue.Interface()
		impliedType, err := gocty.ImpliedType(item)
		if err != nil {
			panic(err) // should never be reached -> implies a 🐞 in the code
		}

		value, err := gocty.ToCtyValue(item, impliedType)
		if err != nil {
			panic(err)
		}

		result[name] = value
	}

	return result
}

// ToSnakeCase converts exported Go names like DependsOn into depends_on
func ToSnakeCase(name string) string {
	var builder strings.Builder
	runes := []rune(name)
	for index, r := range runes {
		if unicode.IsUpper(r) {
			// only split on a lower -> upper boundary so that acronyms stay together
			if index > 0 && !unicode.IsUpper(runes[index-1]) {
				builder.WriteRune('_')
			}
			r = unicode.ToLower(r)
		}

		builder.WriteRune(r)
	}

	return builder.String()
}
