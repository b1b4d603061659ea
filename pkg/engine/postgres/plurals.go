package postgres

import "strings"

// Irregular plurals
var irregularPlurals = map[string]string{
	"person":     "people",
	"child":      "children",
	"mouse":      "mice",
	"man":        "men",
	"woman":      "women",
	"datum":      "data",
	"medium":     "media",
	"index":      "indices",
	"matrix":     "matrices",
	"vertex":     "vertices",
	"axis":       "axes",
	"analysis":   "analyses",
	"basis":      "bases",
	"criterion":  "criteria",
	"leaf":       "leaves",
	"life":       "lives",
	"hero":       "heroes",
	"echo":       "echoes",
	"sheep":      "sheep",
	"fish":       "fish",
	"series":     "series",
	"species":    "species",
	"status":     "statuses",
	"alias":      "aliases",
	"bus":        "buses",
}

// modelTable converts a model name to its table name.
// Handles PascalCase → snake_case and pluralization.
//
// Examples:
//
//	User → users
//	OrderItem → order_items
func modelTable(model string) string {
	var result []rune
	for i, r := range model {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result = append(result, '_')
		}
		result = append(result, r)
	}

	name := strings.ToLower(string(result))

	if plural, ok := irregularPlurals[name]; ok {
		return plural
	}

	if !strings.HasSuffix(name, "s") {
		name += "s"
	}

	return name
}
