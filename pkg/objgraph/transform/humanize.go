package transform

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/objectgraph/pkg/objgraph"
)

// Humanize returns a modifier that turns type names into title-cased
// phrases, e.g. "CustomerOrder" and "customer_order" both become
// "Customer Order". Objects without a name are named after the last segment
// of their ID. IDs are left alone.
func Humanize() *ObjectModifier {
	return Modify(func(o objgraph.Object) *objgraph.Object {
		renamed := o.WithName(HumanizeName(o.DisplayName()))
		return &renamed
	})
}

// HumanizeName converts one identifier into a title-cased phrase. Qualified
// identifiers keep only the segment after the last "." or "/", and acronym
// runs stay together: "com.acme.HTTPServer" becomes "HTTP Server".
func HumanizeName(name string) string {
	if i := strings.LastIndexAny(name, "./"); i >= 0 && i < len(name)-1 {
		name = name[i+1:]
	}
	words := splitWords(name)
	if len(words) == 0 {
		return name
	}
	// Casers keep state between calls and must not be shared.
	title := cases.Title(language.English)
	for i, w := range words {
		if !isAcronym(w) {
			words[i] = title.String(w)
		}
	}
	return strings.Join(words, " ")
}

// splitWords breaks an identifier at separators and case transitions. An
// upper-case run ends before its last letter when a lower-case letter
// follows, so "HTTPServer" splits into "HTTP" and "Server".
func splitWords(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1
	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, string(runes[start:i]))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		lowerToUpper := unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev))
		acronymEnd := unicode.IsUpper(r) && unicode.IsUpper(prev) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if lowerToUpper || acronymEnd {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start >= 0 {
		words = append(words, string(runes[start:]))
	}
	return words
}

func isAcronym(w string) bool {
	n := 0
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n > 1
}
