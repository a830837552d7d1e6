// SPDX-License-Identifier: MIT

package translator

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// normalizeLanguageCodes builds display options from bare language codes.
// Codes that parse as BCP 47 tags get an English display name; anything else
// keeps the code as its label. Output is sorted by label for dropdown order.
func normalizeLanguageCodes(codes []string) []LanguageOption {
	namer := display.English.Tags()
	out := make([]LanguageOption, 0, len(codes))
	for _, code := range codes {
		if code == "" {
			continue
		}
		label := code
		if tag, err := language.Parse(code); err == nil {
			if name := namer.Name(tag); name != "" && !strings.EqualFold(name, "unknown language") {
				label = name
			}
		}
		out = append(out, LanguageOption{Code: code, Label: label})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out
}
