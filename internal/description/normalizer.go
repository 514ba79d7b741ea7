// =============================================================================
// Product File Generator - Description Normalizer
// =============================================================================
//
// Vendor descriptions are long, padded with runs of spaces and packed with
// semicolon-separated phrases. The output template holds a short description,
// so each one is cut down to a maximum length:
//
//   PHRASE (default): keep the text before the first run of 5+ white space
//                     characters, then keep as many whole "; "-joined phrases
//                     as fit. Fall back to a hard cut when not even the first
//                     phrase fits.
//
//   LEGACY:           trim and hard-cut.
//
// Lengths are counted in characters (runes), not bytes.
//
// =============================================================================

package description

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
)

// DefaultMaxLength is the length of the description column in the template.
const DefaultMaxLength = 40

// paddingRun matches the column padding some vendors leave inside the
// description cell. \s alone is ASCII-only in RE2, so Unicode spaces are
// listed explicitly.
var paddingRun = regexp.MustCompile(`[\t\n\v\f\r \x{85}\p{Z}]{5,}`)

// Normalizer cleans one description.
type Normalizer func(raw string) string

// NewNormalizer returns the normalizer for a policy.
func NewNormalizer(policy string, maxLength int) (Normalizer, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	switch policy {
	case config.DescriptionPhrase, "":
		return func(raw string) string { return Normalize(raw, maxLength) }, nil
	case config.DescriptionLegacy:
		return func(raw string) string { return NormalizeLegacy(raw, maxLength) }, nil
	default:
		return nil, fmt.Errorf("unknown description policy %q", policy)
	}
}

// Normalize shortens a description to at most maxLength characters, keeping
// whole semicolon-separated phrases where possible.
func Normalize(raw string, maxLength int) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSpace(paddingRun.Split(cleaned, 2)[0])

	result := ""
	for _, part := range strings.Split(cleaned, ";") {
		phrase := strings.TrimSpace(part)
		if phrase == "" {
			continue
		}

		candidate := phrase
		if result != "" {
			candidate = result + "; " + phrase
		}
		if runeLen(candidate) > maxLength {
			break
		}
		result = candidate
	}

	if result == "" && cleaned != "" {
		result = truncate(cleaned, maxLength)
	}

	return result
}

// NormalizeLegacy trims a description and cuts it to maxLength characters.
func NormalizeLegacy(raw string, maxLength int) string {
	return truncate(strings.TrimSpace(raw), maxLength)
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncate(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	return string(r[:maxLength])
}
