// Package filesystem holds the boundary types the device façade exchanges
// with callers: the file namespace (Category, QualFileName, QualFile), the
// transfer-session vocabulary (Channel, Target, Function,
// TransferCompleteAction), and the read/write/delete option structs.
package filesystem

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the single-byte namespace a file lives in (base-spec §3).
type Category uint8

const (
	CategoryNone   Category = 0
	CategoryUser   Category = 1
	CategorySystem Category = 15
	CategoryRMS    Category = 16
	CategoryPROS   Category = 24
	CategoryMW     Category = 32
	// CategoryReveng is a supplemented named category (SPEC_FULL.md §3):
	// present in the original implementation's full table but absent from
	// the distilled spec; reserved for host-tool-private files.
	CategoryReveng Category = 48

	// DefaultCategory is what a qualified-name parse falls back to when no
	// category prefix is given.
	DefaultCategory = CategoryUser
)

var categoryNames = map[Category]string{
	CategoryNone:   "none",
	CategoryUser:   "user",
	CategorySystem: "system",
	CategoryRMS:    "rms",
	CategoryPROS:   "pros",
	CategoryMW:     "mw",
	CategoryReveng: "reveng",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", uint8(c))
}

// namedCategoryOrder lists every named (non-None) category in a fixed,
// deterministic order, matching original_source's Category::named().
var namedCategoryOrder = []Category{CategoryUser, CategorySystem, CategoryRMS, CategoryPROS, CategoryMW, CategoryReveng}

// NamedCategories returns every category with a name, excluding CategoryNone
// (base-spec §3, original_source/lib/src/device/filesystem/category/mod.rs's
// named()).
func NamedCategories() []Category {
	return namedCategoryOrder
}

// IsNone reports whether c is the sentinel "no category" value, used to
// mean "this file has no linked file" in metadata responses.
func (c Category) IsNone() bool { return c == CategoryNone }

// ParseCategory accepts a named category ("user", "system", ...) or a
// numeric literal (decimal, or 0x/0o/0b prefixed), matching
// original_source/src/device/filesystem/category/impl_from_str.rs.
func ParseCategory(s string) (Category, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "default" {
		return DefaultCategory, nil
	}
	for cat, name := range categoryNames {
		if name == lower {
			return cat, nil
		}
	}
	value, err := lenientParseUint(lower)
	if err != nil {
		return 0, fmt.Errorf("unknown category %q: not a recognized name and not a valid number", s)
	}
	if value > 0xFF {
		return 0, fmt.Errorf("category %q is too large to fit in one byte", s)
	}
	return Category(value), nil
}

// lenientParseUint accepts 0x/0o/0b-prefixed or bare decimal integers,
// matching original_source/src/util/num.rs's lenient_u64_from_str.
func lenientParseUint(s string) (uint64, error) {
	switch {
	case strings.HasPrefix(s, "0x"):
		return strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "0o"):
		return strconv.ParseUint(s[2:], 8, 64)
	case strings.HasPrefix(s, "0b"):
		return strconv.ParseUint(s[2:], 2, 64)
	default:
		return strconv.ParseUint(s, 10, 64)
	}
}
