package filesystem

import (
	"fmt"
	"strings"

	"github.com/V5Reveng/cli/pkg/wire"
)

// FileName is a 24-byte fixed-width name; FileType is a 4-byte fixed-width
// extension tag (base-spec §3).
type FileName = wire.FixedString
type FileType = wire.FixedString

// QualFileName identifies a file by category and name.
type QualFileName struct {
	Category Category
	Name     FileName
}

// QualFile additionally carries the file's type tag.
type QualFile struct {
	QualFileName
	Type FileType
}

func (q QualFileName) String() string {
	return fmt.Sprintf("%s:%s", q.Category, q.Name.String())
}

func (q QualFile) String() string {
	return fmt.Sprintf("%s:%s", q.Category, q.Name.String())
}

// ParseQualFileName parses "category:name", where the category prefix is
// optional and defaults to DefaultCategory (base-spec §3; grounded on
// original_source/lib/src/device/filesystem/qual/impl_from_str.rs, which
// splits on the first colon to avoid round-tripping through FileName until
// the final construction).
func ParseQualFileName(s string) (QualFileName, error) {
	category := DefaultCategory
	name := s
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		parsed, err := ParseCategory(s[:idx])
		if err != nil {
			return QualFileName{}, err
		}
		category = parsed
		name = s[idx+1:]
	}
	fn, err := wire.NewFixedString(wire.FileNameWidth, name)
	if err != nil {
		return QualFileName{}, err
	}
	return QualFileName{Category: category, Name: fn}, nil
}

// ParseQualFile parses "category:name.ext", where the category prefix and
// the extension are each optional (category defaults to DefaultCategory,
// extension defaults to "bin"); the extension is the substring after the
// *last* dot, matching the original's qual/impl_from_str.rs. The name field
// keeps the extension (the dot and all): on-device identity is (category,
// 24-byte name), with the type tag carried alongside rather than stripped
// from it, so "slot_1.ini" becomes name "slot_1.ini", type "ini".
func ParseQualFile(s string) (QualFile, error) {
	category := DefaultCategory
	rest := s
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		parsed, err := ParseCategory(s[:idx])
		if err != nil {
			return QualFile{}, err
		}
		category = parsed
		rest = s[idx+1:]
	}
	ext := "bin"
	if idx := strings.LastIndexByte(rest, '.'); idx >= 0 {
		ext = rest[idx+1:]
	}
	fn, err := wire.NewFixedString(wire.FileNameWidth, rest)
	if err != nil {
		return QualFile{}, err
	}
	ft, err := wire.NewFixedString(wire.FileTypeWidth, ext)
	if err != nil {
		return QualFile{}, err
	}
	return QualFile{QualFileName: QualFileName{Category: category, Name: fn}, Type: ft}, nil
}
