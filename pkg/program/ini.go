package program

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ProgramIni is the deliberately minimal set of fields this tool reads and
// writes from a slot's metadata file (base-spec Design Notes: "intentionally
// missing fields... keep it as simple and minimal as possible"), grounded on
// original_source/src/program/mod.rs's ProgramIni.
type ProgramIni struct {
	Version     string
	Name        string
	Slot        SlotNumber
	Icon        string
	Description string
	Date        string
}

// encodeIni renders p as the flat "[program]\nkey=value\n..." shape the
// device's slot_N.ini files use. Slot is stored 0-based on the wire,
// matching SlotNumber::serialize_as_index.
func encodeIni(p ProgramIni) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "[program]")
	fmt.Fprintf(&buf, "version=%s\n", p.Version)
	fmt.Fprintf(&buf, "name=%s\n", p.Name)
	fmt.Fprintf(&buf, "slot=%d\n", p.Slot.Index())
	fmt.Fprintf(&buf, "icon=%s\n", p.Icon)
	fmt.Fprintf(&buf, "description=%s\n", p.Description)
	fmt.Fprintf(&buf, "date=%s\n", p.Date)
	return buf.Bytes()
}

// decodeIni parses the flat key=value shape back into a ProgramIni. Unknown
// keys and a missing/absent [program] header are tolerated silently, since
// this codec only cares about the fields it knows about.
func decodeIni(data []byte) (ProgramIni, error) {
	fields := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "[") || strings.HasPrefix(line, ";") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return ProgramIni{}, fmt.Errorf("parsing program ini: %w", err)
	}

	rawSlot, ok := fields["slot"]
	if !ok {
		return ProgramIni{}, fmt.Errorf("parsing program ini: missing slot field")
	}
	index, err := strconv.Atoi(rawSlot)
	if err != nil {
		return ProgramIni{}, fmt.Errorf("parsing program ini: invalid slot field %q: %w", rawSlot, err)
	}
	slot, err := SlotNumberFromIndex(index)
	if err != nil {
		return ProgramIni{}, fmt.Errorf("parsing program ini: %w", err)
	}

	return ProgramIni{
		Version:     fields["version"],
		Name:        fields["name"],
		Slot:        slot,
		Icon:        fields["icon"],
		Description: fields["description"],
		Date:        fields["date"],
	}, nil
}
