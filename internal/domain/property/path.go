package property

import (
	"strconv"
	"strings"
)

// SlotRoot is the reserved leading segment that redirects resolution into a
// component's attached slot.
const SlotRoot = "Slot"

// Segment is one step of a parsed path: a name plus at most one of an array
// index or a map key.
type Segment struct {
	Name     string
	Index    int
	HasIndex bool
	Key      string
	HasKey   bool
}

// String renders the segment in path grammar
func (s Segment) String() string {
	switch {
	case s.HasIndex:
		return s.Name + "[" + strconv.Itoa(s.Index) + "]"
	case s.HasKey:
		return s.Name + "[" + s.Key + "]"
	default:
		return s.Name
	}
}

// ParsePath turns a textual path into ordered segments. Segments are
// separated by '.'; a segment is "name" or "name[token]" where an unsigned
// integer token is an index and anything else is a key. A leading "Slot"
// segment (case-insensitive) is consumed and reported via slotRooted rather
// than stored.
func ParsePath(text string) (slotRooted bool, segs []Segment, err *Error) {
	raw, splitErr := splitSegments(text)
	if splitErr != nil {
		return false, nil, splitErr
	}
	if len(raw) == 0 {
		return false, nil, Errorf(ErrInvalidPath, "property path is empty")
	}

	segs = make([]Segment, 0, len(raw))
	for i, part := range raw {
		seg, segErr := parseSegment(part)
		if segErr != nil {
			return false, nil, segErr
		}
		if i == 0 && strings.EqualFold(seg.Name, SlotRoot) && !seg.HasIndex && !seg.HasKey {
			slotRooted = true
			continue
		}
		segs = append(segs, seg)
	}

	if len(segs) == 0 {
		if slotRooted {
			// Callers frequently try to read "Slot" as a whole; point them at
			// the working syntax instead of a generic parse failure.
			return false, nil, Errorf(ErrInvalidPath,
				"%q addresses the slot itself; use Slot.PropertyName to access a slot property (e.g. Slot.Position)", text)
		}
		return false, nil, Errorf(ErrInvalidPath, "property path is empty")
	}
	return slotRooted, segs, nil
}

// splitSegments splits on '.' outside brackets, so map keys may contain dots
func splitSegments(text string) ([]string, *Error) {
	if strings.TrimSpace(text) == "" {
		return nil, Errorf(ErrInvalidPath, "property path is empty")
	}
	var parts []string
	depth := 0
	start := 0
	for i, r := range text {
		switch r {
		case '[':
			if depth > 0 {
				return nil, Errorf(ErrInvalidPath, "nested '[' at position %d in %q", i, text)
			}
			depth++
		case ']':
			if depth == 0 {
				return nil, Errorf(ErrInvalidPath, "unbalanced ']' at position %d in %q", i, text)
			}
			depth--
		case '.':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, Errorf(ErrInvalidPath, "unbalanced '[' in %q", text)
	}
	parts = append(parts, text[start:])
	return parts, nil
}

func parseSegment(part string) (Segment, *Error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return Segment{}, Errorf(ErrInvalidPath, "empty path segment")
	}

	open := strings.IndexByte(part, '[')
	if open < 0 {
		return Segment{Name: part}, nil
	}
	if !strings.HasSuffix(part, "]") {
		return Segment{}, Errorf(ErrInvalidPath, "malformed segment %q: text after ']'", part)
	}
	name := part[:open]
	token := part[open+1 : len(part)-1]
	if name == "" {
		return Segment{}, Errorf(ErrInvalidPath, "malformed segment %q: missing name before '['", part)
	}
	if token == "" {
		return Segment{}, Errorf(ErrInvalidPath, "malformed segment %q: empty index or key", part)
	}

	if idx, err := strconv.ParseUint(token, 10, 31); err == nil {
		return Segment{Name: name, Index: int(idx), HasIndex: true}, nil
	}
	return Segment{Name: name, Key: token, HasKey: true}, nil
}
