package kernel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Layout is the matrix storage order, using the CBLAS numeric constants so
// values cross the ABI boundary unchanged.
type Layout int32

const (
	RowMajor Layout = 101
	ColMajor Layout = 102
)

// ParseLayout accepts the wire spellings "ROW" and "COL" (case-insensitive).
func ParseLayout(s string) (Layout, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ROW":
		return RowMajor, nil
	case "COL":
		return ColMajor, nil
	}
	return 0, fmt.Errorf("unexpected value for layout: %q", s)
}

func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "Row-major"
	case ColMajor:
		return "Column-major"
	}
	return fmt.Sprintf("Layout(%d)", int32(l))
}

// MarshalJSON writes the short wire form used in report files.
func (l Layout) MarshalJSON() ([]byte, error) {
	switch l {
	case RowMajor:
		return []byte(`"ROW"`), nil
	case ColMajor:
		return []byte(`"COL"`), nil
	}
	return nil, fmt.Errorf("cannot encode layout %d", int32(l))
}

func (l *Layout) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLayout(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Transpose is a per-operand transposition flag, again using the CBLAS
// constants.
type Transpose int32

const (
	NoTrans   Transpose = 111
	Trans     Transpose = 112
	ConjTrans Transpose = 113
)

// ParseTranspose accepts none/false/n, trans/true/t and conj/c.
func ParseTranspose(s string) (Transpose, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "false", "n", "":
		return NoTrans, nil
	case "trans", "true", "t":
		return Trans, nil
	case "conj", "c":
		return ConjTrans, nil
	}
	return 0, fmt.Errorf("unexpected value for transpose: %q", s)
}

func (t Transpose) String() string {
	switch t {
	case NoTrans:
		return "none"
	case Trans:
		return "trans"
	case ConjTrans:
		return "conj"
	}
	return fmt.Sprintf("Transpose(%d)", int32(t))
}

// MarshalJSON encodes NoTrans as false, Trans as true and ConjTrans as the
// string "CONJ", matching the persisted report format.
func (t Transpose) MarshalJSON() ([]byte, error) {
	switch t {
	case NoTrans:
		return []byte("false"), nil
	case Trans:
		return []byte("true"), nil
	case ConjTrans:
		return []byte(`"CONJ"`), nil
	}
	return nil, fmt.Errorf("cannot encode transpose %d", int32(t))
}

func (t *Transpose) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*t = Trans
		} else {
			*t = NoTrans
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unexpected transpose value %s", string(data))
	}
	if !strings.EqualFold(s, "CONJ") {
		return fmt.Errorf("unexpected transpose value %q", s)
	}
	*t = ConjTrans
	return nil
}
