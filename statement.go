package ygggo_jdbd

// PreparedStatement is SQL text with positional '?' placeholders and one
// parameter slot per placeholder.
//
// The text is never rewritten: binding only fills the out-of-band slot
// array that a backend consumes alongside the unmodified text.
//
// The placeholder scan is deliberately naive. Every '?' counts, including
// one inside a quoted literal such as 'why?'; callers that need a literal
// question mark must bind it as a parameter.
//
// A PreparedStatement is not safe for concurrent mutation. Drivers only
// read it.
type PreparedStatement struct {
	text    string
	offsets []int
	slots   []*Parameter
}

// NewPreparedStatement scans text once and allocates an empty slot per
// placeholder, in order of appearance.
func NewPreparedStatement(text string) *PreparedStatement {
	var offsets []int
	for i := 0; i < len(text); i++ {
		if text[i] == '?' {
			offsets = append(offsets, i)
		}
	}
	return &PreparedStatement{
		text:    text,
		offsets: offsets,
		slots:   make([]*Parameter, len(offsets)),
	}
}

// Text returns the original SQL text.
func (s *PreparedStatement) Text() string { return s.text }

// Placeholders returns the slot count, fixed at construction.
func (s *PreparedStatement) Placeholders() int { return len(s.slots) }

// Offsets returns the byte offset of every placeholder in Text().
func (s *PreparedStatement) Offsets() []int {
	out := make([]int, len(s.offsets))
	copy(out, s.offsets)
	return out
}

// Parameters returns the slots in placeholder order. A nil entry is an
// unbound slot.
func (s *PreparedStatement) Parameters() []*Parameter {
	out := make([]*Parameter, len(s.slots))
	for i, p := range s.slots {
		if p != nil {
			cp := *p
			out[i] = &cp
		}
	}
	return out
}

// AllBound reports whether every slot holds a parameter.
func (s *PreparedStatement) AllBound() bool {
	for _, p := range s.slots {
		if p == nil {
			return false
		}
	}
	return true
}

// Unbound returns the positions that are still empty.
func (s *PreparedStatement) Unbound() []int {
	var out []int
	for i, p := range s.slots {
		if p == nil {
			out = append(out, i)
		}
	}
	return out
}

// Bind stores v, canonicalized by ParamOf, at position pos.
// On error the statement is left untouched.
func (s *PreparedStatement) Bind(pos int, v any) error {
	if err := s.checkPos(pos); err != nil {
		return err
	}
	p, err := ParamOf(v)
	if err != nil {
		return &BindError{Pos: pos, Err: err}
	}
	s.slots[pos] = &p
	return nil
}

func (s *PreparedStatement) BindNull(pos int) error { return s.set(pos, NullParam()) }

func (s *PreparedStatement) BindBytes(pos int, v []byte) error { return s.set(pos, BytesParam(v)) }

func (s *PreparedStatement) BindString(pos int, v string) error {
	return s.set(pos, Parameter{kind: ParamBytes, b: []byte(v)})
}

func (s *PreparedStatement) BindInt(pos int, v int64) error { return s.set(pos, IntParam(v)) }

func (s *PreparedStatement) BindFloat(pos int, v float32) error { return s.set(pos, FloatParam(v)) }

func (s *PreparedStatement) BindDouble(pos int, v float64) error { return s.set(pos, DoubleParam(v)) }

// BindBool stores Integer(1) for true and Integer(0) for false.
func (s *PreparedStatement) BindBool(pos int, v bool) error {
	if v {
		return s.set(pos, IntParam(1))
	}
	return s.set(pos, IntParam(0))
}

func (s *PreparedStatement) set(pos int, p Parameter) error {
	if err := s.checkPos(pos); err != nil {
		return err
	}
	s.slots[pos] = &p
	return nil
}

func (s *PreparedStatement) checkPos(pos int) error {
	if pos < 0 || pos >= len(s.slots) {
		return &IndexError{Pos: pos, Count: len(s.slots)}
	}
	return nil
}

// values returns the bound parameters by value. Callers must check
// AllBound first.
func (s *PreparedStatement) values() []Parameter {
	out := make([]Parameter, len(s.slots))
	for i, p := range s.slots {
		out[i] = *p
	}
	return out
}
