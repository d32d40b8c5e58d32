package vals

// Str is a mutable string of codepoints. It is a reference value: copies of
// a *Str share the same contents.
type Str struct {
	runes []rune
}

// NewStr returns a new *Str with the given contents.
func NewStr(s string) *Str {
	return &Str{[]rune(s)}
}

// NewStrFromRunes returns a new *Str that takes ownership of runes.
func NewStrFromRunes(runes []rune) *Str {
	return &Str{runes}
}

func (*Str) Kind() Kind { return StringKind }

// String returns the contents.
func (s *Str) String() string { return string(s.runes) }

// Len returns the number of codepoints.
func (s *Str) Len() int { return len(s.runes) }

// At returns the codepoint at index i, which must be in range.
func (s *Str) At(i int) rune { return s.runes[i] }

// SetAt replaces the codepoint at index i, which must be in range.
func (s *Str) SetAt(i int, r rune) { s.runes[i] = r }

// Runes returns a copy of the codepoints.
func (s *Str) Runes() []rune { return append([]rune(nil), s.runes...) }

// Repeat returns a new *Str containing n copies of s. n must not be negative.
func (s *Str) Repeat(n int) *Str {
	runes := make([]rune, 0, len(s.runes)*n)
	for i := 0; i < n; i++ {
		runes = append(runes, s.runes...)
	}
	return &Str{runes}
}

// Concat returns a new *Str containing s followed by t.
func (s *Str) Concat(t *Str) *Str {
	runes := make([]rune, 0, len(s.runes)+len(t.runes))
	return &Str{append(append(runes, s.runes...), t.runes...)}
}
