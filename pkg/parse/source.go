package parse

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
	// Whether the source is a file on disk. Module resolution uses the
	// directory of a file source as the first search path.
	IsFile bool
}

// SourceForTest returns a Source used for testing.
func SourceForTest(code string) Source {
	return Source{Name: "[test]", Code: code}
}
