package prog

import "flag"

// FlagSet wraps a [flag.FlagSet]. It provides accessors for flags that are
// shared by several subprograms, registering them on first use.
type FlagSet struct {
	*flag.FlagSet
	json *bool
}

// JSON returns a pointer to the value of the -json flag, registering it if
// needed.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo or -compileonly in JSON")
		fs.json = &json
	}
	return fs.json
}
