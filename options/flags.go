package options

// flagSpec binds one letter of the grammar to the option it controls.
type flagSpec struct {
	letter byte
	set    func(o *Options, on bool)
	get    func(o Options) bool
}

// flagTable is the whole grammar. Adding a flag is adding a row.
var flagTable = [...]flagSpec{
	{'u', func(o *Options, on bool) { o.UTF8 = on }, func(o Options) bool { return o.UTF8 }},
	{'p', func(o *Options, on bool) { o.PosixSyntax = on }, func(o Options) bool { return o.PosixSyntax }},
	{'a', func(o *Options, on bool) { o.LongestMatch = on }, func(o Options) bool { return o.LongestMatch }},
	{'e', func(o *Options, on bool) { o.LogErrors = on }, func(o Options) bool { return o.LogErrors }},
	{'l', func(o *Options, on bool) { o.Literal = on }, func(o Options) bool { return o.Literal }},
	{'n', func(o *Options, on bool) { o.NeverNL = on }, func(o Options) bool { return o.NeverNL }},
	{'s', func(o *Options, on bool) { o.DotNL = on }, func(o Options) bool { return o.DotNL }},
	{'c', func(o *Options, on bool) { o.NeverCapture = on }, func(o Options) bool { return o.NeverCapture }},
	// 'i' names case-insensitivity, so it drives the negation of CaseSensitive.
	{'i', func(o *Options, on bool) { o.CaseSensitive = !on }, func(o Options) bool { return !o.CaseSensitive }},
	{'m', func(o *Options, on bool) { o.Multiline = on }, func(o Options) bool { return o.Multiline }},
}

// flagIndex maps a lowercase ASCII letter to its row in flagTable.
var flagIndex [128]*flagSpec

func init() {
	for i := range flagTable {
		flagIndex[flagTable[i].letter] = &flagTable[i]
	}
}

// Parse applies flags to Default() and returns the result.
//
// Letters are applied left to right, so the last occurrence of a letter
// wins. Any byte outside the grammar fails the whole parse with a
// *FlagError and a zero Options.
//
// Example:
//
//	opts, err := options.Parse("ia")
//	// opts.CaseSensitive == false, opts.LongestMatch == true
func Parse(flags string) (Options, error) {
	o := Default()
	for i := 0; i < len(flags); i++ {
		c := flags[i]
		on := true
		if c >= 'A' && c <= 'Z' {
			on = false
			c += 'a' - 'A'
		}

		var f *flagSpec
		if c < byte(len(flagIndex)) {
			f = flagIndex[c]
		}
		if f == nil {
			return Options{}, &FlagError{Flag: flags[i], Offset: i}
		}
		f.set(&o, on)
	}
	return o, nil
}

// Letters returns the lowercase letters understood by Parse, in table order.
func Letters() string {
	b := make([]byte, len(flagTable))
	for i := range flagTable {
		b[i] = flagTable[i].letter
	}
	return string(b)
}
