package data

// Formula describes a stack-scaled magnitude. The value is a pure function
// of the stack count: base + perStack×(count−1), unless Script names a Lua
// function, in which case the scripting engine evaluates fn(count).
type Formula struct {
	Base     float64 `yaml:"base"`
	PerStack float64 `yaml:"per_stack"`
	Script   string  `yaml:"script"`
}

// Linear evaluates the non-scripted form. Counts below 1 are treated as 1.
func (f Formula) Linear(count int) float64 {
	if count < 1 {
		count = 1
	}
	return f.Base + f.PerStack*float64(count-1)
}
