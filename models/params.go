package models

// Param is a single named argument of a remote procedure call. Names ending
// in "[]" denote array elements and may repeat.
type Param struct {
	Name  string
	Value any
}

// Params is an ordered remote procedure argument list.
type Params []Param

// Add appends name=value and returns the extended list.
func (p Params) Add(name string, value any) Params {
	return append(p, Param{Name: name, Value: value})
}

// Has reports whether at least one argument is called name.
func (p Params) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Get returns the first argument called name.
func (p Params) Get(name string) (any, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return nil, false
}

// Names returns argument names in order, repeats included.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for _, param := range p {
		names = append(names, param.Name)
	}
	return names
}
