package engine

import "sort"

// Context is the persistent evaluation namespace for one kernel process.
// It is created empty at startup, passed by reference into every execution,
// and lives until the process exits. It imposes no schema on what engines
// store in it. A failed execution keeps whatever definitions it made before
// the failure point; the Context is never reset or rolled back.
type Context struct {
	vars map[string]any
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{vars: make(map[string]any)}
}

// Get returns the value bound to name.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Set binds name to value, overwriting any existing binding.
func (c *Context) Set(name string, value any) {
	c.vars[name] = value
}

// Names returns all bound names in sorted order.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound names.
func (c *Context) Len() int {
	return len(c.vars)
}
