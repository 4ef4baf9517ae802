// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool

// variable is a pool-scoped named slot. The name is interned via StrDup so
// callers may pass a transient string; the value is stored as-is since Go,
// unlike the pool's C ancestor, does not need a second copy just to keep a
// value alive.
type variable struct {
	value any
	dtor  func(any)
}

// SetVariable attaches value to name, replacing any previous binding. If
// dtor is non-nil it runs when the pool is deleted or the variable is
// overwritten or removed, whichever happens first.
func (p *Pool) SetVariable(name string, value any, dtor func(any)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.variables == nil {
		p.variables = make(map[string]*variable)
	}
	if old, ok := p.variables[name]; ok && old.dtor != nil {
		old.dtor(old.value)
	}
	key := p.strdupLocked(name)
	p.variables[key] = &variable{value: value, dtor: dtor}
}

// GetVariable returns the value bound to name, if any.
func (p *Pool) GetVariable(name string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.variables[name]
	if !ok {
		return nil, false
	}
	return v.value, true
}

// RemoveVariable removes the binding for name, running its destructor if it
// has one. Reports whether a binding existed.
func (p *Pool) RemoveVariable(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.variables[name]
	if !ok {
		return false
	}
	delete(p.variables, name)
	if v.dtor != nil {
		v.dtor(v.value)
	}
	return true
}
