// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool

// destructor is one registered (fn, data) pair. It fires at most once; data
// is tracked separately so ReplaceDestructor can find and retarget it
// without firing it early.
type destructor struct {
	fn   func(any)
	data any
	site string
	done bool
}

// AddDestructor registers fn to run against data when the pool is deleted,
// or earlier via EnforceDestructors. Destructors run in registration order.
// A nil data is accepted and simply never fires, matching pools that
// register a destructor before they have anything to attach it to.
func (p *Pool) AddDestructor(fn func(any), data any, site string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destructors = append(p.destructors, &destructor{fn: fn, data: data, site: site})
}

// ReplaceDestructor finds the most recently registered, not-yet-fired
// destructor whose data equals oldData and retargets it to newData,
// returning true if one was found. This mirrors pools that allocate a
// buffer, register its destructor speculatively, and only later learn the
// buffer's final address.
func (p *Pool) ReplaceDestructor(oldData, newData any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.destructors) - 1; i >= 0; i-- {
		d := p.destructors[i]
		if d.done || d.data != oldData {
			continue
		}
		d.data = newData
		return true
	}
	return false
}

// EnforceDestructors runs every not-yet-fired destructor with non-nil data,
// in registration order, without deleting the pool itself. Safe to call
// more than once; already-fired destructors are skipped.
func (p *Pool) EnforceDestructors() {
	p.mu.Lock()
	pending := make([]*destructor, 0, len(p.destructors))
	for _, d := range p.destructors {
		if !d.done && d.data != nil {
			pending = append(pending, d)
		}
	}
	p.mu.Unlock()

	for _, d := range pending {
		d.fn(d.data)
		d.done = true
	}
}
