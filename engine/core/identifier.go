package core

import "fmt"

// IdentifierPool hands out small integer ids and reuses released slots.
type IdentifierPool struct {
	owners []interface{}
}

func NewIdentifierPool(capacity int) *IdentifierPool {
	return &IdentifierPool{
		owners: make([]interface{}, 0, capacity),
	}
}

// Acquire reserves an id for the owner.
func (p *IdentifierPool) Acquire(owner interface{}) uint32 {
	length := uint32(len(p.owners))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			return i
		}
	}

	// No free slots, push a new one.
	p.owners = append(p.owners, owner)
	return uint32(len(p.owners)) - 1
}

// Release frees the slot so the id can be handed out again.
func (p *IdentifierPool) Release(id uint32) error {
	if int(id) >= len(p.owners) {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d)", id, len(p.owners))
	}
	p.owners[id] = nil
	return nil
}

// Owner returns the owner registered under id, if any.
func (p *IdentifierPool) Owner(id uint32) (interface{}, bool) {
	if int(id) >= len(p.owners) || p.owners[id] == nil {
		return nil, false
	}
	return p.owners[id], true
}
