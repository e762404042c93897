package entity

import "fmt"

// ObjectRef identifies a static map object without owning it. The index
// addresses the owner's arena slot and the generation guards against the slot
// having been reused since the snapshot was taken. The zero value is "no
// object".
type ObjectRef struct {
	Index      uint32
	Generation uint32
}

func (r ObjectRef) Valid() bool { return r.Generation != 0 }

func (r ObjectRef) String() string {
	if !r.Valid() {
		return "object(none)"
	}
	return fmt.Sprintf("object(%d#%d)", r.Index, r.Generation)
}

// UnitRef is the unit counterpart of ObjectRef.
type UnitRef struct {
	Index      uint32
	Generation uint32
}

func (r UnitRef) Valid() bool { return r.Generation != 0 }

func (r UnitRef) String() string {
	if !r.Valid() {
		return "unit(none)"
	}
	return fmt.Sprintf("unit(%d#%d)", r.Index, r.Generation)
}
