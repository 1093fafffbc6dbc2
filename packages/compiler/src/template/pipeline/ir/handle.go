package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// XrefId links IR entities across operation lists
type XrefId int

// ConstIndex is a position in the component's `consts` array
type ConstIndex int

// SlotHandle names a data slot. Its index is only known once slots are
// allocated; every op referring to the same slot carries the same handle.
type SlotHandle int32

const unassignedSlot = -1

// NoSlot is the target slot of host listeners, which have no element
const NoSlot SlotHandle = -1

// SlotArena owns the slot cells of one compilation job.
type SlotArena struct {
	slots []int
}

// NewSlotArena creates an empty arena
func NewSlotArena() *SlotArena {
	return &SlotArena{}
}

// New mints an unassigned handle
func (a *SlotArena) New() SlotHandle {
	index, err := safecast.Conv[int32](len(a.slots))
	if err != nil {
		panic(NewInternalError("slot arena overflow: %v", err))
	}
	a.slots = append(a.slots, unassignedSlot)
	return SlotHandle(index)
}

// Assign fixes the slot index of h. A handle is assigned exactly once.
func (a *SlotArena) Assign(h SlotHandle, slot int) {
	a.check(h)
	if slot < 0 {
		panic(NewInternalError("negative slot %d for handle %d", slot, h))
	}
	if a.slots[h] != unassignedSlot {
		panic(NewInternalError("slot handle %d already assigned to %d", h, a.slots[h]))
	}
	a.slots[h] = slot
}

// Lookup returns the slot index of h and whether it is assigned yet
func (a *SlotArena) Lookup(h SlotHandle) (int, bool) {
	a.check(h)
	slot := a.slots[h]
	return slot, slot != unassignedSlot
}

// Slot returns the slot index of h and panics if it is unassigned.
func (a *SlotArena) Slot(h SlotHandle) int {
	slot, ok := a.Lookup(h)
	if !ok {
		panic(NewInternalError("slot handle %d read before assignment", h))
	}
	return slot
}

// Len returns the number of handles minted
func (a *SlotArena) Len() int {
	return len(a.slots)
}

func (a *SlotArena) check(h SlotHandle) {
	if h < 0 || int(h) >= len(a.slots) {
		panic(NewInternalError("unknown slot handle %d", h))
	}
}

// InternalError reports a broken pipeline invariant. It is raised with panic
// and recovered at the job boundary.
type InternalError struct {
	Msg string
}

// NewInternalError formats an InternalError
func NewInternalError(format string, args ...interface{}) InternalError {
	return InternalError{Msg: fmt.Sprintf(format, args...)}
}

func (e InternalError) Error() string {
	return "AssertionError: " + e.Msg
}
