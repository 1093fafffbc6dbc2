package ir

// Op is one operation of a view's create or update list. The set of ops is
// closed: only types in this package implement it.
type Op interface {
	GetKind() OpKind
	GetPrev() Op
	GetNext() Op
	base() *OpBase
}

// CreateOp is an operation of a create list
type CreateOp interface {
	Op
	isCreateOp()
}

// UpdateOp is an operation of an update list
type UpdateOp interface {
	Op
	isUpdateOp()
}

// OpBase carries the list links every op shares
type OpBase struct {
	prev  Op
	next  Op
	owner *OpList
}

func (o *OpBase) base() *OpBase { return o }

// GetPrev returns the previous operation, or the head sentinel
func (o *OpBase) GetPrev() Op { return o.prev }

// GetNext returns the next operation, or the tail sentinel
func (o *OpBase) GetNext() Op { return o.next }

// ListEndOp is the head or tail sentinel of an OpList
type ListEndOp struct {
	OpBase
}

// GetKind returns the operation kind
func (*ListEndOp) GetKind() OpKind { return OpKindListEnd }
func (*ListEndOp) isCreateOp()     {}
func (*ListEndOp) isUpdateOp()     {}

// OpList is a doubly-linked list of ops bounded by ListEndOp sentinels.
// An op belongs to at most one list at a time.
type OpList struct {
	head   *ListEndOp
	tail   *ListEndOp
	length int
}

// NewOpList creates an empty list
func NewOpList() *OpList {
	l := &OpList{head: &ListEndOp{}, tail: &ListEndOp{}}
	l.head.owner = l
	l.tail.owner = l
	l.head.next = l.tail
	l.tail.prev = l.head
	return l
}

// Head returns the head sentinel
func (l *OpList) Head() Op { return l.head }

// Tail returns the tail sentinel
func (l *OpList) Tail() Op { return l.tail }

// Len returns the number of ops in the list
func (l *OpList) Len() int { return l.length }

// Ops returns a snapshot of the ops in order. Mutating the list while
// ranging over the snapshot is allowed.
func (l *OpList) Ops() []Op {
	result := make([]Op, 0, l.length)
	for op := l.head.next; op != Op(l.tail); op = op.GetNext() {
		result = append(result, op)
	}
	return result
}

// Push appends op to the list
func (l *OpList) Push(op Op) {
	l.adopt(op)
	l.link(l.tail.prev, op, l.tail)
}

// PushAll appends ops in order
func (l *OpList) PushAll(ops []Op) {
	for _, op := range ops {
		l.Push(op)
	}
}

// Prepend inserts ops in order at the head of the list
func (l *OpList) Prepend(ops []Op) {
	if len(ops) == 0 {
		return
	}
	first := l.head.next
	for _, op := range ops {
		l.adopt(op)
		l.link(first.GetPrev(), op, first)
	}
}

// InsertBefore inserts newOp before op
func (l *OpList) InsertBefore(op, newOp Op) {
	l.owned(op)
	if op == Op(l.head) {
		panic(NewInternalError("cannot insert before the head of a list"))
	}
	l.adopt(newOp)
	l.link(op.GetPrev(), newOp, op)
}

// InsertAfter inserts newOp after op
func (l *OpList) InsertAfter(op, newOp Op) {
	l.owned(op)
	if op == Op(l.tail) {
		panic(NewInternalError("cannot insert after the tail of a list"))
	}
	l.adopt(newOp)
	l.link(op, newOp, op.GetNext())
}

// Remove unlinks op from the list
func (l *OpList) Remove(op Op) {
	l.owned(op)
	if op.GetKind() == OpKindListEnd {
		panic(NewInternalError("cannot remove a list end sentinel"))
	}
	b := op.base()
	b.prev.base().next = b.next
	b.next.base().prev = b.prev
	b.prev, b.next, b.owner = nil, nil, nil
	l.length--
}

// Replace puts newOp in the place of oldOp
func (l *OpList) Replace(oldOp, newOp Op) {
	l.ReplaceWithMany(oldOp, []Op{newOp})
}

// ReplaceWithMany puts newOps in the place of oldOp. An empty newOps
// removes oldOp.
func (l *OpList) ReplaceWithMany(oldOp Op, newOps []Op) {
	l.owned(oldOp)
	if oldOp.GetKind() == OpKindListEnd {
		panic(NewInternalError("cannot replace a list end sentinel"))
	}
	next := oldOp.GetNext()
	l.Remove(oldOp)
	for _, op := range newOps {
		l.adopt(op)
		l.link(next.GetPrev(), op, next)
	}
}

func (l *OpList) adopt(op Op) {
	if op.GetKind() == OpKindListEnd {
		panic(NewInternalError("cannot insert a list end sentinel"))
	}
	if op.base().owner != nil {
		panic(NewInternalError("operation %s is already owned by a list", op.GetKind()))
	}
	op.base().owner = l
	l.length++
}

func (l *OpList) owned(op Op) {
	if op.base().owner != l {
		panic(NewInternalError("operation %s is not owned by this list", op.GetKind()))
	}
}

func (l *OpList) link(prev, op, next Op) {
	prev.base().next = op
	op.base().prev = prev
	op.base().next = next
	next.base().prev = op
}
