package pipeline

// ROBEntry tracks one in-flight instruction in program order.
type ROBEntry struct {
	Busy    bool
	InstrID int

	// DestReg is the architectural register this entry will write;
	// empty for stores and branches.
	DestReg string

	// Ready marks the result or effect as produced: the entry is
	// eligible for commit once it reaches the head.
	Ready bool

	// StoreDataDep names the entry producing the value a store writes
	// to memory, or TagReady. It gates the store at commit, not at
	// execute.
	StoreDataDep Tag
}

// reorderBuffer is a circular queue of in-flight instructions. Entries
// are allocated at the tail on issue and released at the head on
// commit. Full is head == tail with the head slot busy; empty is
// head == tail with the head slot free.
type reorderBuffer struct {
	entries []ROBEntry
	head    int
	tail    int
}

func newReorderBuffer(size int) *reorderBuffer {
	return &reorderBuffer{
		entries: make([]ROBEntry, size),
	}
}

func (b *reorderBuffer) Full() bool {
	return b.head == b.tail && b.entries[b.tail].Busy
}

func (b *reorderBuffer) Empty() bool {
	return b.head == b.tail && !b.entries[b.head].Busy
}

func (b *reorderBuffer) Len() int {
	return len(b.entries)
}

func (b *reorderBuffer) At(i int) *ROBEntry {
	return &b.entries[i]
}

func (b *reorderBuffer) Head() *ROBEntry {
	return &b.entries[b.head]
}

func (b *reorderBuffer) HeadIndex() int {
	return b.head
}

// Alloc claims the tail entry and returns its index.
func (b *reorderBuffer) Alloc() int {
	if b.Full() {
		panic("pipeline: reorder buffer overflow")
	}
	idx := b.tail
	b.entries[idx] = ROBEntry{Busy: true, StoreDataDep: TagReady}
	b.tail = (b.tail + 1) % len(b.entries)
	return idx
}

// Release frees the head entry and advances the head.
func (b *reorderBuffer) Release() {
	if b.Empty() {
		panic("pipeline: release on empty reorder buffer")
	}
	b.entries[b.head] = ROBEntry{}
	b.head = (b.head + 1) % len(b.entries)
}

// scanInOrder visits busy entries from head to tail in program order.
// The visit function returns false to stop the scan.
func (b *reorderBuffer) scanInOrder(visit func(idx int, e *ROBEntry) bool) {
	for i := 0; i < len(b.entries); i++ {
		idx := (b.head + i) % len(b.entries)
		entry := &b.entries[idx]
		if idx == b.tail && !entry.Busy {
			return
		}
		if !entry.Busy {
			continue
		}
		if !visit(idx, entry) {
			return
		}
	}
}

// clearStoreDeps resolves every store data dependency waiting on the
// given entry.
func (b *reorderBuffer) clearStoreDeps(t Tag) {
	for i := range b.entries {
		if b.entries[i].Busy && b.entries[i].StoreDataDep == t {
			b.entries[i].StoreDataDep = TagReady
		}
	}
}

// regStatus maps an architectural register to the reorder buffer entry
// that will produce its next value. An absent or TagReady mapping
// means the architectural value is current.
type regStatus map[string]Tag

func (r regStatus) producer(reg string) (Tag, bool) {
	t, ok := r[reg]
	if !ok || t == TagReady {
		return TagReady, false
	}
	return t, true
}

func (r regStatus) setProducer(reg string, t Tag) {
	r[reg] = t
}

// clearIf resets the mapping for reg only when it still names t: a
// later issue may have overwritten the producer.
func (r regStatus) clearIf(reg string, t Tag) {
	if reg == "" {
		return
	}
	if cur, ok := r[reg]; ok && cur == t {
		r[reg] = TagReady
	}
}
