package pipeline

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("reorderBuffer", func() {
	var rob *reorderBuffer

	BeforeEach(func() {
		rob = newReorderBuffer(4)
	})

	It("should start empty", func() {
		Expect(rob.Empty()).To(BeTrue())
		Expect(rob.Full()).To(BeFalse())
	})

	It("should fill after allocating every entry", func() {
		for i := 0; i < 4; i++ {
			Expect(rob.Alloc()).To(Equal(i))
		}
		Expect(rob.Full()).To(BeTrue())
		Expect(rob.Empty()).To(BeFalse())
	})

	It("should panic on overflow", func() {
		for i := 0; i < 4; i++ {
			rob.Alloc()
		}
		Expect(func() { rob.Alloc() }).To(Panic())
	})

	It("should panic on releasing an empty buffer", func() {
		Expect(func() { rob.Release() }).To(Panic())
	})

	It("should reuse released entries circularly", func() {
		for i := 0; i < 4; i++ {
			rob.Alloc()
		}
		rob.Release()
		rob.Release()
		Expect(rob.Full()).To(BeFalse())
		Expect(rob.Alloc()).To(Equal(0))
		Expect(rob.Alloc()).To(Equal(1))
		Expect(rob.Full()).To(BeTrue())
	})

	It("should initialize allocated entries", func() {
		idx := rob.Alloc()
		entry := rob.At(idx)
		Expect(entry.Busy).To(BeTrue())
		Expect(entry.Ready).To(BeFalse())
		Expect(entry.StoreDataDep).To(Equal(TagReady))
	})

	It("should scan busy entries in program order across wraparound", func() {
		for i := 0; i < 4; i++ {
			rob.Alloc()
			rob.At(i).InstrID = i
		}
		rob.Release()
		rob.Release()
		rob.Alloc()
		rob.At(0).InstrID = 4

		var order []int
		rob.scanInOrder(func(idx int, e *ROBEntry) bool {
			order = append(order, e.InstrID)
			return true
		})
		Expect(order).To(Equal([]int{2, 3, 4}))
	})

	It("should stop a scan when the visitor returns false", func() {
		rob.Alloc()
		rob.Alloc()
		count := 0
		rob.scanInOrder(func(idx int, e *ROBEntry) bool {
			count++
			return false
		})
		Expect(count).To(Equal(1))
	})

	It("should clear matching store data dependencies", func() {
		a := rob.Alloc()
		b := rob.Alloc()
		rob.At(b).StoreDataDep = Tag(a)
		rob.clearStoreDeps(Tag(a))
		Expect(rob.At(b).StoreDataDep).To(Equal(TagReady))
	})
})

var _ = Describe("regStatus", func() {
	It("should track and conditionally clear producers", func() {
		rs := make(regStatus)
		rs.setProducer("f1", 3)

		t, ok := rs.producer("f1")
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(Tag(3)))

		// A later producer takes over; the old tag no longer clears it.
		rs.setProducer("f1", 5)
		rs.clearIf("f1", 3)
		t, ok = rs.producer("f1")
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(Tag(5)))

		rs.clearIf("f1", 5)
		_, ok = rs.producer("f1")
		Expect(ok).To(BeFalse())
	})

	It("should report unknown registers as ready", func() {
		rs := make(regStatus)
		_, ok := rs.producer("r9")
		Expect(ok).To(BeFalse())
	})
})
