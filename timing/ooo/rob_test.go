package ooo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomsim/timing/ooo"
)

var _ = Describe("ReorderBuffer", func() {
	var rob *ooo.ReorderBuffer

	BeforeEach(func() {
		rob = ooo.NewReorderBuffer(4)
	})

	Describe("Allocate", func() {
		It("should hand out the pre-advance tail as the tag", func() {
			Expect(rob.Allocate(1, true)).To(Equal(ooo.Tag(0)))
			Expect(rob.Allocate(2, true)).To(Equal(ooo.Tag(1)))
			Expect(rob.Tail()).To(Equal(ooo.Tag(2)))
			Expect(rob.Count()).To(Equal(2))
		})

		It("should report full after size allocations", func() {
			for i := 0; i < 4; i++ {
				rob.Allocate(uint8(i), true)
			}
			Expect(rob.Full()).To(BeTrue())
		})

		It("should panic when allocating into a full buffer", func() {
			for i := 0; i < 4; i++ {
				rob.Allocate(uint8(i), true)
			}
			Expect(func() { rob.Allocate(9, true) }).To(Panic())
		})

		It("should wrap the tail around the buffer", func() {
			for i := 0; i < 4; i++ {
				rob.Allocate(uint8(i), true)
			}
			rob.Writeback(0, 11)
			rob.Commit()

			Expect(rob.Allocate(5, true)).To(Equal(ooo.Tag(0)))
			Expect(rob.Head()).To(Equal(ooo.Tag(1)))
		})
	})

	Describe("Writeback", func() {
		It("should mark the tagged entry done with its value", func() {
			tag := rob.Allocate(3, true)
			rob.Writeback(tag, 42)

			entry := rob.EntryAt(tag)
			Expect(entry.Done).To(BeTrue())
			Expect(entry.Value).To(Equal(uint32(42)))
		})

		It("should not depend on head or tail position", func() {
			rob.Allocate(1, true)
			young := rob.Allocate(2, true)

			// The younger instruction finishes first.
			rob.Writeback(young, 7)

			Expect(rob.EntryAt(young).Done).To(BeTrue())
			Expect(rob.CommitReady()).To(BeFalse())
		})

		It("should panic on an unoccupied entry", func() {
			Expect(func() { rob.Writeback(2, 1) }).To(Panic())
		})
	})

	Describe("Commit", func() {
		It("should retire only the done head, in order", func() {
			t0 := rob.Allocate(1, true)
			t1 := rob.Allocate(2, true)
			rob.Writeback(t1, 20)
			Expect(rob.CommitReady()).To(BeFalse())

			rob.Writeback(t0, 10)
			Expect(rob.CommitReady()).To(BeTrue())

			event := rob.Commit()
			Expect(event.Tag).To(Equal(t0))
			Expect(event.Dest).To(Equal(uint8(1)))
			Expect(event.Value).To(Equal(uint32(10)))
			Expect(event.WritesReg).To(BeTrue())

			Expect(rob.Commit().Tag).To(Equal(t1))
			Expect(rob.Empty()).To(BeTrue())
		})

		It("should clear the retired slot", func() {
			tag := rob.Allocate(1, true)
			rob.Writeback(tag, 10)
			rob.Commit()

			Expect(rob.EntryAt(tag).Occupied).To(BeFalse())
		})

		It("should panic on an empty buffer", func() {
			Expect(func() { rob.Commit() }).To(Panic())
		})

		It("should panic on a not-done head", func() {
			rob.Allocate(1, true)
			Expect(func() { rob.Commit() }).To(Panic())
		})
	})

	Describe("occupancy", func() {
		It("should keep the counter consistent with the entries", func() {
			for i := 0; i < 3; i++ {
				rob.Allocate(uint8(i), true)
			}
			rob.Writeback(0, 1)
			rob.Commit()

			Expect(rob.Count()).To(Equal(rob.OccupiedCount()))
			Expect(rob.Count()).To(Equal(2))
		})
	})

	Describe("Reset", func() {
		It("should return to head=tail=0 and empty", func() {
			rob.Allocate(1, true)
			rob.Allocate(2, true)
			rob.Reset()

			Expect(rob.Empty()).To(BeTrue())
			Expect(rob.Head()).To(Equal(ooo.Tag(0)))
			Expect(rob.Tail()).To(Equal(ooo.Tag(0)))
		})
	})
})

var _ = Describe("Tag", func() {
	It("should accept in-range values", func() {
		tag, err := ooo.NewTag(15, 16)
		Expect(err).NotTo(HaveOccurred())
		Expect(tag).To(Equal(ooo.Tag(15)))
	})

	It("should reject out-of-range values", func() {
		_, err := ooo.NewTag(16, 16)
		Expect(err).To(HaveOccurred())
	})
})
