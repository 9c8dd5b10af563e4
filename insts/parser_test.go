package insts_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomsim/insts"
)

var _ = Describe("Parser", func() {
	var parser *insts.Parser

	BeforeEach(func() {
		parser = insts.NewParser()
	})

	Describe("ParseLine", func() {
		It("should parse a load", func() {
			inst, err := parser.ParseLine("lw f2, 0(r2):100")
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Kind).To(Equal(insts.KindLoad))
			Expect(inst.Opcode).To(Equal("lw"))
			Expect(inst.Dest).To(Equal("f2"))
			Expect(inst.Src1).To(Equal("r2"))
			Expect(inst.Src2).To(BeEmpty())
			Expect(inst.MemAddr).To(Equal(100))
			Expect(inst.Raw).To(Equal("lw f2, 0(r2):100"))
		})

		It("should parse a store with data and base sources", func() {
			inst, err := parser.ParseLine("sw f1, 8(r1):200")
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Kind).To(Equal(insts.KindStore))
			Expect(inst.Dest).To(BeEmpty())
			Expect(inst.Src1).To(Equal("f1"), "the value to store")
			Expect(inst.Src2).To(Equal("r1"), "the address base")
			Expect(inst.MemAddr).To(Equal(200))
		})

		It("should parse three-register arithmetic", func() {
			inst, err := parser.ParseLine("fadd.s f1, f2, f3:0")
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Kind).To(Equal(insts.KindFPAdd))
			Expect(inst.Dest).To(Equal("f1"))
			Expect(inst.Src1).To(Equal("f2"))
			Expect(inst.Src2).To(Equal("f3"))
		})

		It("should parse a branch with two sources and no destination", func() {
			inst, err := parser.ParseLine("beq r1, r2, loop:0")
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Kind).To(Equal(insts.KindBranch))
			Expect(inst.Dest).To(BeEmpty())
			Expect(inst.Src1).To(Equal("r1"))
			Expect(inst.Src2).To(Equal("r2"))
		})

		It("should trim whitespace around registers", func() {
			inst, err := parser.ParseLine("add  r1 ,  r2 ,  r3 :4")
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Dest).To(Equal("r1"))
			Expect(inst.Src1).To(Equal("r2"))
			Expect(inst.Src2).To(Equal("r3"))
			Expect(inst.MemAddr).To(Equal(4))
		})

		It("should keep unknown opcodes as parseable lines", func() {
			inst, err := parser.ParseLine("mystery r1, r2, r3:0")
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Kind).To(Equal(insts.KindUnknown))
			Expect(inst.Opcode).To(Equal("mystery"))
		})

		It("should reject a line without operands", func() {
			_, err := parser.ParseLine("add")
			Expect(err).To(HaveOccurred())
		})

		It("should reject a line without a memory address", func() {
			_, err := parser.ParseLine("add r1, r2, r3")
			Expect(err).To(HaveOccurred())
		})

		It("should reject a non-numeric memory address", func() {
			_, err := parser.ParseLine("lw f2, 0(r2):abc")
			Expect(err).To(MatchError(ContainSubstring("memory address")))
		})

		It("should reject arithmetic with missing operands", func() {
			_, err := parser.ParseLine("add r1, r2:0")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Parse", func() {
		It("should parse one instruction per line", func() {
			trace, err := parser.Parse(strings.NewReader(
				"lw f1, 0(r1):100\nfadd.s f2, f1, f3:0\nsw f2, 0(r1):100\n"))
			Expect(err).ToNot(HaveOccurred())
			Expect(trace).To(HaveLen(3))
			Expect(trace[0].Kind).To(Equal(insts.KindLoad))
			Expect(trace[1].Kind).To(Equal(insts.KindFPAdd))
			Expect(trace[2].Kind).To(Equal(insts.KindStore))
		})

		It("should skip blank lines", func() {
			trace, err := parser.Parse(strings.NewReader(
				"add r1, r2, r3:0\n\n   \nsub r4, r5, r6:0\n"))
			Expect(err).ToNot(HaveOccurred())
			Expect(trace).To(HaveLen(2))
		})

		It("should report the failing line number", func() {
			_, err := parser.Parse(strings.NewReader(
				"add r1, r2, r3:0\nbogus\n"))
			Expect(err).To(MatchError(ContainSubstring("line 2")))
		})

		It("should handle an empty trace", func() {
			trace, err := parser.Parse(strings.NewReader(""))
			Expect(err).ToNot(HaveOccurred())
			Expect(trace).To(BeEmpty())
		})
	})
})
