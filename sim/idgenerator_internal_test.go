package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IDGenerator", func() {
	It("should generate sequential IDs", func() {
		g := &sequentialIDGenerator{}

		Expect(g.Generate()).To(Equal("1"))
		Expect(g.Generate()).To(Equal("2"))
		Expect(g.Generate()).To(Equal("3"))
	})

	It("should generate unique xids", func() {
		g := xidGenerator{}

		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := g.Generate()
			Expect(seen).NotTo(HaveKey(id))
			seen[id] = true
		}
	})

	It("should not allow switching after an ID is generated", func() {
		Expect(GetIDGenerator()).NotTo(BeNil())
		Expect(func() { UseSequentialIDGenerator() }).To(Panic())
	})
})
