package sim

import (
	"bytes"
	"fmt"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type namedItem struct {
	name string
}

func (i namedItem) String() string {
	return fmt.Sprintf("item %s", i.name)
}

var _ = Describe("EventLogger", func() {
	var (
		out    *bytes.Buffer
		logger *EventLogger
		buf    *RingBuffer[namedItem]
	)

	BeforeEach(func() {
		out = new(bytes.Buffer)
		logger = NewEventLogger(log.New(out, "", 0))
		buf = NewRingBuffer[namedItem]("Events", 1)
		buf.AcceptHook(logger)
	})

	It("should print pushed items", func() {
		buf.Push(namedItem{name: "a"})
		buf.Push(namedItem{name: "b"})

		Expect(out.String()).To(Equal("item a\nitem b\n"))
	})

	It("should ignore other hook positions", func() {
		logger.Func(HookCtx{Pos: HookPosAfterTick, Item: namedItem{"x"}})

		Expect(out.String()).To(BeEmpty())
	})
})
