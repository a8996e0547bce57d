package engine_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/typewave/internal/engine"
)

var _ = Describe("Tokenize", func() {
	DescribeTable("splits on word boundaries, keeping trailing whitespace",
		func(text string, want []string) {
			Expect(engine.Tokenize(text)).To(Equal(want))
		},
		Entry("simple words", "a b c", []string{"a ", "b ", "c"}),
		Entry("trailing space", "hi there ", []string{"hi ", "there "}),
		Entry("multiple spaces", "a  b", []string{"a  ", "b"}),
		Entry("newlines and tabs", "a\n\tb", []string{"a\n\t", "b"}),
		Entry("single word", "word", []string{"word"}),
		Entry("leading whitespace", "  x", []string{"  ", "x"}),
		Entry("empty", "", nil),
	)

	It("rejoins to the original text byte for byte", func() {
		texts := []string{
			"The quick brown fox jumps over the lazy dog.",
			"  leading and trailing  ",
			"unicode: héllo wörld — ok",
			"line\nbreaks\twith\ttabs",
		}
		for _, text := range texts {
			Expect(strings.Join(engine.Tokenize(text), "")).To(Equal(text))
		}
	})
})

var _ = Describe("EffectiveRate", func() {
	It("speeds up long blocks and slows down short ones", func() {
		Expect(engine.EffectiveRate(80, 20)).To(Equal(30.0))
		Expect(engine.EffectiveRate(30, 20)).To(Equal(20.0))
		Expect(engine.EffectiveRate(5, 20)).To(Equal(16.0))
	})

	It("treats the thresholds as exclusive", func() {
		Expect(engine.EffectiveRate(50, 20)).To(Equal(20.0))
		Expect(engine.EffectiveRate(10, 20)).To(Equal(20.0))
	})

	It("falls back to the default base rate", func() {
		Expect(engine.EffectiveRate(30, 0)).To(Equal(engine.DefaultTokensPerSecond))
	})
})

var _ = Describe("PlanTimeline", func() {
	It("plans 'a b c' at 20 tokens/sec", func() {
		tl := engine.PlanTimeline("a b c", 20)

		texts := make([]string, len(tl.Tokens))
		for i, tok := range tl.Tokens {
			texts[i] = tok.Text
		}
		Expect(texts).To(Equal([]string{"a ", "b ", "c"}))

		// 3 tokens is below the 10-token threshold: effective rate
		// 20×0.8 = 16, so the stagger interval is 1/16s = 62.5ms.
		Expect(tl.Stagger).To(Equal(62500 * time.Microsecond))
		Expect(tl.Tokens[0].Start).To(Equal(time.Duration(0)))
		Expect(tl.Tokens[2].Start).To(Equal(125 * time.Millisecond))
		Expect(tl.Total).To(Equal(125*time.Millisecond + engine.RevealTransition))
	})

	It("gives every token the fixed transition duration", func() {
		tl := engine.PlanTimeline("one two three four", 20)
		for _, tok := range tl.Tokens {
			Expect(tok.Duration).To(Equal(engine.RevealTransition))
		}
	})

	It("staggers large blocks tighter than small ones", func() {
		block := func(n int) string {
			return strings.TrimSpace(strings.Repeat("w ", n))
		}
		tl5 := engine.PlanTimeline(block(5), 20)
		tl30 := engine.PlanTimeline(block(30), 20)
		tl80 := engine.PlanTimeline(block(80), 20)

		Expect(len(tl5.Tokens)).To(Equal(5))
		Expect(len(tl30.Tokens)).To(Equal(30))
		Expect(len(tl80.Tokens)).To(Equal(80))

		Expect(tl80.Stagger).To(BeNumerically("<", tl30.Stagger))
		Expect(tl30.Stagger).To(BeNumerically("<", tl5.Stagger))
	})

	It("plans an empty text as an empty timeline", func() {
		tl := engine.PlanTimeline("", 20)
		Expect(tl.Tokens).To(BeEmpty())
		Expect(tl.Total).To(Equal(time.Duration(0)))
	})

	It("reports reveal progress at a given elapsed time", func() {
		tl := engine.PlanTimeline("a b c", 20)
		Expect(tl.RevealedAt(0)).To(Equal(1))
		Expect(tl.RevealedAt(62500 * time.Microsecond)).To(Equal(2))
		Expect(tl.RevealedAt(time.Hour)).To(Equal(3))
		Expect(tl.RevealedAt(-time.Second)).To(Equal(0))
	})
})

var _ = Describe("Reveal", func() {
	var sched *engine.ManualScheduler

	BeforeEach(func() {
		sched = engine.NewManualScheduler()
	})

	It("reveals tokens in order and completes after the last transition", func() {
		completions := 0
		r := engine.NewReveal("a b c", engine.RevealConfig{
			TokensPerSecond: 20,
			OnComplete:      func() { completions++ },
		}, sched)

		var progress []int
		r.Subscribe(func(s engine.RevealSnapshot) {
			progress = append(progress, s.Revealed)
		})

		r.Start()
		for sched.RunNext() {
		}

		Expect(progress).To(Equal([]int{1, 2, 3, 3}))
		Expect(completions).To(Equal(1))
		Expect(r.Snapshot().Done).To(BeTrue())
		Expect(sched.Now()).To(Equal(125*time.Millisecond + engine.RevealTransition))
		Expect(sched.Pending()).To(BeZero())
	})

	It("treats empty text as immediately complete", func() {
		completions := 0
		r := engine.NewReveal("", engine.RevealConfig{
			OnComplete: func() { completions++ },
		}, sched)

		r.Start()

		Expect(completions).To(Equal(1))
		Expect(r.Snapshot().Done).To(BeTrue())
		Expect(sched.Pending()).To(BeZero())
	})

	It("discards the prior timeline when text is replaced mid-flight", func() {
		completions := 0
		r := engine.NewReveal("one two three four five", engine.RevealConfig{
			TokensPerSecond: 20,
			OnComplete:      func() { completions++ },
		}, sched)

		r.Start()
		sched.RunNext()
		Expect(r.Snapshot().Revealed).To(Equal(2))

		before := sched.Cancelled()
		r.SetText("x y")
		Expect(sched.Cancelled() - before).To(Equal(1))
		Expect(r.Snapshot().Revealed).To(Equal(1))
		Expect(r.Snapshot().Total).To(Equal(2))

		for sched.RunNext() {
		}
		Expect(completions).To(Equal(1))
		Expect(r.Snapshot().Done).To(BeTrue())
	})

	It("releases its timer on Stop", func() {
		r := engine.NewReveal("a b c d e", engine.RevealConfig{TokensPerSecond: 20}, sched)
		r.Start()
		Expect(sched.Pending()).To(Equal(1))

		r.Stop()
		Expect(sched.Pending()).To(BeZero())
		Expect(r.Snapshot().Done).To(BeFalse())
	})
})
