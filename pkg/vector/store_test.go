package vector_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
)

var _ = Describe("Score", func() {
	It("computes the dot product of unit vectors", func() {
		a := []float32{0.6, 0.8, 0}
		b := []float32{1, 0, 0}
		Expect(vector.Score(a, b)).To(BeNumerically("~", 0.6, 1e-6))
	})

	It("scores identical unit vectors at 1", func() {
		a := []float32{0, 1, 0}
		Expect(vector.Score(a, a)).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("scores the zero vector at 0", func() {
		Expect(vector.Score([]float32{0, 0, 0}, []float32{1, 0, 0})).To(BeZero())
	})

	It("clamps negative dot products to 0", func() {
		a := []float32{1, 0, 0}
		b := []float32{-1, 0, 0}
		Expect(vector.Score(a, b)).To(BeZero())
	})

	It("clamps accumulated rounding above 1", func() {
		a := []float32{1.0000001, 0, 0}
		Expect(vector.Score(a, a)).To(Equal(float32(1)))
	})

	It("scores only the shared prefix on length mismatch", func() {
		a := []float32{1, 0}
		b := []float32{1, 0, 0, 0}
		Expect(vector.Score(a, b)).To(BeNumerically("~", 1.0, 1e-6))
	})
})

var _ = Describe("Filter", func() {
	It("matches everything when zero", func() {
		f := vector.Filter{}
		Expect(f.Matches(&vector.Entry{DocID: "a"})).To(BeTrue())
		Expect(f.Matches(&vector.Entry{DocID: "b"})).To(BeTrue())
	})

	It("matches only the named document", func() {
		f := vector.Filter{DocID: "a"}
		Expect(f.Matches(&vector.Entry{DocID: "a"})).To(BeTrue())
		Expect(f.Matches(&vector.Entry{DocID: "b"})).To(BeFalse())
	})
})
