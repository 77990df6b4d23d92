package memory_test

import (
	"context"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector/memory"
)

func testEntry(docID string, ordinal int, emb []float32) vector.Entry {
	return vector.Entry{
		ChunkID:   fmt.Sprintf("%s:%04d", docID, ordinal),
		DocID:     docID,
		DocName:   docID + ".txt",
		Ordinal:   ordinal,
		Text:      fmt.Sprintf("chunk %d of %s", ordinal, docID),
		Embedding: emb,
	}
}

var _ = Describe("Store", func() {
	var (
		store *memory.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		store, err = memory.New(3)
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires configured dimensions", func() {
		_, err := memory.New(0)
		Expect(err).To(HaveOccurred())
	})

	It("upserts idempotently and searches by similarity", func() {
		e := testEntry("a", 0, []float32{1, 0, 0})
		Expect(store.Upsert(ctx, []vector.Entry{e})).To(Succeed())
		Expect(store.Upsert(ctx, []vector.Entry{e})).To(Succeed())

		results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("rejects mismatched dimensions on write and query", func() {
		err := store.Upsert(ctx, []vector.Entry{testEntry("a", 0, []float32{1, 0})})
		Expect(err).To(MatchError(vector.ErrDimensionMismatch))

		_, err = store.Search(ctx, []float32{1}, 10, vector.Filter{})
		Expect(err).To(MatchError(vector.ErrDimensionMismatch))
	})

	It("applies the doc filter before scoring", func() {
		Expect(store.Upsert(ctx, []vector.Entry{
			testEntry("a", 0, []float32{0.6, 0.8, 0}),
			testEntry("b", 0, []float32{1, 0, 0}),
		})).To(Succeed())

		results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{DocID: "a"})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].DocID).To(Equal("a"))
	})

	It("ranks a scoped search exactly like an unscoped search filtered afterward", func() {
		Expect(store.Upsert(ctx, []vector.Entry{
			testEntry("a", 0, []float32{0.6, 0.8, 0}),
			testEntry("a", 1, []float32{0.8, 0.6, 0}),
			testEntry("a", 2, []float32{0, 1, 0}),
			testEntry("b", 0, []float32{1, 0, 0}),
			testEntry("b", 1, []float32{0.6, 0.8, 0}),
		})).To(Succeed())

		query := []float32{1, 0, 0}

		scoped, err := store.Search(ctx, query, 10, vector.Filter{DocID: "a"})
		Expect(err).NotTo(HaveOccurred())

		all, err := store.Search(ctx, query, 10, vector.Filter{})
		Expect(err).NotTo(HaveOccurred())

		var postHoc []vector.Result
		for _, r := range all {
			if r.DocID == "a" {
				postHoc = append(postHoc, r)
			}
		}

		Expect(scoped).To(HaveLen(len(postHoc)))
		for i := range scoped {
			Expect(scoped[i].ChunkID).To(Equal(postHoc[i].ChunkID))
			Expect(scoped[i].Score).To(Equal(postHoc[i].Score))
		}
	})

	It("breaks score ties by ascending ordinal", func() {
		emb := []float32{0, 1, 0}
		Expect(store.Upsert(ctx, []vector.Entry{
			testEntry("a", 2, emb),
			testEntry("a", 0, emb),
			testEntry("a", 1, emb),
		})).To(Succeed())

		results, err := store.Search(ctx, []float32{0, 1, 0}, 10, vector.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Ordinal).To(Equal(0))
		Expect(results[1].Ordinal).To(Equal(1))
		Expect(results[2].Ordinal).To(Equal(2))
	})

	It("replaces a document's chunk set as a unit", func() {
		doc := vector.DocRecord{DocID: "a", DocName: "a.txt", Version: 1}
		Expect(store.ReplaceDoc(ctx, doc, []vector.Entry{
			testEntry("a", 0, []float32{1, 0, 0}),
			testEntry("a", 1, []float32{0, 1, 0}),
		})).To(Succeed())

		doc.Version = 2
		Expect(store.ReplaceDoc(ctx, doc, []vector.Entry{
			testEntry("a", 0, []float32{0, 0, 1}),
		})).To(Succeed())

		results, err := store.Search(ctx, []float32{0, 0, 1}, 10, vector.Filter{DocID: "a"})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))

		rec, err := store.Doc(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Version).To(Equal(2))
		Expect(rec.Chunks).To(Equal(1))
	})

	It("deletes a document and its chunks", func() {
		doc := vector.DocRecord{DocID: "a", DocName: "a.txt", Version: 1}
		Expect(store.ReplaceDoc(ctx, doc, []vector.Entry{testEntry("a", 0, []float32{1, 0, 0})})).To(Succeed())

		Expect(store.DeleteDoc(ctx, "a")).To(Succeed())

		_, err := store.Doc(ctx, "a")
		Expect(err).To(MatchError(vector.ErrNotFound))

		results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})

	It("lists documents ordered by name", func() {
		for _, name := range []string{"zeta", "alpha", "mid"} {
			doc := vector.DocRecord{DocID: name, DocName: name + ".txt", Version: 1}
			Expect(store.ReplaceDoc(ctx, doc, nil)).To(Succeed())
		}

		docs, err := store.Docs(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(3))
		Expect(docs[0].DocName).To(Equal("alpha.txt"))
		Expect(docs[1].DocName).To(Equal("mid.txt"))
		Expect(docs[2].DocName).To(Equal("zeta.txt"))
	})

	It("serves concurrent readers during replacement", func() {
		doc := vector.DocRecord{DocID: "a", DocName: "a.txt", Version: 1}
		Expect(store.ReplaceDoc(ctx, doc, []vector.Entry{
			testEntry("a", 0, []float32{1, 0, 0}),
			testEntry("a", 1, []float32{1, 0, 0}),
		})).To(Succeed())

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{DocID: "a"})
					Expect(err).NotTo(HaveOccurred())
					// Readers see the old set or the new set, never a mix.
					Expect(len(results)).To(BeElementOf(1, 2))
				}
			}()
		}

		doc.Version = 2
		Expect(store.ReplaceDoc(ctx, doc, []vector.Entry{
			testEntry("a", 0, []float32{1, 0, 0}),
		})).To(Succeed())
		wg.Wait()
	})

	It("resets to empty", func() {
		Expect(store.Upsert(ctx, []vector.Entry{testEntry("a", 0, []float32{1, 0, 0})})).To(Succeed())
		Expect(store.Reset(ctx)).To(Succeed())

		results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})
})
