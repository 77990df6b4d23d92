package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector/sqlite"
)

const testDims = 3

// testEntry builds an entry with a hand-crafted unit embedding.
func testEntry(docID string, ordinal int, emb []float32) vector.Entry {
	return vector.Entry{
		ChunkID:    fmt.Sprintf("%s:%04d", docID, ordinal),
		DocID:      docID,
		DocName:    docID + ".txt",
		Section:    "BODY",
		Ordinal:    ordinal,
		Text:       fmt.Sprintf("chunk %d of %s", ordinal, docID),
		DocVersion: 1,
		Embedding:  emb,
	}
}

var _ = Describe("Store", func() {
	var (
		store *sqlite.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		store, err = sqlite.New(sqlite.Config{DBPath: ":memory:", Dimensions: testDims}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("New", func() {
		It("requires a database path", func() {
			_, err := sqlite.New(sqlite.Config{Dimensions: testDims}, zap.NewNop())
			Expect(err).To(HaveOccurred())
		})

		It("requires configured dimensions", func() {
			_, err := sqlite.New(sqlite.Config{DBPath: ":memory:"}, zap.NewNop())
			Expect(err).To(HaveOccurred())
		})

		It("creates the database file", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")

			s, err := sqlite.New(sqlite.Config{DBPath: dbPath, Dimensions: testDims}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Upsert and Search", func() {
		It("stores and retrieves entries with scores", func() {
			err := store.Upsert(ctx, []vector.Entry{
				testEntry("a", 0, []float32{1, 0, 0}),
				testEntry("a", 1, []float32{0, 1, 0}),
			})
			Expect(err).NotTo(HaveOccurred())

			results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].ChunkID).To(Equal("a:0000"))
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
			Expect(results[0].Text).To(Equal("chunk 0 of a"))
			Expect(results[1].Score).To(BeZero())
		})

		It("is idempotent on repeated chunk IDs", func() {
			e := testEntry("a", 0, []float32{1, 0, 0})
			Expect(store.Upsert(ctx, []vector.Entry{e})).To(Succeed())
			Expect(store.Upsert(ctx, []vector.Entry{e})).To(Succeed())

			results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})

		It("rejects entries with the wrong dimension", func() {
			err := store.Upsert(ctx, []vector.Entry{testEntry("a", 0, []float32{1, 0})})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("rejects queries with the wrong dimension", func() {
			_, err := store.Search(ctx, []float32{1, 0}, 10, vector.Filter{})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})
	})

	Describe("Search ordering", func() {
		It("orders by descending score", func() {
			err := store.Upsert(ctx, []vector.Entry{
				testEntry("a", 0, []float32{0, 1, 0}),
				testEntry("a", 1, []float32{0.6, 0.8, 0}),
				testEntry("a", 2, []float32{1, 0, 0}),
			})
			Expect(err).NotTo(HaveOccurred())

			results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Ordinal).To(Equal(2))
			Expect(results[1].Ordinal).To(Equal(1))
			Expect(results[2].Ordinal).To(Equal(0))
		})

		It("breaks score ties by ascending ordinal", func() {
			emb := []float32{1, 0, 0}
			err := store.Upsert(ctx, []vector.Entry{
				testEntry("a", 3, emb),
				testEntry("a", 1, emb),
				testEntry("a", 2, emb),
			})
			Expect(err).NotTo(HaveOccurred())

			results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Ordinal).To(Equal(1))
			Expect(results[1].Ordinal).To(Equal(2))
			Expect(results[2].Ordinal).To(Equal(3))
		})

		It("truncates to topK", func() {
			err := store.Upsert(ctx, []vector.Entry{
				testEntry("a", 0, []float32{1, 0, 0}),
				testEntry("a", 1, []float32{0.6, 0.8, 0}),
				testEntry("a", 2, []float32{0, 1, 0}),
			})
			Expect(err).NotTo(HaveOccurred())

			results, err := store.Search(ctx, []float32{1, 0, 0}, 2, vector.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})
	})

	Describe("Search filtering", func() {
		BeforeEach(func() {
			// Doc b scores higher, but a scoped search must never see it.
			err := store.Upsert(ctx, []vector.Entry{
				testEntry("a", 0, []float32{0.6, 0.8, 0}),
				testEntry("b", 0, []float32{1, 0, 0}),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("restricts candidates before scoring", func() {
			results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{DocID: "a"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].DocID).To(Equal("a"))
			Expect(results[0].Score).To(BeNumerically("~", 0.6, 1e-6))
		})

		It("returns all documents without a filter", func() {
			results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].DocID).To(Equal("b"))
		})

		It("ranks a scoped search exactly like an unscoped search filtered afterward", func() {
			err := store.Upsert(ctx, []vector.Entry{
				testEntry("a", 1, []float32{0.8, 0.6, 0}),
				testEntry("a", 2, []float32{0, 1, 0}),
				testEntry("b", 1, []float32{0.6, 0.8, 0}),
			})
			Expect(err).NotTo(HaveOccurred())

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
	})

	Describe("ReplaceDoc", func() {
		It("swaps a document's chunk set atomically", func() {
			doc := vector.DocRecord{DocID: "a", DocName: "a.txt", SourceType: "txt", Version: 1}
			err := store.ReplaceDoc(ctx, doc, []vector.Entry{
				testEntry("a", 0, []float32{1, 0, 0}),
				testEntry("a", 1, []float32{0, 1, 0}),
			})
			Expect(err).NotTo(HaveOccurred())

			doc.Version = 2
			err = store.ReplaceDoc(ctx, doc, []vector.Entry{
				testEntry("a", 0, []float32{0, 0, 1}),
			})
			Expect(err).NotTo(HaveOccurred())

			results, err := store.Search(ctx, []float32{0, 1, 0}, 10, vector.Filter{DocID: "a"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Score).To(BeZero())

			rec, err := store.Doc(ctx, "a")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Version).To(Equal(2))
			Expect(rec.Chunks).To(Equal(1))
		})

		It("leaves other documents untouched", func() {
			Expect(store.Upsert(ctx, []vector.Entry{testEntry("b", 0, []float32{1, 0, 0})})).To(Succeed())

			doc := vector.DocRecord{DocID: "a", DocName: "a.txt", Version: 1}
			err := store.ReplaceDoc(ctx, doc, []vector.Entry{testEntry("a", 0, []float32{0, 1, 0})})
			Expect(err).NotTo(HaveOccurred())

			results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{DocID: "b"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})
	})

	Describe("DeleteDoc", func() {
		It("removes the record and every chunk", func() {
			doc := vector.DocRecord{DocID: "a", DocName: "a.txt", Version: 1}
			err := store.ReplaceDoc(ctx, doc, []vector.Entry{testEntry("a", 0, []float32{1, 0, 0})})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.DeleteDoc(ctx, "a")).To(Succeed())

			results, err := store.Search(ctx, []float32{1, 0, 0}, 10, vector.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())

			_, err = store.Doc(ctx, "a")
			Expect(err).To(MatchError(vector.ErrNotFound))
		})
	})

	Describe("Docs", func() {
		It("lists documents ordered by name", func() {
			for _, name := range []string{"zeta", "alpha"} {
				doc := vector.DocRecord{DocID: name, DocName: name + ".txt", Version: 1}
				err := store.ReplaceDoc(ctx, doc, []vector.Entry{testEntry(name, 0, []float32{1, 0, 0})})
				Expect(err).NotTo(HaveOccurred())
			}

			docs, err := store.Docs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].DocName).To(Equal("alpha.txt"))
			Expect(docs[1].DocName).To(Equal("zeta.txt"))
		})
	})

	Describe("Reset", func() {
		It("drops every document and chunk", func() {
			doc := vector.DocRecord{DocID: "a", DocName: "a.txt", Version: 1}
			err := store.ReplaceDoc(ctx, doc, []vector.Entry{testEntry("a", 0, []float32{1, 0, 0})})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Reset(ctx)).To(Succeed())

			docs, err := store.Docs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(BeEmpty())
		})
	})

	Describe("durability", func() {
		It("survives a close and reopen", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "durable.db")

			s, err := sqlite.New(sqlite.Config{DBPath: dbPath, Dimensions: testDims}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			doc := vector.DocRecord{DocID: "a", DocName: "a.txt", SourceType: "txt", Version: 3}
			err = s.ReplaceDoc(ctx, doc, []vector.Entry{testEntry("a", 0, []float32{0.6, 0.8, 0})})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Close()).To(Succeed())

			reopened, err := sqlite.New(sqlite.Config{DBPath: dbPath, Dimensions: testDims}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())
			defer reopened.Close()

			results, err := reopened.Search(ctx, []float32{0.6, 0.8, 0}, 10, vector.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
			Expect(results[0].Embedding).To(Equal([]float32{0.6, 0.8, 0}))

			rec, err := reopened.Doc(ctx, "a")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Version).To(Equal(3))
		})
	})
})
