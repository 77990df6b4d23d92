package ingest_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/chunker"
	"github.com/AISHITA-10/ai-resume-screener/pkg/embeddings/hashing"
	"github.com/AISHITA-10/ai-resume-screener/pkg/ingest"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector/memory"
)

var _ = Describe("Watcher", func() {
	var (
		store    *memory.Store
		ingestor *ingest.Ingestor
		dir      string
		cancel   context.CancelFunc
		done     chan struct{}
	)

	docNames := func() []string {
		docs, err := store.Docs(context.Background())
		Expect(err).NotTo(HaveOccurred())
		names := make([]string, 0, len(docs))
		for _, d := range docs {
			names = append(names, d.DocName)
		}
		return names
	}

	BeforeEach(func() {
		embedder := hashing.New(hashing.Config{})
		var err error
		store, err = memory.New(embedder.Dimensions())
		Expect(err).NotTo(HaveOccurred())
		ingestor = ingest.New(chunker.New(chunker.Config{}), embedder, store, zap.NewNop())

		dir = GinkgoT().TempDir()

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan struct{})
		watcher := ingest.NewWatcher(ingestor, dir, zap.NewNop())
		go func() {
			defer close(done)
			_ = watcher.Run(ctx)
		}()
	})

	AfterEach(func() {
		cancel()
		Eventually(done).Should(BeClosed())
	})

	It("indexes files created in the watched directory", func() {
		path := filepath.Join(dir, "alice.txt")
		Expect(os.WriteFile(path, []byte(resumeText), 0o644)).To(Succeed())

		Eventually(docNames).Should(ConsistOf("alice.txt"))
	})

	It("ignores unsupported files", func() {
		path := filepath.Join(dir, "photo.png")
		Expect(os.WriteFile(path, []byte{0x89, 0x50}, 0o644)).To(Succeed())

		Consistently(docNames).Should(BeEmpty())
	})

	It("drops documents whose files are deleted", func() {
		path := filepath.Join(dir, "bob.txt")
		Expect(os.WriteFile(path, []byte(resumeText), 0o644)).To(Succeed())
		Eventually(docNames).Should(ConsistOf("bob.txt"))

		Expect(os.Remove(path)).To(Succeed())
		Eventually(docNames).Should(BeEmpty())
	})

	It("re-indexes files on change", func() {
		path := filepath.Join(dir, "carol.txt")
		Expect(os.WriteFile(path, []byte(resumeText), 0o644)).To(Succeed())
		Eventually(docNames).Should(ConsistOf("carol.txt"))

		var docID string
		docs, err := store.Docs(context.Background())
		Expect(err).NotTo(HaveOccurred())
		docID = docs[0].DocID

		Expect(os.WriteFile(path, []byte(resumeText+"\n\nCertifications\nCKA"), 0o644)).To(Succeed())

		version := func() int {
			doc, err := store.Doc(context.Background(), docID)
			if err != nil {
				if err == vector.ErrNotFound {
					return 0
				}
				Expect(err).NotTo(HaveOccurred())
			}
			return doc.Version
		}
		Eventually(version).Should(BeNumerically(">", 1))
	})
})
