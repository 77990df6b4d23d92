package screenercmder_test

import (
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	screenercmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener"
)

const aliceResume = `Summary
Platform engineer with eight years of experience.

Experience
Led the Kubernetes migration of a payment platform on AWS.

Skills
Go, Kubernetes, AWS, Terraform, PostgreSQL`

const bobResume = `Summary
Sales manager focused on retail accounts.

Skills
Negotiation, forecasting, CRM tooling`

var _ = Describe("NewScreenerCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := screenercmder.NewScreenerCmd()
		Expect(cmd.Use).To(Equal("screener"))
	})

	It("registers every subcommand", func() {
		cmd := screenercmder.NewScreenerCmd()
		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements(
			"index", "query", "screen", "compare", "docs", "reset", "serve",
		))
	})

	It("has the global debug and config-dir flags", func() {
		cmd := screenercmder.NewScreenerCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})
})

var _ = Describe("Screener command execution", func() {
	var dir string

	// run executes the CLI against an isolated config and index.
	run := func(args ...string) error {
		cmd := screenercmder.NewScreenerCmd()
		cmd.SetArgs(append(args, "--config-dir", dir))
		return cmd.Execute()
	}

	writeResume := func(name, text string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(text), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		toml := fmt.Sprintf("[storage]\nsqlite_path = %q\n", filepath.Join(dir, "screener.db"))
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644)).To(Succeed())
	})

	Describe("index", func() {
		It("indexes files and lists them", func() {
			alice := writeResume("alice.txt", aliceResume)
			Expect(run("index", alice)).To(Succeed())
			Expect(run("docs")).To(Succeed())
			Expect(run("docs", "--json")).To(Succeed())
		})

		It("fails on a missing path", func() {
			Expect(run("index", filepath.Join(dir, "missing.txt"))).NotTo(Succeed())
		})

		It("fails when a directory holds no supported files", func() {
			empty := filepath.Join(dir, "resumes")
			Expect(os.MkdirAll(empty, 0o755)).To(Succeed())

			err := run("index", empty)
			Expect(err).To(MatchError(ContainSubstring("no .txt or .md files")))
		})
	})

	Describe("query", func() {
		BeforeEach(func() {
			Expect(run("index", writeResume("alice.txt", aliceResume))).To(Succeed())
		})

		It("answers over the whole index", func() {
			Expect(run("query", "Kubernetes AWS experience")).To(Succeed())
		})

		It("answers scoped to a document by name", func() {
			Expect(run("query", "Kubernetes AWS experience", "--doc", "alice.txt")).To(Succeed())
		})

		It("fails for an unknown document", func() {
			err := run("query", "anything", "--doc", "nobody.txt")
			Expect(err).To(MatchError(ContainSubstring("document not found")))
		})

		It("supports JSON output", func() {
			Expect(run("query", "Kubernetes AWS experience", "--json")).To(Succeed())
		})
	})

	Describe("screen", func() {
		BeforeEach(func() {
			Expect(run("index", writeResume("alice.txt", aliceResume))).To(Succeed())
		})

		It("requires a job description", func() {
			err := run("screen")
			Expect(err).To(MatchError(ContainSubstring("a job description is required")))
		})

		It("screens against an inline job description", func() {
			Expect(run("screen", "Kubernetes AWS experience")).To(Succeed())
		})

		It("screens against a job file", func() {
			jobFile := filepath.Join(dir, "job.txt")
			Expect(os.WriteFile(jobFile, []byte("Kubernetes AWS experience"), 0o644)).To(Succeed())
			Expect(run("screen", "--job-file", jobFile)).To(Succeed())
		})

		It("fails with an empty index", func() {
			Expect(run("reset", "--force")).To(Succeed())
			err := run("screen", "any role")
			Expect(err).To(MatchError(ContainSubstring("no documents indexed")))
		})
	})

	Describe("compare", func() {
		BeforeEach(func() {
			Expect(run("index", writeResume("alice.txt", aliceResume), writeResume("bob.txt", bobResume))).To(Succeed())
		})

		It("compares candidates with a trailing job description", func() {
			Expect(run("compare", "alice.txt", "bob.txt", "Kubernetes AWS experience")).To(Succeed())
		})

		It("requires a job description", func() {
			err := run("compare", "alice.txt", "bob.txt")
			Expect(err).To(MatchError(ContainSubstring("a job description is required")))
		})
	})

	Describe("reset", func() {
		It("refuses without --force", func() {
			err := run("reset")
			Expect(err).To(MatchError(ContainSubstring("--force")))
		})

		It("wipes the index with --force", func() {
			Expect(run("index", writeResume("alice.txt", aliceResume))).To(Succeed())
			Expect(run("reset", "--force")).To(Succeed())
		})
	})
})
