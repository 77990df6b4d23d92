package indexcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	indexcmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener/index"
)

var _ = Describe("NewIndexCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := indexcmder.NewIndexCmd()
		Expect(cmd.Use).To(Equal("index <path>..."))
	})

	It("has a watch flag", func() {
		cmd := indexcmder.NewIndexCmd()
		Expect(cmd.Flags().Lookup("watch")).NotTo(BeNil())
	})

	It("requires at least one path", func() {
		cmd := indexcmder.NewIndexCmd()
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).NotTo(Succeed())
	})
})
