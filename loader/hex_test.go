package loader_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomsim/loader"
)

var _ = Describe("Parse", func() {
	It("should parse one word per line", func() {
		prog, err := loader.Parse(strings.NewReader("00500113\n00A00193\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Words).To(Equal([]uint32{0x00500113, 0x00A00193}))
	})

	It("should accept 0x prefixes, comments and blank lines", func() {
		image := `
# mixed kernel prologue
0x00500113   # ADDI x2, x0, 5
00A00193     // ADDI x3, x0, 10

`
		prog, err := loader.Parse(strings.NewReader(image))

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Words).To(Equal([]uint32{0x00500113, 0x00A00193}))
	})

	It("should reject malformed words with the line number", func() {
		_, err := loader.Parse(strings.NewReader("00500113\nnot-hex\n"))

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("line 2"))
	})

	It("should reject an empty image", func() {
		_, err := loader.Parse(strings.NewReader("# nothing here\n"))

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Load", func() {
	It("should load an image from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "prog.hex")
		Expect(os.WriteFile(path, []byte("00500113\n"), 0644)).To(Succeed())

		prog, err := loader.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Words).To(HaveLen(1))
	})

	It("should report a missing file", func() {
		_, err := loader.Load("/no/such/image.hex")

		Expect(err).To(HaveOccurred())
	})
})
