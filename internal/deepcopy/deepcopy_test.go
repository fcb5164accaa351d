package deepcopy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/employee-admin/internal/deepcopy"
	"github.com/spec-kit/employee-admin/internal/domain"
)

var _ = Describe("Copy", func() {
	It("detaches slices and pointers", func() {
		id := int64(1)
		src := &domain.Page[domain.Employee]{
			Content: []domain.Employee{{ID: &id, Name: "Ana", Department: &domain.Department{ID: 2, Name: "HR"}}},
			Size:    4,
		}

		dst, err := deepcopy.Copy(src)
		Expect(err).NotTo(HaveOccurred())
		Expect(dst).To(Equal(src))

		src.Content[0].Name = "changed"
		src.Content[0].Department.Name = "changed"
		*src.Content[0].ID = 99
		Expect(dst.Content[0].Name).To(Equal("Ana"))
		Expect(dst.Content[0].Department.Name).To(Equal("HR"))
		Expect(*dst.Content[0].ID).To(Equal(int64(1)))
	})

	It("returns nil for nil", func() {
		dst, err := deepcopy.Copy[domain.Employee](nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(dst).To(BeNil())
	})
})
