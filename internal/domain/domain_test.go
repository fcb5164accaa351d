package domain_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/employee-admin/internal/domain"
)

var _ = Describe("ParseFormMode", func() {
	It("selects create mode for the sentinel", func() {
		mode, err := domain.ParseFormMode("create")
		Expect(err).NotTo(HaveOccurred())
		Expect(mode.IsEditing()).To(BeFalse())
	})

	It("selects edit mode for a positive id", func() {
		mode, err := domain.ParseFormMode("7")
		Expect(err).NotTo(HaveOccurred())
		Expect(mode).To(Equal(domain.FormMode{Kind: domain.FormModeEdit, EmployeeID: 7}))
	})

	DescribeTable("rejects unusable ids",
		func(param string) {
			_, err := domain.ParseFormMode(param)
			Expect(err).To(MatchError(domain.ErrInvalidEmployeeID))
		},
		Entry("empty", ""),
		Entry("zero", "0"),
		Entry("negative", "-3"),
		Entry("text", "abc"),
		Entry("wrong case sentinel", "Create"),
	)
})

var _ = Describe("Department", func() {
	depts := []domain.Department{{ID: 1, Name: "Sales"}, {ID: 2, Name: "HR"}}

	It("finds a department by option value", func() {
		d, ok := domain.FindDepartment(depts, "2")
		Expect(ok).To(BeTrue())
		Expect(d.Name).To(Equal("HR"))

		_, ok = domain.FindDepartment(depts, "3")
		Expect(ok).To(BeFalse())
	})

	It("compares by id", func() {
		Expect(domain.Department{ID: 1, Name: "Sales"}.Equal(domain.Department{ID: 1, Name: "Vendas"})).To(BeTrue())
	})
})

var _ = Describe("Employee", func() {
	It("omits the id when creating", func() {
		raw, err := json.Marshal(domain.Employee{Name: "Ana", Email: "a@b.co"})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring(`"id"`))
		Expect(domain.Employee{}.HasID()).To(BeFalse())
	})
})

var _ = Describe("Page", func() {
	It("accepts a consistent page", func() {
		p := domain.Page[int]{Content: []int{1, 2}, Number: 1, TotalPages: 3, Size: 4}
		Expect(p.Validate()).To(Succeed())
	})

	It("accepts an empty collection", func() {
		Expect(domain.Page[int]{Size: 4, Empty: true}.Validate()).To(Succeed())
	})

	It("rejects an out of range page number", func() {
		Expect(domain.Page[int]{Number: 3, TotalPages: 3}.Validate()).To(HaveOccurred())
	})

	It("rejects more items than the page size", func() {
		Expect(domain.Page[int]{Content: []int{1, 2, 3}, TotalPages: 1, Size: 2}.Validate()).To(HaveOccurred())
	})
})
