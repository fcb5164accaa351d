package errorutil_test

import (
	"errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/employee-admin/pkg/util/errorutil"
)

var _ = Describe("FromHTTPStatus", func() {
	DescribeTable("maps backend statuses",
		func(status int, code string, httpStatus int) {
			de := errorutil.ToDomainError(errorutil.FromHTTPStatus(status, "employee"))
			Expect(de.Code).To(Equal(code))
			Expect(de.HTTPStatus).To(Equal(httpStatus))
			Expect(de.Details).To(HaveKeyWithValue("upstream_status", status))
		},
		Entry("bad request", http.StatusBadRequest, "VALIDATION_FAILED", http.StatusBadRequest),
		Entry("unprocessable", http.StatusUnprocessableEntity, "VALIDATION_FAILED", http.StatusUnprocessableEntity),
		Entry("unauthorized", http.StatusUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized),
		Entry("forbidden", http.StatusForbidden, "FORBIDDEN", http.StatusForbidden),
		Entry("not found", http.StatusNotFound, "NOT_FOUND", http.StatusNotFound),
		Entry("conflict", http.StatusConflict, "CONFLICT", http.StatusConflict),
		Entry("server error", http.StatusInternalServerError, "UPSTREAM_ERROR", http.StatusBadGateway),
		Entry("teapot", http.StatusTeapot, "UPSTREAM_ERROR", http.StatusBadGateway),
	)

	It("exposes only the backend status in details", func() {
		de := errorutil.ToDomainError(errorutil.FromHTTPStatus(http.StatusBadGateway, "department"))
		Expect(de.Details).To(Equal(map[string]any{"upstream_status": http.StatusBadGateway}))
	})
})

var _ = Describe("ToDomainError", func() {
	It("finds a wrapped domain error", func() {
		wrapped := fmt.Errorf("loading: %w", errorutil.NewConflict("busy", nil))
		Expect(errorutil.ToDomainError(wrapped).Code).To(Equal("CONFLICT"))
	})

	It("wraps unknown errors as internal", func() {
		cause := errors.New("boom")
		de := errorutil.ToDomainError(cause)
		Expect(de.HTTPStatus).To(Equal(http.StatusInternalServerError))
		Expect(de).To(MatchError(cause))
	})

	It("passes nil through", func() {
		Expect(errorutil.ToDomainError(nil)).To(BeNil())
	})
})
