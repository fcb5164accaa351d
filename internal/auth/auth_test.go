package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/employee-admin/internal/auth"
	"github.com/spec-kit/employee-admin/internal/client"
	"github.com/spec-kit/employee-admin/internal/domain"
	apperrors "github.com/spec-kit/employee-admin/pkg/util/errorutil"
)

var _ = Describe("TokenManager", func() {
	It("round-trips subject and authorities", func() {
		tm := auth.NewTokenManager("secret", 5)
		token, expires, err := tm.GenerateToken("maria", domain.RoleAdmin)
		Expect(err).NotTo(HaveOccurred())
		Expect(expires).NotTo(BeZero())

		claims, err := tm.ParseToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Subject).To(Equal("maria"))
		Expect(claims.UserName).To(Equal("maria"))
		Expect(claims.Authorities).To(ConsistOf(domain.RoleAdmin))
	})

	It("rejects tokens signed with another secret", func() {
		token, _, err := auth.NewTokenManager("one", 5).GenerateToken("maria")
		Expect(err).NotTo(HaveOccurred())

		_, err = auth.NewTokenManager("two", 5).ParseToken(token)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("RoleSet", func() {
	It("matches any of the requested roles", func() {
		roles := auth.RoleSet{domain.RoleOperator}
		Expect(roles.HasAnyRoles(domain.RoleAdmin, domain.RoleOperator)).To(BeTrue())
		Expect(roles.HasAnyRoles(domain.RoleAdmin)).To(BeFalse())
		Expect(roles.HasAnyRoles()).To(BeFalse())
	})

	It("treats a missing principal as having no roles", func() {
		var p *auth.Principal
		Expect(p.HasAnyRoles(domain.RoleAdmin)).To(BeFalse())
	})
})

var _ = Describe("AuthMiddleware", func() {
	var (
		tm  *auth.TokenManager
		app *fiber.App
	)

	BeforeEach(func() {
		tm = auth.NewTokenManager("secret", 5)
		app = fiber.New(fiber.Config{
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				var fe *fiber.Error
				if errors.As(err, &fe) {
					return c.SendStatus(fe.Code)
				}
				return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
			},
		})
		mw := auth.NewAuthMiddleware(tm)
		app.Get("/any", mw.Handle, auth.RequireAnyRole(), func(c *fiber.Ctx) error {
			token, _ := client.TokenFromContext(c.UserContext())
			principal, _ := auth.PrincipalFromContext(c)
			return c.JSON(fiber.Map{"subject": principal.Subject, "token": token})
		})
		app.Get("/admin", mw.Handle, auth.RequireAnyRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusNoContent)
		})
	})

	send := func(path, token string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	It("rejects requests without a bearer token", func() {
		Expect(send("/any", "").StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("rejects an invalid token", func() {
		Expect(send("/any", "garbage").StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("exposes the principal and forwards the token", func() {
		token, _, err := tm.GenerateToken("maria", domain.RoleOperator)
		Expect(err).NotTo(HaveOccurred())

		resp := send("/any", token)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var body map[string]string
		Expect(decode(resp, &body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("subject", "maria"))
		Expect(body).To(HaveKeyWithValue("token", token))
	})

	It("enforces the required role", func() {
		operator, _, _ := tm.GenerateToken("op", domain.RoleOperator)
		admin, _, _ := tm.GenerateToken("boss", domain.RoleAdmin)

		Expect(send("/admin", operator).StatusCode).To(Equal(http.StatusForbidden))
		Expect(send("/admin", admin).StatusCode).To(Equal(http.StatusNoContent))
	})
})
