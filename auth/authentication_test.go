package auth_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/test"
)

var secret = []byte("a-very-secret-signing-key")

func getContext(headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/drafts", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type countingAuthenticator struct {
	delegate auth.Authenticator
	calls    int
}

func (c *countingAuthenticator) ValidateAndSetAuthData(token string, ec echo.Context) (bool, error) {
	c.calls++
	return c.delegate.ValidateAndSetAuthData(token, ec)
}

var _ = Describe("Authentication", func() {
	var authenticator *auth.TokenAuthenticator
	var subjectId string

	BeforeEach(func() {
		authenticator = auth.NewTokenAuthenticator(secret, "careprofiles")
		subjectId = test.RandomOwnerId()
	})

	Describe("Token authenticator", func() {
		It("sets the identity of a valid token", func() {
			token, err := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: subjectId}, time.Minute)
			Expect(err).ToNot(HaveOccurred())

			c, _ := getContext(nil)
			valid, err := authenticator.ValidateAndSetAuthData(token, c)
			Expect(err).ToNot(HaveOccurred())
			Expect(valid).To(BeTrue())

			identity := auth.GetIdentity(c.Request().Context())
			Expect(identity).ToNot(BeNil())
			Expect(identity.SubjectId).To(Equal(subjectId))
			Expect(identity.ServerAccess).To(BeFalse())
		})

		It("rejects a token signed with another secret", func() {
			token, err := auth.SignToken([]byte("another-secret"), "careprofiles", auth.Identity{SubjectId: subjectId}, time.Minute)
			Expect(err).ToNot(HaveOccurred())

			_, err = authenticator.Verify(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
			Expect(err).To(MatchError(errors.Unauthorized))
		})

		It("rejects an expired token", func() {
			token, err := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: subjectId}, -time.Minute)
			Expect(err).ToNot(HaveOccurred())

			_, err = authenticator.Verify(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects a token from another issuer", func() {
			token, err := auth.SignToken(secret, "someone-else", auth.Identity{SubjectId: subjectId}, time.Minute)
			Expect(err).ToNot(HaveOccurred())

			_, err = authenticator.Verify(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects a token without a subject", func() {
			token, err := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: "  "}, time.Minute)
			Expect(err).ToNot(HaveOccurred())

			_, err = authenticator.Verify(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("surfaces the expiry of the token", func() {
			before := time.Now()
			token, err := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: subjectId}, time.Hour)
			Expect(err).ToNot(HaveOccurred())

			_, expiresAt, err := authenticator.VerifyWithExpiry(token)
			Expect(err).ToNot(HaveOccurred())
			Expect(expiresAt).To(BeTemporally("~", before.Add(time.Hour), 2*time.Second))

			c, _ := getContext(nil)
			_, err = authenticator.ValidateAndSetAuthData(token, c)
			Expect(err).ToNot(HaveOccurred())
			stored, ok := auth.GetTokenExpiry(c.Request().Context())
			Expect(ok).To(BeTrue())
			Expect(stored).To(Equal(expiresAt))
		})

		It("decodes server access", func() {
			token, err := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: "export-job", ServerAccess: true}, time.Minute)
			Expect(err).ToNot(HaveOccurred())

			identity, err := authenticator.Verify(token)
			Expect(err).ToNot(HaveOccurred())
			Expect(auth.IsServerIdentity(identity)).To(BeTrue())
		})
	})

	Describe("Caching authenticator", func() {
		var delegate *countingAuthenticator
		var caching auth.Authenticator

		BeforeEach(func() {
			delegate = &countingAuthenticator{delegate: authenticator}

			var err error
			caching, err = auth.NewCachingAuthenticator(10, time.Minute, delegate, auth.IsServerIdentity)
			Expect(err).ToNot(HaveOccurred())
		})

		It("caches server identities", func() {
			token, err := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: "export-job", ServerAccess: true}, time.Minute)
			Expect(err).ToNot(HaveOccurred())

			for i := 0; i < 3; i++ {
				c, _ := getContext(nil)
				valid, err := caching.ValidateAndSetAuthData(token, c)
				Expect(err).ToNot(HaveOccurred())
				Expect(valid).To(BeTrue())
				Expect(auth.GetIdentity(c.Request().Context()).SubjectId).To(Equal("export-job"))
			}
			Expect(delegate.calls).To(Equal(1))
		})

		It("stops accepting a cached server token once it expires", func() {
			token, err := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: "export-job", ServerAccess: true}, time.Second)
			Expect(err).ToNot(HaveOccurred())

			c, _ := getContext(nil)
			valid, err := caching.ValidateAndSetAuthData(token, c)
			Expect(err).ToNot(HaveOccurred())
			Expect(valid).To(BeTrue())

			Eventually(func() error {
				c, _ := getContext(nil)
				_, err := caching.ValidateAndSetAuthData(token, c)
				return err
			}).WithTimeout(5 * time.Second).WithPolling(100 * time.Millisecond).Should(MatchError(auth.ErrInvalidToken))
			Expect(delegate.calls).To(BeNumerically(">", 1))
		})

		It("does not cache user identities", func() {
			token, err := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: subjectId}, time.Minute)
			Expect(err).ToNot(HaveOccurred())

			for i := 0; i < 2; i++ {
				c, _ := getContext(nil)
				_, err := caching.ValidateAndSetAuthData(token, c)
				Expect(err).ToNot(HaveOccurred())
			}
			Expect(delegate.calls).To(Equal(2))
		})
	})

	Describe("Middleware", func() {
		var middleware echo.MiddlewareFunc
		var next echo.HandlerFunc
		var identity *auth.Identity

		BeforeEach(func() {
			identity = nil
			middleware = auth.NewAuthMiddleware(authenticator, auth.AuthMiddlewareOpts{
				Skipper: func(c echo.Context) bool {
					return c.Request().Header.Get("x-skip") != ""
				},
			})
			next = func(c echo.Context) error {
				identity = auth.GetIdentity(c.Request().Context())
				return c.NoContent(http.StatusNoContent)
			}
		})

		It("accepts a bearer token", func() {
			token, _ := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: subjectId}, time.Minute)
			c, rec := getContext(map[string]string{echo.HeaderAuthorization: "Bearer " + token})

			Expect(middleware(next)(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(identity).ToNot(BeNil())
			Expect(identity.SubjectId).To(Equal(subjectId))
		})

		It("accepts the session token header", func() {
			token, _ := auth.SignToken(secret, "careprofiles", auth.Identity{SubjectId: subjectId}, time.Minute)
			c, _ := getContext(map[string]string{auth.CareProfilesSessionTokenHeaderKey: token})

			Expect(middleware(next)(c)).To(Succeed())
			Expect(identity.SubjectId).To(Equal(subjectId))
		})

		It("refuses requests without a token", func() {
			c, _ := getContext(nil)
			err := middleware(next)(c)
			Expect(err).To(MatchError(errors.ErrUnauthenticated))
			Expect(identity).To(BeNil())
		})

		It("refuses requests with an invalid token", func() {
			c, _ := getContext(map[string]string{echo.HeaderAuthorization: "Bearer not-a-token"})
			err := middleware(next)(c)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("lets skipped routes through", func() {
			c, rec := getContext(map[string]string{"x-skip": "true"})
			Expect(middleware(next)(c)).To(Succeed())
			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})
	})
})
