package auth

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	byEmail       map[string]*Credentials
	byID          map[string]*Credentials
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	repo := &mockUserRepository{
		byEmail: make(map[string]*Credentials),
		byID:    make(map[string]*Credentials),
	}
	for _, creds := range []*Credentials{
		{UserID: "emp-1", Email: "employee@portal.local", Role: "employee", PasswordHash: string(hashedPassword)},
		{UserID: "admin-1", Email: "admin@portal.local", Role: "admin", PasswordHash: string(hashedPassword)},
		{UserID: "head-1", Email: "head@portal.local", Role: "department_head", PasswordHash: string(hashedPassword)},
	} {
		repo.byEmail[creds.Email] = creds
		repo.byID[creds.UserID] = creds
	}
	return repo
}

func (m *mockUserRepository) GetCredentials(email string) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.byEmail[email], nil
}

func (m *mockUserRepository) GetCredentialsByID(userID string) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.byID[userID], nil
}

func (m *mockUserRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

func (m *mockUserRepository) deactivate(userID string) {
	creds := m.byID[userID]
	delete(m.byID, userID)
	if creds != nil {
		delete(m.byEmail, creds.Email)
	}
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service       *Service
		mockRepo      *mockUserRepository
		tokenGen      *JWTTokenGenerator
		accessSecret  string        = "test-access-secret"
		refreshSecret string        = "test-refresh-secret"
		accessTTL     time.Duration = 15 * time.Minute
		refreshTTL    time.Duration = 24 * time.Hour
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator(accessSecret, refreshSecret, accessTTL, refreshTTL)
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = NewService(mockRepo, tokenGen, logger)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				dto := LoginDTO{
					Email:    "employee@portal.local",
					Password: "correct_password",
				}

				tokens, err := service.Authenticate(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should embed the user identity and role in the claims", func() {
				dto := LoginDTO{
					Email:    "admin@portal.local",
					Password: "correct_password",
				}

				tokens, err := service.Authenticate(dto)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("admin-1"))
				gomega.Expect(claims.Email).To(gomega.Equal("admin@portal.local"))
				gomega.Expect(claims.Role).To(gomega.Equal("admin"))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should reject a wrong password", func() {
				dto := LoginDTO{
					Email:    "employee@portal.local",
					Password: "wrong_password",
				}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})

			ginkgo.It("should reject an unknown email the same way", func() {
				dto := LoginDTO{
					Email:    "nobody@portal.local",
					Password: "correct_password",
				}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})

			ginkgo.It("should not leak repository errors to the caller", func() {
				mockRepo.setError(errors.New("connection refused"))
				dto := LoginDTO{
					Email:    "employee@portal.local",
					Password: "correct_password",
				}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when the DTO is incomplete", func() {
			ginkgo.It("should fail validation without an email", func() {
				_, err := service.Authenticate(LoginDTO{Password: "correct_password"})
				gomega.Expect(err).To(gomega.HaveOccurred())
			})

			ginkgo.It("should fail validation without a password", func() {
				_, err := service.Authenticate(LoginDTO{Email: "employee@portal.local"})
				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue fresh tokens for a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "employee@portal.local",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(refreshed.RefreshToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should pick up a role change at refresh time", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "employee@portal.local",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			mockRepo.byID["emp-1"].Role = "manager"

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := tokenGen.ValidateToken(refreshed.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Role).To(gomega.Equal("manager"))
		})

		ginkgo.It("should refuse to refresh for a deactivated user", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "employee@portal.local",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			mockRepo.deactivate("emp-1")

			_, err = service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).To(gomega.Equal(ErrUserInactive))
		})

		ginkgo.It("should reject a malformed token", func() {
			_, err := service.RefreshTokens("not-a-token")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("HashPassword", func() {
		ginkgo.It("should produce a hash that verifies against the password", func() {
			hash, err := service.HashPassword("s3cret")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret"))).To(gomega.Succeed())
		})
	})
})
