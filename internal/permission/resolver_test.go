package permission_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/docportal-access/internal"
	"github.com/frahmantamala/docportal-access/internal/permission"
)

func TestPermission(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Permission Module Suite")
}

var testCatalogKeys = []string{
	"documents.view_all",
	"documents.create",
	"documents.edit_all",
	"documents.share",
	"categories.view_all",
}

// MockUserDirectory implements permission.UserDirectory
type MockUserDirectory struct {
	users map[string]*permission.UserIdentity
}

func (m *MockUserDirectory) GetIdentity(userID string) (*permission.UserIdentity, error) {
	if user, ok := m.users[userID]; ok {
		return user, nil
	}
	return nil, internal.ErrUserNotFound
}

// MockDocumentDirectory implements permission.DocumentDirectory
type MockDocumentDirectory struct {
	documents map[string]*permission.DocumentIdentity
}

func (m *MockDocumentDirectory) GetIdentity(documentID string) (*permission.DocumentIdentity, error) {
	if doc, ok := m.documents[documentID]; ok {
		return doc, nil
	}
	return nil, internal.ErrDocumentNotFound
}

// MockCategoryDirectory implements permission.CategoryDirectory
type MockCategoryDirectory struct {
	allIDs    []string
	publicIDs []string
}

func (m *MockCategoryDirectory) ListIDs() ([]string, error)       { return m.allIDs, nil }
func (m *MockCategoryDirectory) ListPublicIDs() ([]string, error) { return m.publicIDs, nil }

type grantKey struct {
	scope    permission.Scope
	entityID string
}

// MockGrantReader implements permission.GrantReader with a static set of
// active grants per (scope, entity).
type MockGrantReader struct {
	grants     map[grantKey][]string
	shouldFail bool
}

func (m *MockGrantReader) ActivePermissions(scope permission.Scope, entityID string, asOf time.Time) ([]string, error) {
	if m.shouldFail {
		return nil, errors.New("store unavailable")
	}
	return m.grants[grantKey{scope, entityID}], nil
}

func (m *MockGrantReader) EntitiesWithActivePermission(scope permission.Scope, permissionKey string, asOf time.Time) ([]string, error) {
	if m.shouldFail {
		return nil, errors.New("store unavailable")
	}
	var ids []string
	for key, perms := range m.grants {
		if key.scope != scope {
			continue
		}
		for _, p := range perms {
			if p == permissionKey {
				ids = append(ids, key.entityID)
				break
			}
		}
	}
	return ids, nil
}

// MockAssignmentReader implements permission.AssignmentReader. Each
// membership carries its validity window so the clock can move across it.
type MockAssignmentReader struct {
	memberships map[string][]membership
}

type membership struct {
	departmentID string
	start        time.Time
	end          *time.Time
}

func (m *MockAssignmentReader) ActiveDepartmentIDs(employeeID string, asOf time.Time) ([]string, error) {
	var ids []string
	for _, ms := range m.memberships[employeeID] {
		if ms.start.After(asOf) {
			continue
		}
		if ms.end != nil && !ms.end.After(asOf) {
			continue
		}
		ids = append(ids, ms.departmentID)
	}
	return ids, nil
}

var _ = Describe("Resolver", func() {
	var (
		catalog     *permission.Catalog
		users       *MockUserDirectory
		documents   *MockDocumentDirectory
		categories  *MockCategoryDirectory
		grants      *MockGrantReader
		assignments *MockAssignmentReader
		resolver    *permission.Resolver
		baseTime    time.Time
	)

	BeforeEach(func() {
		baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		catalog = permission.NewCatalog(testCatalogKeys, "admin")

		users = &MockUserDirectory{users: map[string]*permission.UserIdentity{
			"admin-1": {ID: "admin-1", Role: "admin", IsActive: true},
			"emp-1":   {ID: "emp-1", Role: "employee", IsActive: true},
			"emp-2":   {ID: "emp-2", Role: "employee", IsActive: true},
		}}
		documents = &MockDocumentDirectory{documents: map[string]*permission.DocumentIdentity{
			"doc-1": {ID: "doc-1", CategoryID: "cat-eng"},
			"doc-2": {ID: "doc-2", CategoryID: "cat-hr"},
		}}
		categories = &MockCategoryDirectory{
			allIDs:    []string{"cat-eng", "cat-hr", "cat-public"},
			publicIDs: []string{"cat-public"},
		}
		grants = &MockGrantReader{grants: map[grantKey][]string{
			{permission.ScopeUser, "emp-1"}:          {"documents.create"},
			{permission.ScopeDepartment, "dept-eng"}: {"documents.edit_all"},
			{permission.ScopeCategory, "cat-eng"}:    {"documents.view_all"},
		}}
		assignments = &MockAssignmentReader{memberships: map[string][]membership{
			"emp-1": {{departmentID: "dept-eng", start: baseTime.Add(-24 * time.Hour)}},
		}}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		resolver = permission.NewResolver(catalog, users, documents, categories, grants, assignments, logger).
			WithClock(func() time.Time { return baseTime })
	})

	Describe("Resolve", func() {
		It("unions grants from all three scopes", func() {
			set, err := resolver.Resolve("emp-1", "doc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(set.Keys()).To(ConsistOf(
				"documents.create",
				"documents.edit_all",
				"documents.view_all",
			))
		})

		It("returns the full catalog for the administrative role", func() {
			set, err := resolver.Resolve("admin-1", "doc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(set.Len()).To(Equal(len(testCatalogKeys)))
			for _, key := range testCatalogKeys {
				Expect(set.Has(key)).To(BeTrue())
			}
		})

		It("returns an empty set when no scope holds a grant", func() {
			set, err := resolver.Resolve("emp-2", "doc-2")

			Expect(err).ToNot(HaveOccurred())
			Expect(set.Len()).To(BeZero())
		})

		It("fails with NotFound for an unknown user", func() {
			_, err := resolver.Resolve("ghost", "doc-1")
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("fails with NotFound for an unknown document", func() {
			_, err := resolver.Resolve("emp-1", "ghost")
			Expect(err).To(Equal(internal.ErrDocumentNotFound))
		})

		It("does not look up the document for admins", func() {
			set, err := resolver.Resolve("admin-1", "ghost")

			Expect(err).ToNot(HaveOccurred())
			Expect(set.Len()).To(Equal(len(testCatalogKeys)))
		})

		It("collapses duplicate grants across scopes", func() {
			grants.grants[grantKey{permission.ScopeUser, "emp-1"}] = []string{"documents.view_all"}

			set, err := resolver.Resolve("emp-1", "doc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(set.Keys()).To(ConsistOf("documents.view_all", "documents.edit_all"))
		})
	})

	Describe("assignment validity over time", func() {
		It("excludes department grants once the assignment has ended", func() {
			ended := baseTime.Add(-1 * time.Hour)
			assignments.memberships["emp-1"] = []membership{
				{departmentID: "dept-eng", start: baseTime.Add(-24 * time.Hour), end: &ended},
			}

			set, err := resolver.Resolve("emp-1", "doc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(set.Has("documents.edit_all")).To(BeFalse())
			Expect(set.Has("documents.create")).To(BeTrue())
		})

		It("activates a future-dated assignment as the clock passes its start", func() {
			start := baseTime.Add(1 * time.Hour)
			assignments.memberships["emp-1"] = []membership{
				{departmentID: "dept-eng", start: start},
			}

			set, err := resolver.Resolve("emp-1", "doc-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(set.Has("documents.edit_all")).To(BeFalse())

			resolver.WithClock(func() time.Time { return baseTime.Add(2 * time.Hour) })

			set, err = resolver.Resolve("emp-1", "doc-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(set.Has("documents.edit_all")).To(BeTrue())
		})
	})

	Describe("HasPermission", func() {
		It("reports a permission held through the department scope", func() {
			has, err := resolver.HasPermission("emp-1", "doc-1", "documents.edit_all")
			Expect(err).ToNot(HaveOccurred())
			Expect(has).To(BeTrue())
		})

		It("reports a missing permission", func() {
			has, err := resolver.HasPermission("emp-1", "doc-1", "documents.share")
			Expect(err).ToNot(HaveOccurred())
			Expect(has).To(BeFalse())
		})
	})

	Describe("ResolveForUser", func() {
		It("unions user and department scopes without a document target", func() {
			set, err := resolver.ResolveForUser("emp-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(set.Keys()).To(ConsistOf("documents.create", "documents.edit_all"))
		})
	})

	Describe("AccessibleCategories", func() {
		It("returns all categories for admins", func() {
			ids, err := resolver.AccessibleCategories("admin-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(ids).To(ConsistOf("cat-eng", "cat-hr", "cat-public"))
		})

		It("returns all categories for holders of categories.view_all", func() {
			grants.grants[grantKey{permission.ScopeUser, "emp-2"}] = []string{"categories.view_all"}

			ids, err := resolver.AccessibleCategories("emp-2")
			Expect(err).ToNot(HaveOccurred())
			Expect(ids).To(ConsistOf("cat-eng", "cat-hr", "cat-public"))
		})

		It("returns public categories plus granted ones for everyone else", func() {
			ids, err := resolver.AccessibleCategories("emp-2")
			Expect(err).ToNot(HaveOccurred())
			Expect(ids).To(ConsistOf("cat-public", "cat-eng"))
		})
	})
})

var _ = Describe("Catalog", func() {
	It("deduplicates keys preserving first occurrence order", func() {
		catalog := permission.NewCatalog([]string{"a.x", "b.y", "a.x"}, "admin")
		Expect(catalog.All()).To(Equal([]string{"a.x", "b.y"}))
	})

	It("groups keys by prefix", func() {
		catalog := permission.NewCatalog(testCatalogKeys, "admin")
		Expect(catalog.Categories()).To(Equal([]string{"categories", "documents"}))
	})

	It("rejects keys outside the enumeration", func() {
		catalog := permission.NewCatalog(testCatalogKeys, "admin")
		Expect(catalog.Contains("documents.view_all")).To(BeTrue())
		Expect(catalog.Contains("documents.nuke")).To(BeFalse())
	})
})

var _ = Describe("ParseScope", func() {
	It("accepts the three entity scopes", func() {
		for _, raw := range []string{"user", "department", "category"} {
			scope, err := permission.ParseScope(raw)
			Expect(err).ToNot(HaveOccurred())
			Expect(scope.String()).To(Equal(raw))
		}
	})

	It("rejects anything else", func() {
		_, err := permission.ParseScope("group")
		Expect(err).To(Equal(internal.ErrInvalidScope))
	})
})
