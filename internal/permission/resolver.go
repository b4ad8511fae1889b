package permission

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/docportal-access/internal"
)

// UserIdentity is the slice of a user the resolver needs.
type UserIdentity struct {
	ID       string
	Role     string
	IsActive bool
}

// DocumentIdentity is the slice of a document the resolver needs.
type DocumentIdentity struct {
	ID         string
	CategoryID string
}

type UserDirectory interface {
	GetIdentity(userID string) (*UserIdentity, error)
}

type DocumentDirectory interface {
	GetIdentity(documentID string) (*DocumentIdentity, error)
}

type CategoryDirectory interface {
	ListIDs() ([]string, error)
	ListPublicIDs() ([]string, error)
}

// GrantReader is the read surface of the grant store the resolver uses.
type GrantReader interface {
	ActivePermissions(scope Scope, entityID string, asOf time.Time) ([]string, error)
	EntitiesWithActivePermission(scope Scope, permissionKey string, asOf time.Time) ([]string, error)
}

// AssignmentReader reports the departments an employee actively belongs
// to at a point in time. Validity is evaluated on read, so assignments
// with future start dates or elapsed end dates need no state transition.
type AssignmentReader interface {
	ActiveDepartmentIDs(employeeID string, asOf time.Time) ([]string, error)
}

// Resolver computes effective permission sets. Every query recomputes
// from the stores; effective permissions are never cached.
type Resolver struct {
	catalog     *Catalog
	users       UserDirectory
	documents   DocumentDirectory
	categories  CategoryDirectory
	grants      GrantReader
	assignments AssignmentReader
	logger      *slog.Logger
	now         func() time.Time
}

func NewResolver(
	catalog *Catalog,
	users UserDirectory,
	documents DocumentDirectory,
	categories CategoryDirectory,
	grants GrantReader,
	assignments AssignmentReader,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		catalog:     catalog,
		users:       users,
		documents:   documents,
		categories:  categories,
		grants:      grants,
		assignments: assignments,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the resolver's clock. Tests use it to cross
// assignment validity boundaries deterministically.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve computes the effective permission set for a user on a document:
// the union of user-scope grants, department-scope grants inherited via
// active assignments, and category-scope grants on the document's
// category. Any single scope is sufficient; there is no deny semantics.
func (r *Resolver) Resolve(userID, documentID string) (EffectivePermissionSet, error) {
	user, err := r.users.GetIdentity(userID)
	if err != nil {
		return EffectivePermissionSet{}, err
	}

	if user.Role == r.catalog.AdminRole() {
		// Admins bypass scoped resolution entirely.
		return NewEffectivePermissionSet(r.catalog.All()...), nil
	}

	document, err := r.documents.GetIdentity(documentID)
	if err != nil {
		return EffectivePermissionSet{}, err
	}

	asOf := r.now()
	set, err := r.resolveUserAndDepartments(user.ID, asOf)
	if err != nil {
		return EffectivePermissionSet{}, err
	}

	categoryPerms, err := r.grants.ActivePermissions(ScopeCategory, document.CategoryID, asOf)
	if err != nil {
		return EffectivePermissionSet{}, internal.NewInternalError("failed to read category grants", err)
	}
	set.Add(categoryPerms...)

	r.logger.Debug("resolved effective permissions",
		"user_id", userID,
		"document_id", documentID,
		"count", set.Len())
	return set, nil
}

// ResolveForUser computes the union of the user and department scopes
// only, for queries with no document target.
func (r *Resolver) ResolveForUser(userID string) (EffectivePermissionSet, error) {
	user, err := r.users.GetIdentity(userID)
	if err != nil {
		return EffectivePermissionSet{}, err
	}

	if user.Role == r.catalog.AdminRole() {
		return NewEffectivePermissionSet(r.catalog.All()...), nil
	}

	return r.resolveUserAndDepartments(user.ID, r.now())
}

// HasPermission reports whether the user holds the permission on the
// document through any scope.
func (r *Resolver) HasPermission(userID, documentID, permissionKey string) (bool, error) {
	set, err := r.Resolve(userID, documentID)
	if err != nil {
		return false, err
	}
	return set.Has(permissionKey), nil
}

// AccessibleCategories lists category ids the user may see: every
// category for admins and holders of categories.view_all, otherwise
// public categories plus categories carrying an active category-scope
// documents.view_all grant.
func (r *Resolver) AccessibleCategories(userID string) ([]string, error) {
	user, err := r.users.GetIdentity(userID)
	if err != nil {
		return nil, err
	}

	if user.Role == r.catalog.AdminRole() {
		return r.categories.ListIDs()
	}

	set, err := r.resolveUserAndDepartments(user.ID, r.now())
	if err != nil {
		return nil, err
	}
	if set.Has("categories.view_all") {
		return r.categories.ListIDs()
	}

	accessible := make(map[string]struct{})

	publicIDs, err := r.categories.ListPublicIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range publicIDs {
		accessible[id] = struct{}{}
	}

	grantedIDs, err := r.grants.EntitiesWithActivePermission(ScopeCategory, "documents.view_all", r.now())
	if err != nil {
		return nil, internal.NewInternalError("failed to read category grants", err)
	}
	for _, id := range grantedIDs {
		accessible[id] = struct{}{}
	}

	ids := make([]string, 0, len(accessible))
	for id := range accessible {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Resolver) resolveUserAndDepartments(userID string, asOf time.Time) (EffectivePermissionSet, error) {
	set := NewEffectivePermissionSet()

	userPerms, err := r.grants.ActivePermissions(ScopeUser, userID, asOf)
	if err != nil {
		return EffectivePermissionSet{}, internal.NewInternalError("failed to read user grants", err)
	}
	set.Add(userPerms...)

	departmentIDs, err := r.assignments.ActiveDepartmentIDs(userID, asOf)
	if err != nil {
		return EffectivePermissionSet{}, internal.NewInternalError("failed to read active assignments", err)
	}
	for _, departmentID := range departmentIDs {
		deptPerms, err := r.grants.ActivePermissions(ScopeDepartment, departmentID, asOf)
		if err != nil {
			return EffectivePermissionSet{}, internal.NewInternalError("failed to read department grants", err)
		}
		set.Add(deptPerms...)
	}

	return set, nil
}
