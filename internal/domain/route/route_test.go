package route

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skilldrones/regionview/internal/domain/auth"
)

// stubView is a minimal View for catalog tests.
type stubView struct {
	needsSession bool
}

func (s stubView) Render(_ context.Context, _ io.Writer, _ Data) error { return nil }
func (s stubView) RequiresSession() bool                               { return s.needsSession }

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	public := []string{ViewLogin, ViewUnauthorized}
	for _, id := range public {
		require.NoError(t, r.Register(id, stubView{needsSession: false}))
	}
	protected := []string{ViewMain, ViewAccount, ViewAnalytics, ViewArchive, ViewAdmin}
	for _, id := range protected {
		require.NoError(t, r.Register(id, stubView{needsSession: true}))
	}
	return r
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(auth.DefaultHierarchy(), testRegistry(t), DefaultDescriptors())
	require.NoError(t, err)
	return c
}

func paths(ds []Descriptor) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Path)
	}
	return out
}

func TestNewCatalog_Valid(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, 7, c.Len())
}

func TestNewCatalog_RejectsUnknownRole(t *testing.T) {
	descriptors := []Descriptor{
		{Path: "/x", ViewID: ViewMain, AllowedRoles: []auth.Role{"auditor"}, Title: "X"},
	}
	_, err := NewCatalog(auth.DefaultHierarchy(), testRegistry(t), descriptors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestNewCatalog_RejectsDuplicatePath(t *testing.T) {
	descriptors := []Descriptor{
		{Path: "/x", ViewID: ViewMain, AllowedRoles: []auth.Role{auth.RoleUser}, Title: "X"},
		{Path: "/x", ViewID: ViewAccount, AllowedRoles: []auth.Role{auth.RoleUser}, Title: "X2"},
	}
	_, err := NewCatalog(auth.DefaultHierarchy(), testRegistry(t), descriptors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate route path")
}

func TestNewCatalog_RejectsUnregisteredView(t *testing.T) {
	descriptors := []Descriptor{
		{Path: "/x", ViewID: "missing", AllowedRoles: []auth.Role{auth.RoleUser}, Title: "X"},
	}
	_, err := NewCatalog(auth.DefaultHierarchy(), testRegistry(t), descriptors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unregistered view")
}

func TestNewCatalog_RejectsPublicRouteWithSessionView(t *testing.T) {
	descriptors := []Descriptor{
		{Path: "/x", ViewID: ViewMain, AllowedRoles: []auth.Role{auth.RoleUser}, Title: "X", IsPublic: true},
	}
	_, err := NewCatalog(auth.DefaultHierarchy(), testRegistry(t), descriptors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session-dependent view")
}

func TestNewCatalog_RejectsEmptyAllowedRoles(t *testing.T) {
	descriptors := []Descriptor{
		{Path: "/x", ViewID: ViewLogin, AllowedRoles: nil, Title: "X", IsPublic: true},
	}
	_, err := NewCatalog(auth.DefaultHierarchy(), testRegistry(t), descriptors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allows no roles")
}

func TestRegistry_RejectsDoubleRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("v", stubView{}))
	assert.Error(t, r.Register("v", stubView{}))
}

func TestAccessible_ContainsLiterallyAllowedRoutes(t *testing.T) {
	c := testCatalog(t)

	// Reflexivity: every route literally listing a role must appear in
	// that role's accessible set.
	for _, role := range auth.Roles() {
		accessible := map[string]struct{}{}
		for _, d := range c.Accessible(role) {
			accessible[d.Path] = struct{}{}
		}
		for _, d := range DefaultDescriptors() {
			literal := false
			for _, r := range d.AllowedRoles {
				if r == role {
					literal = true
				}
			}
			if literal {
				_, ok := accessible[d.Path]
				assert.True(t, ok, "role %s should reach %s", role, d.Path)
			}
		}
	}
}

func TestAccessible_RoleExpansion(t *testing.T) {
	c := testCatalog(t)

	admin := paths(c.Accessible(auth.RoleAdmin))
	assert.Equal(t, []string{"/login", "/unauthorized", "/", "/account", "/analytics", "/archive", "/admin"}, admin)

	manager := paths(c.Accessible(auth.RoleManager))
	assert.Equal(t, []string{"/login", "/unauthorized", "/", "/account", "/analytics", "/archive"}, manager)

	user := paths(c.Accessible(auth.RoleUser))
	assert.Equal(t, []string{"/login", "/unauthorized", "/", "/account", "/analytics"}, user)
}

func TestPublic_InvariantUnderRole(t *testing.T) {
	c := testCatalog(t)

	want := paths(c.Public())
	assert.Equal(t, []string{"/login", "/unauthorized"}, want)

	// Public() takes no role; re-invocation in any role context is identical.
	for range auth.Roles() {
		assert.Equal(t, want, paths(c.Public()))
	}
}

func TestProtectedAndPublic_PartitionAccessible(t *testing.T) {
	c := testCatalog(t)

	for _, role := range auth.Roles() {
		union := map[string]int{}
		for _, d := range c.Protected(role) {
			union[d.Path]++
		}
		for _, d := range c.Public() {
			union[d.Path]++
		}

		accessible := c.Accessible(role)
		assert.Len(t, union, len(accessible), "role %s", role)
		for _, d := range accessible {
			assert.Equal(t, 1, union[d.Path], "route %s double-counted for role %s", d.Path, role)
		}
	}
}

func TestNavigation_FiltersHiddenAndExcluded(t *testing.T) {
	c := testCatalog(t)

	nav := paths(c.Navigation(auth.RoleAdmin, nil))
	assert.Equal(t, []string{"/", "/account", "/analytics", "/archive", "/admin"}, nav)

	excluded := map[string]struct{}{"/account": {}}
	nav = paths(c.Navigation(auth.RoleAdmin, excluded))
	assert.Equal(t, []string{"/", "/analytics", "/archive", "/admin"}, nav)
}

func TestNavigation_DropsUntitledRoutes(t *testing.T) {
	descriptors := append(DefaultDescriptors(), Descriptor{
		Path:         "/untitled",
		ViewID:       ViewMain,
		AllowedRoles: []auth.Role{auth.RoleUser},
	})
	c, err := NewCatalog(auth.DefaultHierarchy(), testRegistry(t), descriptors)
	require.NoError(t, err)

	for _, d := range c.Navigation(auth.RoleUser, nil) {
		assert.NotEqual(t, "/untitled", d.Path)
	}
}

func TestFilters_Deterministic(t *testing.T) {
	c := testCatalog(t)

	first := paths(c.Accessible(auth.RoleManager))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, paths(c.Accessible(auth.RoleManager)))
	}
}

func TestByPath(t *testing.T) {
	c := testCatalog(t)

	d, ok := c.ByPath("/archive")
	require.True(t, ok)
	assert.Equal(t, "Archive", d.Title)
	assert.NotNil(t, d.View())

	_, ok = c.ByPath("/nope")
	assert.False(t, ok)
}
