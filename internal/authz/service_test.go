package authz

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/shopfront/internal/constants"
	"github.com/shopfront/internal/models"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	return svc
}

func TestAuthorizeAdminActions(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	admin := &models.User{ID: 1, Role: constants.RoleAdmin}

	cases := []struct {
		obj string
		act string
	}{
		{ObjectProduct, ActionToggle},
		{ObjectProduct, ActionCreate},
		{ObjectUserRole, ActionUpdate},
		{ObjectUser, ActionList},
		{"/api/v1/admin/products/42/active", "PATCH"},
		{"/api/v1/admin/users", "get"},
	}
	for _, tc := range cases {
		allow, err := svc.Authorize(admin, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("authorize %s %s failed: %v", tc.obj, tc.act, err)
		}
		if !allow {
			t.Fatalf("expected admin allowed for %s %s", tc.obj, tc.act)
		}
	}
}

func TestAuthorizeClientDenied(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	client := &models.User{ID: 2, Role: constants.RoleClient}

	for _, obj := range []string{ObjectProduct, ObjectUserRole, "/api/v1/admin/users"} {
		allow, err := svc.Authorize(client, obj, "*")
		if err != nil {
			t.Fatalf("authorize failed: %v", err)
		}
		if allow {
			t.Fatalf("client should not be allowed on %s", obj)
		}
	}
}

func TestAuthorizeAnonymousDenied(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	allow, err := svc.Authorize(nil, ObjectProduct, ActionToggle)
	if err != nil || allow {
		t.Fatalf("anonymous should be denied, allow=%v err=%v", allow, err)
	}
	allow, err = svc.Authorize(&models.User{ID: 3, Role: ""}, ObjectProduct, ActionToggle)
	if err != nil || allow {
		t.Fatalf("empty role should be denied, allow=%v err=%v", allow, err)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	before, err := svc.GetRolePolicies(constants.RoleAdmin)
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	after, err := svc.GetRolePolicies(constants.RoleAdmin)
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(before) != len(after) || len(after) != len(BuiltinRoleSeeds()[0].Policies) {
		t.Fatalf("unexpected policy count before=%d after=%d", len(before), len(after))
	}
}

func TestGrantAndRevokeRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	client := &models.User{ID: 5, Role: constants.RoleClient}
	if err := svc.GrantRolePolicy(constants.RoleClient, ObjectUser, ActionList); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	allow, err := svc.Authorize(client, ObjectUser, ActionList)
	if err != nil || !allow {
		t.Fatalf("expected granted policy to allow, allow=%v err=%v", allow, err)
	}
	if err := svc.RevokeRolePolicy(constants.RoleClient, ObjectUser, ActionList); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	allow, err = svc.Authorize(client, ObjectUser, ActionList)
	if err != nil || allow {
		t.Fatalf("expected revoked policy to deny, allow=%v err=%v", allow, err)
	}
}

func TestSubjectForRoleRejectsReserved(t *testing.T) {
	if _, err := SubjectForRole("__anchor__"); err == nil {
		t.Fatalf("expected reserved role rejected")
	}
	got, err := SubjectForRole(" Admin ")
	if err != nil || got != "role:admin" {
		t.Fatalf("unexpected subject=%s err=%v", got, err)
	}
}
