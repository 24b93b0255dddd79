package auth

import "testing"

func TestPrincipalPermissions(t *testing.T) {
	logist := NewPrincipal("u1", "org", []string{RoleLogist})
	if !logist.HasPermission(PermRfpAssign) {
		t.Fatalf("logist should hold %s", PermRfpAssign)
	}
	if !logist.HasPermission(PermCatalogWrite) {
		t.Fatalf("logist should hold %s", PermCatalogWrite)
	}
	if logist.HasPermission(PermRfpComplete) {
		t.Fatalf("logist should not hold %s", PermRfpComplete)
	}

	carrier := NewPrincipal("u2", "org", []string{RoleCarrier})
	if !carrier.HasPermission(PermRfpComplete) {
		t.Fatalf("carrier should hold %s", PermRfpComplete)
	}
	if carrier.HasPermission(PermRfpCancel) {
		t.Fatalf("carrier should not hold %s", PermRfpCancel)
	}
}

func TestAdminBypassesPermissionGates(t *testing.T) {
	admin := NewPrincipal("u3", "", []string{RoleAdmin})
	for _, perm := range BuiltinPermissions {
		if !admin.HasPermission(perm.Key) {
			t.Fatalf("admin should bypass %s", perm.Key)
		}
	}
}

func TestHasRole(t *testing.T) {
	p := NewPrincipal("u4", "org", []string{"Carrier"})
	if !p.HasRole(RoleCarrier) {
		t.Fatal("expected carrier role after normalisation")
	}
	if p.HasRole(RoleLogist) {
		t.Fatal("unexpected logist role")
	}
}
