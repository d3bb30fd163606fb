package user

import "testing"

func TestPrincipalAllows(t *testing.T) {
	editor := Principal{
		UserID:       2,
		Role:         RoleEditor,
		Capabilities: []Capability{CapabilityDuelazo, CapabilityStyly},
	}

	if !editor.Allows(CapabilityDuelazo) {
		t.Fatal("expected granted capability to be allowed")
	}
	if editor.Allows(CapabilitySpacebox) {
		t.Fatal("expected missing capability to be denied")
	}

	admin := Principal{UserID: 1, Role: RoleAdmin}
	for _, c := range AllCapabilities() {
		if !admin.Allows(c) {
			t.Fatalf("expected admin to be allowed %s", c)
		}
	}
}

func TestParseCapability(t *testing.T) {
	if c, ok := ParseCapability("duelazo"); !ok || c != CapabilityDuelazo {
		t.Fatalf("unexpected parse result: %s %v", c, ok)
	}
	if _, ok := ParseCapability("warehouse"); ok {
		t.Fatal("expected unknown capability to be rejected")
	}
}
