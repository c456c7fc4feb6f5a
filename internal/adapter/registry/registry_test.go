package registry_test

import (
	"context"
	"testing"

	"github.com/Strob0t/Concierge/internal/adapter/registry"
	"github.com/Strob0t/Concierge/internal/port/capability"
)

func TestDefaultsAvailable(t *testing.T) {
	r := registry.New()
	ctx := context.Background()
	for _, name := range []string{"uber", "opentable", "calendar", "ecommerce", "weather", "email"} {
		if !r.IsAvailable(ctx, name) {
			t.Errorf("IsAvailable(%q) = false, want true", name)
		}
	}
	if r.IsAvailable(ctx, "teleporter") {
		t.Error("IsAvailable for unregistered capability = true")
	}
}

func TestSetAvailable(t *testing.T) {
	r := registry.New()
	ctx := context.Background()

	r.SetAvailable("uber", false)
	if r.IsAvailable(ctx, "uber") {
		t.Error("uber still available after SetAvailable(false)")
	}
	if !r.Snapshot(ctx).IsAvailable("opentable") {
		t.Error("snapshot lost opentable availability")
	}
	if r.Snapshot(ctx).IsAvailable("uber") {
		t.Error("snapshot shows disabled uber as available")
	}

	r.SetAvailable("uber", true)
	if !r.IsAvailable(ctx, "uber") {
		t.Error("uber not available after re-enable")
	}
}

func TestRequiredCapabilities(t *testing.T) {
	r := registry.New()
	ctx := context.Background()

	cases := []struct {
		category string
		want     string
	}{
		{"transportation", "uber"},
		{"reservation_restaurant", "opentable"},
		{"reservation_hotel", "opentable"},
		{"scheduling", "calendar"},
		{"purchase", "ecommerce"},
		{"information", "weather"},
	}
	for _, tc := range cases {
		got := r.RequiredCapabilities(ctx, tc.category)
		if len(got) != 1 || got[0] != tc.want {
			t.Errorf("RequiredCapabilities(%q) = %v, want [%s]", tc.category, got, tc.want)
		}
	}
	if got := r.RequiredCapabilities(ctx, "custom_birthday_surprise"); got != nil {
		t.Errorf("RequiredCapabilities(custom) = %v, want nil", got)
	}
}

func TestRegisterAndList(t *testing.T) {
	r := registry.New()
	ctx := context.Background()

	before := len(r.List(ctx))
	r.Register(capability.Capability{Name: "Florist", Description: "Flower delivery", Available: true})
	if !r.IsAvailable(ctx, "florist") {
		t.Error("registered capability not available under lowercased name")
	}
	list := r.List(ctx)
	if len(list) != before+1 {
		t.Fatalf("List returned %d entries, want %d", len(list), before+1)
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("List not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	r := registry.New()
	r.SetAvailable("email", false)
	health := r.HealthCheck(context.Background())
	if health["email"] {
		t.Error("health check reports disabled email as up")
	}
	if !health["uber"] {
		t.Error("health check reports uber as down")
	}
}
