package tests

import (
	"strings"
	"testing"

	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/ports"
)

// CatalogContractTest is a reusable test suite that verifies if an adapter complies with ports.Catalog.
// knownCode must be a code with a root menu in the catalog under test.
func CatalogContractTest(t *testing.T, catalog ports.Catalog, knownCode domain.DialCode) {
	t.Helper()

	t.Run("ResolveRoot_Known", func(t *testing.T) {
		r := catalog.ResolveRoot(knownCode, "Orange")
		if r.SessionID == "" {
			t.Fatal("root screen must carry a session ID")
		}
		if r.HasOption(domain.KeyBack) {
			t.Errorf("root screen of %s offers back; catalogs must not emit %q at the root", knownCode, domain.KeyBack)
		}
		if r.IsMenu != (len(r.Options) > 0) {
			t.Errorf("IsMenu=%v inconsistent with %d options", r.IsMenu, len(r.Options))
		}
	})

	t.Run("ResolveRoot_FreshSessionIDs", func(t *testing.T) {
		a := catalog.ResolveRoot(knownCode, "Orange")
		b := catalog.ResolveRoot(knownCode, "Orange")
		if a.SessionID == b.SessionID {
			t.Errorf("expected distinct session IDs, both were %q", a.SessionID)
		}
	})

	t.Run("ResolveRoot_UnknownFallsBack", func(t *testing.T) {
		r := catalog.ResolveRoot("*999#", "Inwi")
		if r.IsMenu {
			t.Error("fallback for an unknown code must be terminal")
		}
		if !strings.Contains(r.Message, "*999#") || !strings.Contains(r.Message, "Inwi") {
			t.Errorf("fallback must mention code and operator, got %q", r.Message)
		}
	})

	t.Run("ResolveNext_UnknownFallsBack", func(t *testing.T) {
		shallow := catalog.ResolveNext("*999#", 1, "3", "IAM")
		deep := catalog.ResolveNext("*999#", 2, "3", "IAM")
		if shallow.IsMenu || deep.IsMenu {
			t.Error("fallbacks must be terminal")
		}
		if shallow.Message == deep.Message {
			t.Error("depth 1 and depth >= 2 fallbacks must differ")
		}
		if shallow.SessionID != "" || deep.SessionID != "" {
			t.Error("ResolveNext must not mint session IDs")
		}
	})

	t.Run("ResolveNext_Pure", func(t *testing.T) {
		a := catalog.ResolveNext(knownCode, 1, "1", "Orange")
		b := catalog.ResolveNext(knownCode, 1, "1", "Orange")
		if !a.Equal(b) {
			t.Errorf("same inputs must give the same screen: %+v vs %+v", a, b)
		}
	})
}
