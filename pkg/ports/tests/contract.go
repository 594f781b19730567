// Package tests provides reusable contract suites for ports
// implementations. Adapter test packages call these to prove compliance.
package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/ports"
)

// StateStoreContract verifies that a store honors the StateStore
// semantics: round-trip fidelity, not-found signaling, delete, and list.
func StateStoreContract(t *testing.T, store ports.StateStore) {
	t.Helper()
	ctx := context.Background()

	seed := domain.NewState("contract-user")
	seed.Messages = append(seed.Messages,
		domain.NewMessage(domain.RoleUser, "What are the prices of your products?"),
		domain.NewMessage(domain.RoleAssistant, "Our starter plan is $9/month."),
	)
	seed.Next = domain.NodeProduct
	seed.DialogState = []string{domain.NodeRouter, domain.NodeProduct}
	seed.Context.ErrorCount = 1
	seed.Context.PreviousDepartment = domain.NodeProduct
	seed.Context.SetExtra("campaign", "spring")

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "nobody")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		if err := store.Save(ctx, "contract-user", seed); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := store.Load(ctx, "contract-user")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if loaded.Next != seed.Next {
			t.Errorf("next mismatch: got %q, want %q", loaded.Next, seed.Next)
		}
		if len(loaded.Messages) != len(seed.Messages) {
			t.Fatalf("message count mismatch: got %d, want %d", len(loaded.Messages), len(seed.Messages))
		}
		for i := range seed.Messages {
			if loaded.Messages[i].Content != seed.Messages[i].Content {
				t.Errorf("message %d content mismatch: got %q", i, loaded.Messages[i].Content)
			}
			if loaded.Messages[i].Role != seed.Messages[i].Role {
				t.Errorf("message %d role mismatch: got %q", i, loaded.Messages[i].Role)
			}
		}
		if len(loaded.DialogState) != 2 || loaded.DialogState[1] != domain.NodeProduct {
			t.Errorf("dialog state mismatch: got %v", loaded.DialogState)
		}
		if loaded.Context.ErrorCount != 1 {
			t.Errorf("error count mismatch: got %d", loaded.Context.ErrorCount)
		}
		if loaded.Context.Extra["campaign"] != "spring" {
			t.Errorf("extra context lost: got %v", loaded.Context.Extra)
		}
	})

	t.Run("SaveIsolation", func(t *testing.T) {
		if err := store.Save(ctx, "isolated", seed); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		loaded, err := store.Load(ctx, "isolated")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		// Mutating the loaded copy must not leak back into the store.
		loaded.Messages = append(loaded.Messages, domain.NewMessage(domain.RoleUser, "mutation"))
		loaded.Context.ErrorCount = 99

		reloaded, err := store.Load(ctx, "isolated")
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if len(reloaded.Messages) != len(seed.Messages) {
			t.Errorf("store leaked caller mutation: %d messages", len(reloaded.Messages))
		}
		if reloaded.Context.ErrorCount != 1 {
			t.Errorf("store leaked context mutation: %d", reloaded.Context.ErrorCount)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		found := false
		for _, id := range ids {
			if id == "contract-user" {
				found = true
			}
		}
		if !found {
			t.Errorf("contract-user missing from list: %v", ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "contract-user"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, "contract-user"); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
		}
	})
}
