package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/models"
)

func TestUsers_CreateHashesAndDefaults(t *testing.T) {
	ctx, store := setupTestStore(t)
	users := NewUsers(store)

	id, err := users.Create(ctx, UserInput{Email: " Grace@Example.com ", Password: "hopper42", FirstName: "Grace"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := users.GetByEmail(ctx, "GRACE@example.com")
	if err != nil || got == nil {
		t.Fatalf("GetByEmail: (%v, %v)", got, err)
	}
	if got.ID != id {
		t.Fatalf("expected id %s, got %s", id.Hex(), got.ID.Hex())
	}
	if got.Role != models.RoleUser {
		t.Fatalf("expected default role User, got %q", got.Role)
	}
	ok, err := auth.CheckPassword(got.Password, "hopper42")
	if err != nil || !ok {
		t.Fatalf("stored password does not verify: ok=%v err=%v", ok, err)
	}

	_, err = users.Create(ctx, UserInput{Email: "grace@example.com", Password: "another1"})
	if !errors.Is(err, inkwell.ErrConflict) || err.Error() != "A user with this email already exists" {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUsers_PasswordLengthMessages(t *testing.T) {
	users := NewUsers(nil)

	_, err := users.CreateUser(context.Background(), &models.User{Email: "long@example.com"}, strings.Repeat("é", 40))
	if inkwell.KindOf(err) != inkwell.KindValidation || err.Error() != "Password must be at most 72 bytes" {
		t.Fatalf("expected too-long validation error, got %v", err)
	}

	_, err = users.CreateUser(context.Background(), &models.User{Email: "short@example.com"}, "abc")
	if inkwell.KindOf(err) != inkwell.KindValidation || err.Error() != "Password must be at least 6 characters" {
		t.Fatalf("expected too-short validation error, got %v", err)
	}

	err = inkwell.CheckInput(UserInput{Email: "a@example.com", FirstName: "A", Password: strings.Repeat("x", 73)})
	if err == nil || !strings.Contains(err.Error(), "must be at most 72 characters") {
		t.Fatalf("expected max tag message, got %v", err)
	}
}

func TestUsers_UpdateAndDelete(t *testing.T) {
	ctx, store := setupTestStore(t)
	users := NewUsers(store)

	id, _ := users.Create(ctx, UserInput{Email: "linus@example.com"})
	if err := users.Update(ctx, id.Hex(), UserPatch{Role: ptr(models.RoleAdmin), LastName: ptr("T")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := users.GetByID(ctx, id.Hex())
	if got.Role != models.RoleAdmin || got.LastName != "T" {
		t.Fatalf("unexpected user after update: %+v", got)
	}

	list, err := users.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: (%v, %v)", list, err)
	}

	if err := users.Delete(ctx, id.Hex()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	err = users.Delete(ctx, id.Hex())
	if !errors.Is(err, inkwell.ErrNotFound) || err.Error() != "User not found or already deleted" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUsers_AccountHelpers(t *testing.T) {
	ctx, store := setupTestStore(t)
	users := NewUsers(store)

	id, _ := users.Create(ctx, UserInput{Email: "ken@example.com"})
	_, _ = store.UpdateMany(ctx, &models.User{}, map[string]interface{}{}, map[string]interface{}{
		"$unset": map[string]interface{}{"role": ""},
	})

	role, err := users.EnsureRole(ctx, id)
	if err != nil || role != models.RoleUser {
		t.Fatalf("EnsureRole: (%q, %v)", role, err)
	}

	if err := users.MarkEmailVerified(ctx, id); err != nil {
		t.Fatalf("MarkEmailVerified failed: %v", err)
	}
	hash, _ := auth.HashPassword("newpass1")
	if err := users.SetPassword(ctx, id, hash); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	got, _ := users.GetByID(ctx, id.Hex())
	if got.Role != models.RoleUser || got.EmailVerified == nil || got.Password != hash {
		t.Fatalf("unexpected account state: %+v", got)
	}
}
