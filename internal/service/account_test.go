package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/apperr"
	"fintrack/internal/models"

	"gorm.io/gorm"
)

func TestAccounts_Create(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	accounts := NewAccounts(db)
	ctx := context.Background()

	acc, err := accounts.Create(ctx, user.ID, AccountInput{
		Name: "checking", Type: models.AccountTypeWallet, Currency: "USD",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if acc.BalanceCents != 0 {
		t.Errorf("new account balance = %d, want 0", acc.BalanceCents)
	}

	target := int64(500000)
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	savings, err := accounts.Create(ctx, user.ID, AccountInput{
		Name: "vacation", Type: models.AccountTypeSavings, Currency: "USD",
		TargetCents: &target, TargetDate: &due,
	})
	if err != nil {
		t.Fatalf("Create(savings) error = %v", err)
	}
	if savings.TargetCents == nil || *savings.TargetCents != 500000 {
		t.Errorf("savings target = %v, want 500000", savings.TargetCents)
	}
}

func TestAccounts_CreateRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	accounts := NewAccounts(db)
	ctx := context.Background()

	target := int64(10000)
	badTarget := int64(-5)
	cases := []struct {
		name string
		in   AccountInput
	}{
		{"empty name", AccountInput{Type: models.AccountTypeWallet, Currency: "USD"}},
		{"bad type", AccountInput{Name: "x", Type: "checking", Currency: "USD"}},
		{"target on wallet", AccountInput{Name: "x", Type: models.AccountTypeWallet, Currency: "USD", TargetCents: &target}},
		{"non-positive target", AccountInput{Name: "x", Type: models.AccountTypeSavings, Currency: "USD", TargetCents: &badTarget}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := accounts.Create(ctx, user.ID, tc.in); apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("Create() error = %v, want Validation", err)
			}
		})
	}
}

func TestAccounts_ListFiltersByType(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	accounts := NewAccounts(db)
	ctx := context.Background()

	mustCreate := func(name string, typ models.AccountType) {
		t.Helper()
		if _, err := accounts.Create(ctx, user.ID, AccountInput{Name: name, Type: typ, Currency: "USD"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	mustCreate("checking", models.AccountTypeWallet)
	mustCreate("vacation", models.AccountTypeSavings)
	mustCreate("rainy day", models.AccountTypeSavings)

	all, err := accounts.List(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List() = %d accounts, want 3", len(all))
	}

	savings, err := accounts.List(ctx, user.ID, models.AccountTypeSavings)
	if err != nil {
		t.Fatalf("List(savings) error = %v", err)
	}
	if len(savings) != 2 {
		t.Errorf("List(savings) = %d accounts, want 2", len(savings))
	}
	for _, acc := range savings {
		if acc.Type != models.AccountTypeSavings {
			t.Errorf("List(savings) returned %s account %q", acc.Type, acc.Name)
		}
	}
}

func TestAccounts_Ownership(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	acc := seedAccount(t, db, alice.ID, "checking", "USD", 1000)

	accounts := NewAccounts(db)
	ctx := context.Background()

	if _, err := accounts.Get(ctx, bob.ID, acc.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("Get(foreign) error = %v, want Forbidden", err)
	}
	if err := accounts.SoftDelete(ctx, bob.ID, acc.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("SoftDelete(foreign) error = %v, want Forbidden", err)
	}
	if _, err := accounts.Get(ctx, alice.ID, 9999); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("Get(missing) error = %v, want NotFound", err)
	}
}

func TestAccounts_DefaultUndeletable(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	accounts := NewAccounts(db)
	ctx := context.Background()

	acc, err := accounts.Create(ctx, user.ID, AccountInput{
		Name: "main", Type: models.AccountTypeWallet, Currency: "USD", IsDefault: true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := accounts.SoftDelete(ctx, user.ID, acc.ID); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Errorf("SoftDelete(default) error = %v, want InvalidArgument", err)
	}

	// clearing the flag makes it deletable; the row survives soft-deleted
	in := AccountInput{Name: "main", Type: models.AccountTypeWallet, Currency: "USD"}
	if _, err := accounts.Update(ctx, user.ID, acc.ID, in); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := accounts.SoftDelete(ctx, user.ID, acc.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	if _, err := accounts.Get(ctx, user.ID, acc.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("Get(deleted) error = %v, want NotFound", err)
	}
	var raw models.Account
	if err := db.Unscoped().First(&raw, acc.ID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		t.Error("soft-deleted account row was hard-deleted")
	} else if !raw.DeletedAt.Valid {
		t.Error("deleted account has no deletion timestamp")
	}
}

func TestAccounts_UpdateKeepsBalance(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acc := seedAccount(t, db, user.ID, "checking", "USD", 12345)

	accounts := NewAccounts(db)
	updated, err := accounts.Update(context.Background(), user.ID, acc.ID, AccountInput{
		Name: "renamed", Type: models.AccountTypeWallet, Currency: "USD", Color: "#123456",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "renamed" || updated.Color != "#123456" {
		t.Errorf("Update() = %q/%q, want renamed/#123456", updated.Name, updated.Color)
	}
	if got := balanceOf(t, db, acc.ID); got != 12345 {
		t.Errorf("balance after metadata update = %d, want 12345", got)
	}
}
