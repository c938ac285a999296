package service

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/apperr"
	"fintrack/internal/models"
)

func TestTransactions_CreateAppliesBalanceEffect(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acc := seedAccount(t, db, user.ID, "checking", "USD", 10000)
	food := seedCategory(t, db, user.ID, "food", models.CategoryTypeExpense, false)

	svc := NewTransactions(db)
	ctx := context.Background()

	expense, err := svc.Create(ctx, user.ID, EntryInput{
		AccountID:   acc.ID,
		CategoryID:  &food.ID,
		Type:        models.MovementExpense,
		AmountCents: 1200,
		Description: "groceries",
	})
	if err != nil {
		t.Fatalf("Create(expense) error = %v", err)
	}
	if got := balanceOf(t, db, acc.ID); got != 8800 {
		t.Errorf("balance after expense = %d, want 8800", got)
	}
	if expense.Currency != "USD" {
		t.Errorf("currency = %s, want account currency USD", expense.Currency)
	}

	_, err = svc.Create(ctx, user.ID, EntryInput{
		AccountID:   acc.ID,
		Type:        models.MovementIncome,
		AmountCents: 5000,
	})
	if err != nil {
		t.Fatalf("Create(income) error = %v", err)
	}
	if got := balanceOf(t, db, acc.ID); got != 13800 {
		t.Errorf("balance after income = %d, want 13800", got)
	}

	checkInvariant(t, db, acc.ID, 10000)
}

func TestTransactions_CreateRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acc := seedAccount(t, db, user.ID, "checking", "USD", 10000)
	salary := seedCategory(t, db, user.ID, "salary", models.CategoryTypeIncome, false)

	svc := NewTransactions(db)
	ctx := context.Background()

	cases := []struct {
		name string
		in   EntryInput
		kind apperr.Kind
	}{
		{"zero amount", EntryInput{AccountID: acc.ID, Type: models.MovementExpense, AmountCents: 0}, apperr.KindValidation},
		{"negative amount", EntryInput{AccountID: acc.ID, Type: models.MovementExpense, AmountCents: -5}, apperr.KindValidation},
		{"transfer type", EntryInput{AccountID: acc.ID, Type: models.MovementTransferOut, AmountCents: 100}, apperr.KindValidation},
		{"category type mismatch", EntryInput{AccountID: acc.ID, CategoryID: &salary.ID, Type: models.MovementExpense, AmountCents: 100}, apperr.KindValidation},
		{"missing account", EntryInput{AccountID: 9999, Type: models.MovementExpense, AmountCents: 100}, apperr.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, user.ID, tc.in)
			if apperr.KindOf(err) != tc.kind {
				t.Errorf("Create() error = %v, want kind %d", err, tc.kind)
			}
		})
	}

	if got := balanceOf(t, db, acc.ID); got != 10000 {
		t.Errorf("balance = %d, want 10000 (unchanged)", got)
	}
}

func TestTransactions_UpdateReversesOriginalEffect(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acc := seedAccount(t, db, user.ID, "checking", "USD", 10000)

	svc := NewTransactions(db)
	ctx := context.Background()

	entry, err := svc.Create(ctx, user.ID, EntryInput{
		AccountID:   acc.ID,
		Type:        models.MovementExpense,
		AmountCents: 1000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// change the amount: old -1000 reversed, new -2500 applied
	if _, err := svc.Update(ctx, user.ID, entry.ID, EntryInput{
		AccountID:   acc.ID,
		Type:        models.MovementExpense,
		AmountCents: 2500,
	}); err != nil {
		t.Fatalf("Update(amount) error = %v", err)
	}
	if got := balanceOf(t, db, acc.ID); got != 7500 {
		t.Errorf("balance = %d, want 7500", got)
	}

	// flip the direction: -2500 reversed, +2500 applied
	if _, err := svc.Update(ctx, user.ID, entry.ID, EntryInput{
		AccountID:   acc.ID,
		Type:        models.MovementIncome,
		AmountCents: 2500,
	}); err != nil {
		t.Fatalf("Update(type) error = %v", err)
	}
	if got := balanceOf(t, db, acc.ID); got != 12500 {
		t.Errorf("balance = %d, want 12500", got)
	}

	checkInvariant(t, db, acc.ID, 10000)
}

func TestTransactions_UpdateMovesBetweenAccounts(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	a := seedAccount(t, db, user.ID, "a", "USD", 10000)
	b := seedAccount(t, db, user.ID, "b", "USD", 10000)

	svc := NewTransactions(db)
	ctx := context.Background()

	entry, err := svc.Create(ctx, user.ID, EntryInput{
		AccountID:   a.ID,
		Type:        models.MovementExpense,
		AmountCents: 3000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Update(ctx, user.ID, entry.ID, EntryInput{
		AccountID:   b.ID,
		Type:        models.MovementExpense,
		AmountCents: 3000,
	}); err != nil {
		t.Fatalf("Update(move) error = %v", err)
	}

	if got := balanceOf(t, db, a.ID); got != 10000 {
		t.Errorf("old account balance = %d, want 10000 (restored)", got)
	}
	if got := balanceOf(t, db, b.ID); got != 7000 {
		t.Errorf("new account balance = %d, want 7000", got)
	}
	checkInvariant(t, db, a.ID, 10000)
	checkInvariant(t, db, b.ID, 10000)
}

func TestTransactions_SoftDeleteReversesEffect(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acc := seedAccount(t, db, user.ID, "checking", "USD", 10000)

	svc := NewTransactions(db)
	ctx := context.Background()

	entry, err := svc.Create(ctx, user.ID, EntryInput{
		AccountID:   acc.ID,
		Type:        models.MovementExpense,
		AmountCents: 4000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := balanceOf(t, db, acc.ID); got != 6000 {
		t.Fatalf("balance = %d, want 6000", got)
	}

	if err := svc.SoftDelete(ctx, user.ID, entry.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	if got := balanceOf(t, db, acc.ID); got != 10000 {
		t.Errorf("balance = %d, want 10000 (restored)", got)
	}

	// the row survives as history but is invisible to active queries
	if _, err := svc.Get(ctx, user.ID, entry.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("Get(deleted) error = %v, want NotFound", err)
	}
	var raw models.Transaction
	if err := db.Unscoped().First(&raw, entry.ID).Error; err != nil {
		t.Errorf("deleted row should still exist: %v", err)
	}
	if !raw.DeletedAt.Valid {
		t.Error("deleted row should carry a deleted_at timestamp")
	}
}

func TestTransactions_TransferLegsImmutable(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	a := seedAccount(t, db, user.ID, "a", "USD", 10000)
	b := seedAccount(t, db, user.ID, "b", "USD", 0)

	movements := NewMovements(db)
	res, err := movements.Transfer(context.Background(), user.ID, TransferInput{
		FromAccountID: a.ID,
		ToAccountID:   b.ID,
		AmountCents:   1000,
	})
	if err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}

	svc := NewTransactions(db)
	ctx := context.Background()

	for _, leg := range []*models.Transaction{res.OutEntry, res.InEntry} {
		_, err := svc.Update(ctx, user.ID, leg.ID, EntryInput{
			AccountID:   leg.AccountID,
			Type:        models.MovementExpense,
			AmountCents: 1,
		})
		if apperr.KindOf(err) != apperr.KindInvalidArgument {
			t.Errorf("Update(leg %d) error = %v, want InvalidArgument", leg.ID, err)
		}
		if err := svc.SoftDelete(ctx, user.ID, leg.ID); apperr.KindOf(err) != apperr.KindInvalidArgument {
			t.Errorf("SoftDelete(leg %d) error = %v, want InvalidArgument", leg.ID, err)
		}
	}

	if got := balanceOf(t, db, a.ID); got != 9000 {
		t.Errorf("a balance = %d, want 9000 (unchanged)", got)
	}
}

func TestTransactions_ListFilters(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	acc := seedAccount(t, db, user.ID, "checking", "USD", 100000)
	food := seedCategory(t, db, user.ID, "food", models.CategoryTypeExpense, false)

	svc := NewTransactions(db)
	ctx := context.Background()

	jan := time.Date(2025, 1, 15, 12, 0, 0, 0, time.Local)
	feb := time.Date(2025, 2, 15, 12, 0, 0, 0, time.Local)

	mustCreate := func(in EntryInput) *models.Transaction {
		t.Helper()
		e, err := svc.Create(ctx, user.ID, in)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return e
	}

	mustCreate(EntryInput{AccountID: acc.ID, CategoryID: &food.ID, Type: models.MovementExpense, AmountCents: 100, Date: jan})
	mustCreate(EntryInput{AccountID: acc.ID, Type: models.MovementExpense, AmountCents: 200, Date: feb})
	mustCreate(EntryInput{AccountID: acc.ID, Type: models.MovementIncome, AmountCents: 300, Date: feb})

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)
	entries, total, err := svc.List(ctx, user.ID, ListFilter{Start: &start})
	if err != nil {
		t.Fatalf("List(start) error = %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Errorf("List(start) = %d entries / total %d, want 2/2", len(entries), total)
	}

	entries, total, err = svc.List(ctx, user.ID, ListFilter{Type: models.MovementExpense})
	if err != nil {
		t.Fatalf("List(type) error = %v", err)
	}
	if total != 2 {
		t.Errorf("List(type=expense) total = %d, want 2", total)
	}
	for _, e := range entries {
		if e.Type != models.MovementExpense {
			t.Errorf("List(type=expense) returned %s entry", e.Type)
		}
	}

	_, total, err = svc.List(ctx, user.ID, ListFilter{CategoryID: &food.ID})
	if err != nil {
		t.Fatalf("List(category) error = %v", err)
	}
	if total != 1 {
		t.Errorf("List(category) total = %d, want 1", total)
	}

	// another user sees nothing
	other := seedUser(t, db, "bob")
	_, total, err = svc.List(ctx, other.ID, ListFilter{})
	if err != nil {
		t.Fatalf("List(other) error = %v", err)
	}
	if total != 0 {
		t.Errorf("List(other user) total = %d, want 0", total)
	}
}
