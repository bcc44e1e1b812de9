package db

import (
	"context"
	"testing"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
)

func createTestUser(t *testing.T, repos *Repositories, email string, role string) models.User {
	t.Helper()

	user := models.User{Email: email, PasswordHash: "hash", Role: role, CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(context.Background(), &user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func TestUserRepositoryRejectsCaseInsensitiveDuplicateEmail(t *testing.T) {
	repos := NewRepositories(openTestDatabase(t))
	createTestUser(t, repos, "Owner@Example.com", models.RoleOwner)

	duplicate := models.User{Email: "owner@example.com ", PasswordHash: "hash", Role: models.RoleOwner, CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(context.Background(), &duplicate); err == nil {
		t.Fatal("expected duplicate normalized email insert to fail")
	}

	user, found, err := repos.Users.FindByNormalizedEmail(context.Background(), "owner@example.com")
	if err != nil || !found {
		t.Fatalf("expected user lookup by normalized email, found=%v err=%v", found, err)
	}
	if user.Email != "Owner@Example.com" {
		t.Fatalf("expected stored email to keep its case, got %q", user.Email)
	}

	if _, found, err := repos.Users.FindByID(context.Background(), 999); found || err != nil {
		t.Fatalf("expected missing user without error, found=%v err=%v", found, err)
	}
}

func TestUserRepositoryListOwnerIDsAndPasswordUpdate(t *testing.T) {
	repos := NewRepositories(openTestDatabase(t))
	ctx := context.Background()
	owner := createTestUser(t, repos, "owner@example.com", models.RoleOwner)
	createTestUser(t, repos, "partner@example.com", models.RolePartner)

	ids, err := repos.Users.ListOwnerIDs(ctx)
	if err != nil {
		t.Fatalf("list owner ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != owner.ID {
		t.Fatalf("expected only owner id %d, got %v", owner.ID, ids)
	}

	if err := repos.Users.UpdatePassword(ctx, owner.ID, "new-hash", true); err != nil {
		t.Fatalf("update password: %v", err)
	}
	updated, _, err := repos.Users.FindByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("reload owner: %v", err)
	}
	if updated.PasswordHash != "new-hash" || !updated.MustChangePassword {
		t.Fatalf("expected password update to persist, got %+v", updated)
	}
}

func TestPeriodEntryRepositoryScopesByUser(t *testing.T) {
	repos := NewRepositories(openTestDatabase(t))
	ctx := context.Background()
	owner := createTestUser(t, repos, "owner@example.com", models.RoleOwner)
	other := createTestUser(t, repos, "other@example.com", models.RoleOwner)

	entry := models.PeriodEntry{
		UserID:          owner.ID,
		Date:            "2024-02-01",
		Flow:            models.FlowMedium,
		PeriodStartDate: "2024-02-01",
		Symptoms:        models.Symptoms{Cramps: 4},
	}
	if err := repos.Entries.Create(ctx, &entry); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	if _, found, err := repos.Entries.FindByID(ctx, other.ID, entry.ID); found || err != nil {
		t.Fatalf("expected entry hidden from other user, found=%v err=%v", found, err)
	}
	if deleted, err := repos.Entries.Delete(ctx, other.ID, entry.ID); deleted || err != nil {
		t.Fatalf("expected no delete for other user, deleted=%v err=%v", deleted, err)
	}

	stored, found, err := repos.Entries.FindByID(ctx, owner.ID, entry.ID)
	if err != nil || !found {
		t.Fatalf("expected owner to find entry, found=%v err=%v", found, err)
	}
	if stored.Symptoms.Cramps != 4 {
		t.Fatalf("expected symptoms to round-trip, got %+v", stored.Symptoms)
	}

	deleted, err := repos.Entries.Delete(ctx, owner.ID, entry.ID)
	if err != nil || !deleted {
		t.Fatalf("expected owner delete, deleted=%v err=%v", deleted, err)
	}
}

func TestSourceClampsStoredSymptomSeverities(t *testing.T) {
	database := openTestDatabase(t)
	repos := NewRepositories(database)
	ctx := context.Background()
	owner := createTestUser(t, repos, "owner@example.com", models.RoleOwner)

	if err := database.Exec(
		`INSERT INTO period_entries(user_id, date, flow, symptoms) VALUES (?, ?, ?, ?)`,
		owner.ID, "2024-02-01", "light", `{"cramps":9,"mood":-3,"energy":2}`,
	).Error; err != nil {
		t.Fatalf("insert raw entry: %v", err)
	}

	entries, err := NewSource(repos).FetchEntries(ctx, owner.ID)
	if err != nil {
		t.Fatalf("fetch entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0].Symptoms
	if got.Cramps != 5 || got.Mood != 1 || got.Energy != 2 || got.Headache != 0 {
		t.Fatalf("expected clamped severities, got %+v", got)
	}
}

func TestSourceKeepsEntriesWithUnreadableSymptoms(t *testing.T) {
	database := openTestDatabase(t)
	repos := NewRepositories(database)
	ctx := context.Background()
	owner := createTestUser(t, repos, "owner@example.com", models.RoleOwner)

	for _, start := range []string{"2024-01-01", "2024-01-29"} {
		entry := models.PeriodEntry{UserID: owner.ID, Date: start, Flow: models.FlowMedium, PeriodStartDate: start}
		if err := repos.Entries.Create(ctx, &entry); err != nil {
			t.Fatalf("create entry %s: %v", start, err)
		}
	}
	if err := database.Exec(
		`INSERT INTO period_entries(user_id, date, flow, period_start_date, symptoms) VALUES (?, ?, ?, ?, ?)`,
		owner.ID, "2024-02-26", "light", "2024-02-26", `{cramps:`,
	).Error; err != nil {
		t.Fatalf("insert raw entry: %v", err)
	}

	entries, err := NewSource(repos).FetchEntries(ctx, owner.ID)
	if err != nil {
		t.Fatalf("fetch entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Date == "2024-02-26" && !entry.Symptoms.IsEmpty() {
			t.Fatalf("expected unreadable symptoms to read as empty, got %+v", entry.Symptoms)
		}
	}

	listed, err := repos.Entries.ListByUser(ctx, owner.ID)
	if err != nil || len(listed) != 3 {
		t.Fatalf("expected entry listing to keep all 3 rows, got %d (err=%v)", len(listed), err)
	}
}

func TestSourceReplacesCycleHistory(t *testing.T) {
	database := openTestDatabase(t)
	repos := NewRepositories(database)
	source := NewSource(repos)
	ctx := context.Background()
	owner := createTestUser(t, repos, "owner@example.com", models.RoleOwner)

	length := 28
	first := []models.CycleRecord{
		{CycleStartDate: "2024-01-01", CycleLength: &length},
		{CycleStartDate: "2024-01-29", Predicted: true},
	}
	if err := source.ReplaceCycleHistory(ctx, owner.ID, first); err != nil {
		t.Fatalf("replace history: %v", err)
	}
	if err := source.ReplaceCycleHistory(ctx, owner.ID, first[:1]); err != nil {
		t.Fatalf("replace history again: %v", err)
	}

	records, err := source.FetchCycleHistory(ctx, owner.ID)
	if err != nil {
		t.Fatalf("fetch history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected history to be replaced, got %d records", len(records))
	}
	if records[0].UserID != owner.ID || records[0].CycleLength == nil || *records[0].CycleLength != 28 {
		t.Fatalf("unexpected stored record: %+v", records[0])
	}

	if err := source.ReplaceCycleHistory(ctx, owner.ID, nil); err != nil {
		t.Fatalf("clear history: %v", err)
	}
	var remaining int64
	if err := database.Model(&models.CycleRecord{}).Where("user_id = ?", owner.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected empty history, got %d", remaining)
	}
}
