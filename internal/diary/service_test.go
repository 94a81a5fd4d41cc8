package diary_test

import (
	"errors"
	"testing"
	"time"

	"echo-daily/internal/diary"
	"echo-daily/internal/testutil"
)

type testEnv struct {
	service *diary.DiaryService
	clock   *testutil.StubClock
	vault   diary.Vault
	secrets diary.SecretStore
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()
	clock := testutil.FixedClock()
	db := testutil.NewTestDatabase(t, clock, testutil.NewStubIDGenerator())
	v := testutil.NewTestVault()
	sec := testutil.NewTestSecretStore()
	svc := diary.NewDiaryService(db, v, testutil.NewTestEncryptor(), sec, diary.NewNopLogger(), clock)
	return &testEnv{service: svc, clock: clock, vault: v, secrets: sec}
}

func TestDiaryService_UpsertEntry(t *testing.T) {
	env := newTestService(t)

	tests := []struct {
		name    string
		date    string
		content string
		wantErr error
	}{
		{name: "valid", date: "2026-01-03", content: `{"text":"hello"}`},
		{name: "empty document", date: "2026-01-04", content: diary.EmptyContent},
		{name: "bad date", date: "2026-13-01", content: `{}`, wantErr: diary.ErrInvalidDate},
		{name: "short date", date: "2026-1-3", content: `{}`, wantErr: diary.ErrInvalidDate},
		{name: "not json", date: "2026-01-05", content: `plain text`, wantErr: diary.ErrSerialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := env.service.UpsertEntry(tt.date, tt.content)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UpsertEntry() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpsertEntry() error = %v", err)
			}
			if e.EntryDate != tt.date || e.ContentJSON != tt.content {
				t.Errorf("UpsertEntry() = %+v", e)
			}
		})
	}

	if _, err := env.service.GetEntry("2026-01-05"); err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if e, _ := env.service.GetEntry("2026-01-05"); e != nil {
		t.Error("rejected content was stored")
	}
}

func TestDiaryService_UpsertKeepsIdentity(t *testing.T) {
	env := newTestService(t)

	first, err := env.service.UpsertEntry("2026-01-03", `{"text":"draft"}`)
	if err != nil {
		t.Fatalf("UpsertEntry() error = %v", err)
	}
	env.clock.Advance(time.Minute)
	second, err := env.service.UpsertEntry("2026-01-03", `{"text":"final"}`)
	if err != nil {
		t.Fatalf("UpsertEntry() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("ID changed from %s to %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", second.UpdatedAt, first.UpdatedAt)
	}
}

func TestDiaryService_Mood(t *testing.T) {
	env := newTestService(t)

	e, err := env.service.UpsertEntryMood("2026-01-02", "grateful", "🙏")
	if err != nil {
		t.Fatalf("UpsertEntryMood() error = %v", err)
	}
	if e.ContentJSON != diary.EmptyContent {
		t.Errorf("ContentJSON = %q, want %q for a mood-only entry", e.ContentJSON, diary.EmptyContent)
	}
	if e.Mood == nil || *e.Mood != "grateful" {
		t.Errorf("Mood = %v, want grateful", e.Mood)
	}

	if _, err := env.service.UpsertEntry("2026-01-03", `{"text":"x"}`); err != nil {
		t.Fatalf("UpsertEntry() error = %v", err)
	}

	got, err := env.service.ListEntriesByMood("2026-01", "grateful")
	if err != nil {
		t.Fatalf("ListEntriesByMood() error = %v", err)
	}
	if len(got) != 1 || got[0].EntryDate != "2026-01-02" {
		t.Errorf("ListEntriesByMood() = %d entries", len(got))
	}

	cleared, err := env.service.UpsertEntryMood("2026-01-02", "", "")
	if err != nil {
		t.Fatalf("UpsertEntryMood(clear) error = %v", err)
	}
	if cleared.Mood != nil || cleared.MoodEmoji != nil {
		t.Errorf("mood not cleared: %v %v", cleared.Mood, cleared.MoodEmoji)
	}

	if _, err := env.service.ListEntriesByMood("2026-1", "grateful"); !errors.Is(err, diary.ErrInvalidDate) {
		t.Errorf("ListEntriesByMood(bad month) error = %v, want ErrInvalidDate", err)
	}
}

func TestDiaryService_ListAndDelete(t *testing.T) {
	env := newTestService(t)

	for _, d := range []string{"2025-12-31", "2026-01-01", "2026-01-02"} {
		if _, err := env.service.UpsertEntry(d, `{"text":"`+d+`"}`); err != nil {
			t.Fatalf("UpsertEntry(%s) error = %v", d, err)
		}
	}

	jan, err := env.service.ListEntries("2026-01")
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(jan) != 2 || jan[0].EntryDate != "2026-01-02" || jan[1].EntryDate != "2026-01-01" {
		t.Errorf("ListEntries() dates wrong, want newest first: %v", jan)
	}

	if _, err := env.service.ListEntries("January"); !errors.Is(err, diary.ErrInvalidDate) {
		t.Errorf("ListEntries(bad month) error = %v, want ErrInvalidDate", err)
	}

	deleted, err := env.service.DeleteEntry("2026-01-01")
	if err != nil || !deleted {
		t.Fatalf("DeleteEntry() = %v, %v", deleted, err)
	}
	deleted, err = env.service.DeleteEntry("2026-01-01")
	if err != nil || deleted {
		t.Errorf("second DeleteEntry() = %v, %v; want false, nil", deleted, err)
	}
}

func TestDiaryService_Search(t *testing.T) {
	env := newTestService(t)

	if _, err := env.service.UpsertEntry("2026-01-01", `{"text":"Morning run by the river"}`); err != nil {
		t.Fatal(err)
	}
	if _, err := env.service.UpsertEntry("2026-01-02", `{"text":"Quiet day indoors"}`); err != nil {
		t.Fatal(err)
	}

	got, err := env.service.SearchEntries("river")
	if err != nil {
		t.Fatalf("SearchEntries() error = %v", err)
	}
	if len(got) != 1 || got[0].EntryDate != "2026-01-01" {
		t.Errorf("SearchEntries(river) = %v", got)
	}

	blank, err := env.service.SearchEntries("   ")
	if err != nil || len(blank) != 0 {
		t.Errorf("SearchEntries(blank) = %v, %v", blank, err)
	}

	// Query syntax characters are treated as text.
	if _, err := env.service.SearchEntries(`river" OR (`); err != nil {
		t.Errorf("SearchEntries(special chars) error = %v", err)
	}
}

func TestDiaryService_AIOperations(t *testing.T) {
	env := newTestService(t)

	e, err := env.service.UpsertEntry("2026-01-03", `{"text":"teh cat"}`)
	if err != nil {
		t.Fatal(err)
	}

	op, err := env.service.RecordAIOperation(e.ID, "fix_grammar", "teh cat", "the cat", "openai", "gpt-4o")
	if err != nil {
		t.Fatalf("RecordAIOperation() error = %v", err)
	}
	if op.ID == "" || op.EntryID != e.ID {
		t.Errorf("RecordAIOperation() = %+v", op)
	}

	if _, err := env.service.RecordAIOperation("", "polish", "a", "b", "p", "m"); !errors.Is(err, diary.ErrEntryNotFound) {
		t.Errorf("RecordAIOperation(empty id) error = %v, want ErrEntryNotFound", err)
	}
	if _, err := env.service.RecordAIOperation("no-such-entry", "polish", "a", "b", "p", "m"); err == nil {
		t.Error("RecordAIOperation(unknown entry) expected error")
	}

	ops, err := env.service.ListAIOperations(e.ID)
	if err != nil || len(ops) != 1 {
		t.Fatalf("ListAIOperations() = %d, %v", len(ops), err)
	}

	n, err := env.service.DeleteAIOperationsForEntry(e.ID)
	if err != nil || n != 1 {
		t.Errorf("DeleteAIOperationsForEntry() = %d, %v; want 1", n, err)
	}
}

func TestDiaryService_Settings(t *testing.T) {
	env := newTestService(t)

	if _, ok, err := env.service.GetSetting("theme"); err != nil || ok {
		t.Fatalf("GetSetting(missing) = ok %v, err %v", ok, err)
	}
	if err := env.service.SaveSetting("theme", "dark"); err != nil {
		t.Fatalf("SaveSetting() error = %v", err)
	}
	if err := env.service.SaveSetting("theme", "light"); err != nil {
		t.Fatalf("SaveSetting() error = %v", err)
	}
	v, ok, err := env.service.GetSetting("theme")
	if err != nil || !ok || v != "light" {
		t.Errorf("GetSetting() = %q, %v, %v; want light", v, ok, err)
	}
	if err := env.service.SaveSetting("", "x"); err == nil {
		t.Error("SaveSetting(empty key) expected error")
	}

	type speech struct {
		Voice string  `json:"voice"`
		Rate  float64 `json:"rate"`
	}
	if err := env.service.SaveSettingJSON("speech", speech{Voice: "en-GB", Rate: 1.25}); err != nil {
		t.Fatalf("SaveSettingJSON() error = %v", err)
	}
	var got speech
	ok, err = env.service.GetSettingJSON("speech", &got)
	if err != nil || !ok || got.Voice != "en-GB" || got.Rate != 1.25 {
		t.Errorf("GetSettingJSON() = %+v, %v, %v", got, ok, err)
	}

	if err := env.service.SaveSetting("broken", "{"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.service.GetSettingJSON("broken", &got); !errors.Is(err, diary.ErrSerialization) {
		t.Errorf("GetSettingJSON(broken) error = %v, want ErrSerialization", err)
	}
}

func TestDiaryService_WritingStats(t *testing.T) {
	env := newTestService(t)

	for _, d := range []string{"2025-12-20", "2025-12-21", "2025-12-22", "2026-01-02", "2026-01-03"} {
		if _, err := env.service.UpsertEntry(d, `{}`); err != nil {
			t.Fatal(err)
		}
	}

	st, err := env.service.WritingStats()
	if err != nil {
		t.Fatalf("WritingStats() error = %v", err)
	}
	if st.TotalEntries != 5 {
		t.Errorf("TotalEntries = %d, want 5", st.TotalEntries)
	}
	if st.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", st.CurrentStreak)
	}
	if st.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", st.LongestStreak)
	}
}

func TestDiaryService_WritingStats_StaleStreak(t *testing.T) {
	clock := testutil.NewStubClock(time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))
	db := testutil.NewTestDatabase(t, clock, testutil.NewStubIDGenerator())
	svc := diary.NewDiaryService(db, nil, nil, testutil.NewTestSecretStore(), diary.NewNopLogger(), clock)

	for _, d := range []string{"2026-01-07", "2026-01-08"} {
		if _, err := svc.UpsertEntry(d, `{}`); err != nil {
			t.Fatal(err)
		}
	}

	st, err := svc.WritingStats()
	if err != nil {
		t.Fatalf("WritingStats() error = %v", err)
	}
	if st.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0 when today has no entry", st.CurrentStreak)
	}
	if st.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d, want 2", st.LongestStreak)
	}
}

func TestDiaryService_Secrets(t *testing.T) {
	env := newTestService(t)

	if err := env.service.SetSecret(diary.SecretAIAPIKey, "sk-1"); err != nil {
		t.Fatalf("SetSecret() error = %v", err)
	}
	v, ok, err := env.service.GetSecret(diary.SecretAIAPIKey)
	if err != nil || !ok || v != "sk-1" {
		t.Errorf("GetSecret() = %q, %v, %v", v, ok, err)
	}
	if err := env.service.DeleteSecret(diary.SecretAIAPIKey); err != nil {
		t.Fatalf("DeleteSecret() error = %v", err)
	}
	if _, ok, _ := env.service.GetSecret(diary.SecretAIAPIKey); ok {
		t.Error("GetSecret() after delete reported present")
	}

	bare := diary.NewDiaryService(testutil.NewTestDatabase(t, nil, nil), nil, nil, nil, diary.NewNopLogger(), diary.RealClock{})
	if err := bare.SetSecret(diary.SecretTTSAPIKey, "x"); err == nil {
		t.Error("SetSecret() without a store expected error")
	}
}

func TestDiaryService_IndexMaintenance(t *testing.T) {
	env := newTestService(t)

	for _, d := range []string{"2026-01-01", "2026-01-02"} {
		if _, err := env.service.UpsertEntry(d, `{"text":"note"}`); err != nil {
			t.Fatal(err)
		}
	}

	r, err := env.service.CheckIndex()
	if err != nil {
		t.Fatalf("CheckIndex() error = %v", err)
	}
	if !r.Consistent() || r.Entries != 2 || r.Projections != 2 {
		t.Errorf("CheckIndex() = %+v", r)
	}

	n, err := env.service.RebuildIndex()
	if err != nil || n != 2 {
		t.Errorf("RebuildIndex() = %d, %v; want 2", n, err)
	}

	versions, err := env.service.SchemaVersions()
	if err != nil {
		t.Fatalf("SchemaVersions() error = %v", err)
	}
	if len(versions) == 0 || versions[0].Version != 1 {
		t.Errorf("SchemaVersions() = %v", versions)
	}
}
