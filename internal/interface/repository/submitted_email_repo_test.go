package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inboxpert-service/internal/domain/entity"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type capturedInsert struct {
	sql  string
	vars []interface{}
	rows []SubmittedEmails
}

// newDryRunDB opens a postgres dialector that builds statements without a server
// and records every insert.
func newDryRunDB(t *testing.T, insertErr error) (*gorm.DB, *[]capturedInsert) {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test sslmode=disable"), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	var inserts []capturedInsert
	if insertErr != nil {
		db.Callback().Create().Before("gorm:create").Register("test:fail", func(tx *gorm.DB) {
			tx.AddError(insertErr)
		})
	}
	db.Callback().Create().After("gorm:create").Register("test:capture", func(tx *gorm.DB) {
		c := capturedInsert{sql: tx.Statement.SQL.String(), vars: tx.Statement.Vars}
		if rows, ok := tx.Statement.Dest.(*[]SubmittedEmails); ok {
			c.rows = append(c.rows, *rows...)
		}
		inserts = append(inserts, c)
	})

	return db, &inserts
}

func TestToSubmittedEmail(t *testing.T) {
	email := entity.SimplifiedEmail{
		ID:         "m1",
		Subject:    "Invoice",
		Body:       "<p>due</p>",
		Sender:     "billing@x.com",
		Recipients: []string{"a@x.com", "a@x.com"},
		Headers:    map[string]string{"Subject": "Invoice"},
	}

	got, err := toSubmittedEmail("run-1", email)
	if err != nil {
		t.Fatalf("toSubmittedEmail: %v", err)
	}

	if got.RunID != "run-1" || got.EmailID != "m1" {
		t.Errorf("ids = (%q, %q), want (run-1, m1)", got.RunID, got.EmailID)
	}
	if got.Body != "<p>due</p>" || got.Subject != "Invoice" || got.Sender != "billing@x.com" {
		t.Errorf("scalar fields not copied: %+v", got)
	}
	if want := `["a@x.com","a@x.com"]`; got.Recipients != want {
		t.Errorf("Recipients = %s, want %s", got.Recipients, want)
	}
	if want := `{"Subject":"Invoice"}`; got.Headers != want {
		t.Errorf("Headers = %s, want %s", got.Headers, want)
	}
}

func TestSaveBatchEmptyIsNoop(t *testing.T) {
	// No database is touched for an empty batch.
	repo := NewGormSubmittedEmailRepository(nil)
	if err := repo.SaveBatch(context.Background(), "run-1", nil); err != nil {
		t.Errorf("SaveBatch(nil) = %v, want nil", err)
	}
}

func TestSubmittedEmailsTableName(t *testing.T) {
	if got := (SubmittedEmails{}).TableName(); got != "submitted_emails" {
		t.Errorf("TableName() = %q, want submitted_emails", got)
	}
}

func TestSaveBatchInsertsOneRowPerEmail(t *testing.T) {
	db, inserts := newDryRunDB(t, nil)
	repo := NewGormSubmittedEmailRepository(db)

	emails := []entity.SimplifiedEmail{
		{ID: "m1", Subject: "one", Sender: "a@x.com", Recipients: []string{"me@x.com"}, Headers: map[string]string{"Subject": "one"}},
		{ID: "m2", Subject: "two", Sender: "b@x.com", Recipients: []string{}, Headers: map[string]string{}},
	}
	if err := repo.SaveBatch(context.Background(), "run-7", emails); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}

	if len(*inserts) != 1 {
		t.Fatalf("got %d insert statements, want 1", len(*inserts))
	}
	insert := (*inserts)[0]
	if !strings.HasPrefix(insert.sql, `INSERT INTO "submitted_emails"`) {
		t.Errorf("sql = %s, want insert into submitted_emails", insert.sql)
	}
	for _, column := range []string{`"run_id"`, `"email_id"`, `"content"`, `"recipients"`, `"headers"`} {
		if !strings.Contains(insert.sql, column) {
			t.Errorf("sql = %s, missing column %s", insert.sql, column)
		}
	}

	if len(insert.rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(insert.rows))
	}
	for i, row := range insert.rows {
		if row.RunID != "run-7" || row.EmailID != emails[i].ID {
			t.Errorf("row %d ids = (%q, %q), want (run-7, %q)", i, row.RunID, row.EmailID, emails[i].ID)
		}
	}
	if insert.rows[0].Recipients != `["me@x.com"]` || insert.rows[0].Headers != `{"Subject":"one"}` {
		t.Errorf("row 0 json = %s %s", insert.rows[0].Recipients, insert.rows[0].Headers)
	}
	if insert.rows[1].Recipients != `[]` || insert.rows[1].Headers != `{}` {
		t.Errorf("row 1 json = %s %s", insert.rows[1].Recipients, insert.rows[1].Headers)
	}

	runIDs := 0
	for _, v := range insert.vars {
		if v == "run-7" {
			runIDs++
		}
	}
	if runIDs != 2 {
		t.Errorf("run_id bound %d times, want 2", runIDs)
	}
}

func TestSaveBatchWrapsInsertError(t *testing.T) {
	insertErr := errors.New("connection refused")
	db, _ := newDryRunDB(t, insertErr)
	repo := NewGormSubmittedEmailRepository(db)

	err := repo.SaveBatch(context.Background(), "run-7", []entity.SimplifiedEmail{{ID: "m1"}})
	if !errors.Is(err, insertErr) {
		t.Fatalf("SaveBatch() error = %v, want %v", err, insertErr)
	}
	if !strings.Contains(err.Error(), "run run-7") {
		t.Errorf("error = %v, want it to name the run", err)
	}
}
