package river_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	goriver "github.com/riverqueue/river"

	_ "modernc.org/sqlite"

	riveradapter "github.com/neomorfeo/onboardiq/internal/adapter/river"
	"github.com/neomorfeo/onboardiq/internal/domain"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Send(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := t.TempDir() + "/river_test.db"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		t.Fatalf("setting WAL: %v", err)
	}

	return db
}

func startClient(t *testing.T, db *sql.DB, notifier domain.Notifier) *riveradapter.Client {
	t.Helper()

	client, err := riveradapter.Setup(context.Background(), db, notifier)
	if err != nil {
		t.Fatalf("river setup: %v", err)
	}
	return client
}

func TestQueue_Enqueue_RedeliversNotification(t *testing.T) {
	db := setupTestDB(t)
	notifier := &recordingNotifier{}
	client := startClient(t, db, notifier)
	ctx := context.Background()

	// Subscribe to job completions before starting so we don't miss events.
	subscribeChan, subscribeCancel := client.Subscribe(goriver.EventKindJobCompleted)
	defer subscribeCancel()

	if err := client.Start(ctx); err != nil {
		t.Fatalf("river start: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Stop(stopCtx); err != nil {
			t.Errorf("river stop: %v", err)
		}
	})

	queue := riveradapter.NewQueue(client, 5)
	err := queue.Enqueue(ctx, domain.Notification{
		Template:  domain.TemplateRejection,
		Recipient: "a@acme.com",
		Data:      map[string]string{"tenant_name": "Acme"},
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	select {
	case event := <-subscribeChan:
		if event.Job.Kind != "notification.retry" {
			t.Errorf("job kind = %q, want %q", event.Job.Kind, "notification.retry")
		}
		args := string(event.Job.EncodedArgs)
		for _, want := range []string{`"template":"rejection"`, `"recipient":"a@acme.com"`, `"tenant_name":"Acme"`} {
			if !strings.Contains(args, want) {
				t.Errorf("encoded args missing %s, got: %s", want, args)
			}
		}
		if event.Job.MaxAttempts != 5 {
			t.Errorf("MaxAttempts = %d, want 5", event.Job.MaxAttempts)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}

	if notifier.count() != 1 {
		t.Errorf("notifier called %d times, want 1", notifier.count())
	}
}

func TestQueue_Enqueue_RefusesSecrets(t *testing.T) {
	db := setupTestDB(t)
	client := startClient(t, db, &recordingNotifier{})

	queue := riveradapter.NewQueue(client, 5)
	err := queue.Enqueue(context.Background(), domain.Notification{
		Template:  domain.TemplateApproval,
		Recipient: "a@acme.com",
		Secret:    "pa55!Word",
	})
	if !errors.Is(err, riveradapter.ErrSensitiveNotification) {
		t.Fatalf("expected ErrSensitiveNotification, got %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM river_job`).Scan(&n); err != nil {
		t.Fatalf("counting jobs: %v", err)
	}
	if n != 0 {
		t.Errorf("river_job has %d rows, want 0", n)
	}
}
