package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/ledger"
)

// recordingConn is a database/sql driver connection that logs every
// statement and answers queries from respond.
type recordingConn struct {
	mu      sync.Mutex
	log     []string
	respond func(query string) ([]string, [][]driver.Value, error)
}

func (c *recordingConn) record(entry string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, entry)
}

func (c *recordingConn) statements() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.log...)
}

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare is not supported")
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) Begin() (driver.Tx, error) {
	c.record("BEGIN")
	return recordingTx{conn: c}, nil
}

func (c *recordingConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.record(query)
	cols, rows, err := c.respond(query)
	if err != nil {
		return nil, err
	}
	return &recordedRows{cols: cols, rows: rows}, nil
}

func (c *recordingConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.record(query)
	if _, _, err := c.respond(query); err != nil {
		return nil, err
	}
	return driver.RowsAffected(0), nil
}

type recordingTx struct {
	conn *recordingConn
}

func (t recordingTx) Commit() error {
	t.conn.record("COMMIT")
	return nil
}

func (t recordingTx) Rollback() error {
	t.conn.record("ROLLBACK")
	return nil
}

type recordedRows struct {
	cols []string
	rows [][]driver.Value
	next int
}

func (r *recordedRows) Columns() []string { return r.cols }

func (r *recordedRows) Close() error { return nil }

func (r *recordedRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}

type recordingConnector struct {
	conn *recordingConn
}

func (c recordingConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }

func (c recordingConnector) Driver() driver.Driver { return recordingDriver(c) }

type recordingDriver recordingConnector

func (d recordingDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func newRecordingLedger(t *testing.T, respond func(query string) ([]string, [][]driver.Value, error)) (*LedgerStore, *recordingConn) {
	t.Helper()
	conn := &recordingConn{respond: respond}
	db := sql.OpenDB(recordingConnector{conn: conn})
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return NewLedgerStore(sqlx.NewDb(db, "postgres")), conn
}

// tableRow renders one row in cols order, filling unset columns with a
// zero value of the column's type.
func tableRow(cols []string, set map[string]driver.Value) []driver.Value {
	out := make([]driver.Value, len(cols))
	for i, col := range cols {
		if v, ok := set[col]; ok {
			out[i] = v
			continue
		}
		switch {
		case col == "winner_id" || col == "loser_id":
			out[i] = nil
		case strings.HasSuffix(col, "_at") || strings.HasSuffix(col, "_date"):
			out[i] = time.Date(2026, time.March, 3, 19, 30, 0, 0, time.UTC)
		case col == "completed" || col == "reminder_sent" || col == "email_notifications" || col == "match_reminders":
			out[i] = false
		case col == "first_name" || col == "last_name" || col == "email" || col == "phone":
			out[i] = ""
		default:
			out[i] = int64(0)
		}
	}
	return out
}

func fixtureRow(id, player1, player2 int64) []driver.Value {
	return tableRow(fixtureSelectColumns, map[string]driver.Value{
		"id": id, "session_id": int64(1), "division_id": int64(1),
		"player1_id": player1, "player2_id": player2,
		"player1_rating": int64(600), "player2_rating": int64(600),
	})
}

func playerRow(id int64) []driver.Value {
	return tableRow(playerSelectColumns, map[string]driver.Value{"id": id, "rating": int64(600)})
}

func fixtureSelect(suffix string) string {
	return "SELECT " + strings.Join(fixtureSelectColumns, ", ") + " FROM fixtures " + suffix
}

func playerSelect(suffix string) string {
	return "SELECT " + strings.Join(playerSelectColumns, ", ") + " FROM players " + suffix
}

func TestLedgerTx_LockFixtureLocksPlayersFirst(t *testing.T) {
	store, conn := newRecordingLedger(t, func(query string) ([]string, [][]driver.Value, error) {
		switch {
		case strings.Contains(query, "FROM fixtures"):
			return fixtureSelectColumns, [][]driver.Value{fixtureRow(7, 4, 2)}, nil
		case strings.Contains(query, "FROM players"):
			return playerSelectColumns, [][]driver.Value{playerRow(2), playerRow(4)}, nil
		}
		return nil, nil, nil
	})

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx ledger.Tx) error {
		fx, players, ok, err := tx.LockFixture(ctx, 7)
		if err != nil || !ok {
			t.Fatalf("lock fixture: ok=%v err=%v", ok, err)
		}
		if fx.ID != 7 || len(players) != 2 || players[0].ID != 2 || players[1].ID != 4 {
			t.Fatalf("unexpected lock result: fixture=%+v players=%+v", fx, players)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}

	want := []string{
		"BEGIN",
		fixtureSelect("WHERE id = $1"),
		playerSelect("WHERE id = ANY($1) ORDER BY id FOR UPDATE"),
		fixtureSelect("WHERE id = $1 FOR UPDATE"),
		"COMMIT",
	}
	if diff := cmp.Diff(want, conn.statements()); diff != "" {
		t.Fatalf("statement order mismatch (-want +got):\n%s", diff)
	}
}

func TestLedgerTx_LockFixtureGoneAfterPlayerLock(t *testing.T) {
	reads := 0
	store, conn := newRecordingLedger(t, func(query string) ([]string, [][]driver.Value, error) {
		switch {
		case strings.Contains(query, "FROM fixtures"):
			reads++
			if reads > 1 {
				return fixtureSelectColumns, nil, nil
			}
			return fixtureSelectColumns, [][]driver.Value{fixtureRow(7, 2, 4)}, nil
		case strings.Contains(query, "FROM players"):
			return playerSelectColumns, [][]driver.Value{playerRow(2), playerRow(4)}, nil
		}
		return nil, nil, nil
	})

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx ledger.Tx) error {
		_, players, ok, err := tx.LockFixture(ctx, 7)
		if err != nil || ok || players != nil {
			t.Fatalf("expected fixture dropped after player lock, got ok=%v players=%v err=%v", ok, players, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}
	if got := conn.statements(); len(got) != 5 {
		t.Fatalf("expected the locked re-read to run, got %q", got)
	}
}

func TestLedgerTx_ScheduleSharesPlayersBeforeReplacing(t *testing.T) {
	store, conn := newRecordingLedger(t, func(query string) ([]string, [][]driver.Value, error) {
		switch {
		case strings.HasPrefix(query, "INSERT INTO fixtures"):
			return fixtureSelectColumns, [][]driver.Value{fixtureRow(20, 1, 3)}, nil
		case strings.Contains(query, "FROM fixtures"):
			return fixtureSelectColumns, [][]driver.Value{fixtureRow(9, 3, 1)}, nil
		case strings.Contains(query, "FROM players"):
			return playerSelectColumns, [][]driver.Value{playerRow(1), playerRow(3)}, nil
		}
		return nil, nil, nil
	})

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx ledger.Tx) error {
		pending, err := tx.ListPendingFixturesBySession(ctx, 1)
		if err != nil {
			return err
		}
		if _, err := tx.SharePlayers(ctx, []int64{3, 1, pending[0].Player1ID}); err != nil {
			return err
		}
		stored, err := tx.ReplacePendingFixtures(ctx, 1, []fixture.Fixture{{DivisionID: 1, Player1ID: 1, Player2ID: 3}})
		if err != nil {
			return err
		}
		if len(stored) != 1 || stored[0].ID != 20 {
			t.Fatalf("unexpected stored fixtures: %+v", stored)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}

	got := conn.statements()
	if len(got) != 6 {
		t.Fatalf("unexpected statements: %q", got)
	}
	wantPrefix := []string{
		"BEGIN",
		fixtureSelect("WHERE session_id = $1 AND completed = $2 ORDER BY scheduled_date, id"),
		playerSelect("WHERE id = ANY($1) ORDER BY id FOR SHARE"),
		"DELETE FROM fixtures WHERE session_id = $1 AND completed = $2",
	}
	if diff := cmp.Diff(wantPrefix, got[:4]); diff != "" {
		t.Fatalf("statement order mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(got[4], "INSERT INTO fixtures") || got[5] != "COMMIT" {
		t.Fatalf("expected insert then commit, got %q", got[4:])
	}
}

func TestLedgerStore_RetriesDeadlock(t *testing.T) {
	failures := 1
	store, conn := newRecordingLedger(t, func(query string) ([]string, [][]driver.Value, error) {
		if strings.Contains(query, "FROM players") && failures > 0 {
			failures--
			return nil, nil, &pq.Error{Code: deadlockDetected}
		}
		return playerSelectColumns, [][]driver.Value{playerRow(1)}, nil
	})

	attempts := 0
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx ledger.Tx) error {
		attempts++
		_, err := tx.SharePlayers(ctx, []int64{1})
		return err
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected one retry, got %d attempts", attempts)
	}

	want := []string{
		"BEGIN", playerSelect("WHERE id = ANY($1) ORDER BY id FOR SHARE"), "ROLLBACK",
		"BEGIN", playerSelect("WHERE id = ANY($1) ORDER BY id FOR SHARE"), "COMMIT",
	}
	if diff := cmp.Diff(want, conn.statements()); diff != "" {
		t.Fatalf("statement log mismatch (-want +got):\n%s", diff)
	}
}

func TestLedgerStore_GivesUpAfterMaxAttempts(t *testing.T) {
	store, _ := newRecordingLedger(t, func(string) ([]string, [][]driver.Value, error) {
		return nil, nil, &pq.Error{Code: serializationFailure}
	})

	attempts := 0
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx ledger.Tx) error {
		attempts++
		_, err := tx.SharePlayers(ctx, []int64{1})
		return err
	})
	if !isRetryableTx(err) {
		t.Fatalf("expected serialization failure to surface, got %v", err)
	}
	if attempts != maxLedgerAttempts {
		t.Fatalf("expected %d attempts, got %d", maxLedgerAttempts, attempts)
	}
}

func TestLedgerStore_DoesNotRetryOtherErrors(t *testing.T) {
	store, _ := newRecordingLedger(t, func(string) ([]string, [][]driver.Value, error) {
		return nil, nil, nil
	})

	boom := errors.New("boom")
	attempts := 0
	err := store.WithinTx(context.Background(), func(context.Context, ledger.Tx) error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) || attempts != 1 {
		t.Fatalf("expected a single failed attempt, got attempts=%d err=%v", attempts, err)
	}
}
