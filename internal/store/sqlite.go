package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agenthands/cobalt/internal/core/model"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and if needed creates) a SQLite-backed repository, sets up
// the schema and seeds the reference agents.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL mode for concurrent sessions hitting the same store.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	if err := s.seedAgents(); err != nil {
		return nil, fmt.Errorf("seed agents: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		work_start TEXT NOT NULL DEFAULT '09:00',
		work_end TEXT NOT NULL DEFAULT '17:00'
	);

	CREATE TABLE IF NOT EXISTS appointments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		agent_id INTEGER NOT NULL,
		customer_name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 30,
		type TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(agent_id) REFERENCES agents(id)
	);
	CREATE INDEX IF NOT EXISTS idx_appointments_agent ON appointments(agent_id, start_time);

	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_session ON conversations(session_id, id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// seedAgents inserts the reference roster when the agents table is empty.
func (s *SQLiteStore) seedAgents() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM agents`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	agents := []model.Agent{
		{Name: "Sarah Johnson", Role: model.RoleSales, WorkStart: "09:00", WorkEnd: "17:00"},
		{Name: "Mike Rodriguez", Role: model.RoleSales, WorkStart: "09:00", WorkEnd: "17:00"},
		{Name: "Jennifer Chen", Role: model.RoleSales, WorkStart: "10:00", WorkEnd: "18:00"},
		{Name: "Tom Wilson", Role: model.RoleService, WorkStart: "08:00", WorkEnd: "16:00"},
		{Name: "Lisa Martinez", Role: model.RoleService, WorkStart: "09:00", WorkEnd: "17:00"},
		{Name: "David Park", Role: model.RoleService, WorkStart: "10:00", WorkEnd: "18:00"},
	}
	for _, a := range agents {
		if _, err := s.db.Exec(
			`INSERT INTO agents (name, role, work_start, work_end) VALUES (?, ?, ?, ?)`,
			a.Name, a.Role, a.WorkStart, a.WorkEnd,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (session_id, role, content) VALUES (?, ?, ?)`,
		sessionID, role, content,
	)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadRecentTurns(ctx context.Context, sessionID string, n int) ([]model.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content, created_at FROM conversations
		WHERE session_id = ?
		ORDER BY id DESC LIMIT ?`,
		sessionID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("load turns: %w", err)
	}
	defer rows.Close()

	var turns []model.Turn
	for rows.Next() {
		var t model.Turn
		var createdAt string
		if err := rows.Scan(&t.Role, &t.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn row: %w", err)
		}
		t.CreatedAt = parseDBTime(createdAt)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query returned newest first; callers want oldest first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *SQLiteStore) ListAgentsByRole(ctx context.Context, role string) ([]model.Agent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, work_start, work_end FROM agents
		WHERE role = ? ORDER BY id`,
		role,
	)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []model.Agent
	for rows.Next() {
		var a model.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &a.WorkStart, &a.WorkEnd); err != nil {
			return nil, fmt.Errorf("scan agent row: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// Two intervals conflict iff each starts before the other ends.
const conflictPredicate = `
	agent_id = ?
	AND datetime(start_time) < datetime(?)
	AND datetime(?) < datetime(start_time, '+' || duration_minutes || ' minutes')`

func (s *SQLiteStore) FindConflicts(ctx context.Context, agentID int64, start, end time.Time) ([]model.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, customer_name, start_time, duration_minutes, type
		FROM appointments WHERE`+conflictPredicate,
		agentID, formatDBTime(end), formatDBTime(start),
	)
	if err != nil {
		return nil, fmt.Errorf("find conflicts: %w", err)
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		var a model.Appointment
		var startTime string
		if err := rows.Scan(&a.ID, &a.AgentID, &a.CustomerName, &startTime, &a.DurationMinutes, &a.Type); err != nil {
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		a.StartTime = parseDBTime(startTime)
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (s *SQLiteStore) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	end := appt.StartTime.Add(time.Duration(appt.DurationMinutes) * time.Minute)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback()

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments WHERE`+conflictPredicate,
		appt.AgentID, formatDBTime(end), formatDBTime(appt.StartTime),
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("booking conflict check: %w", err)
	}
	if conflicts > 0 {
		return ErrSlotConflict
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO appointments (agent_id, customer_name, start_time, duration_minutes, type)
		VALUES (?, ?, ?, ?, ?)`,
		appt.AgentID, appt.CustomerName, formatDBTime(appt.StartTime), appt.DurationMinutes, appt.Type,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		appt.ID = id
	}
	return nil
}

func (s *SQLiteStore) ListUpcomingAppointments(ctx context.Context, limit int) ([]model.UpcomingAppointment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.start_time, ag.name
		FROM appointments a JOIN agents ag ON a.agent_id = ag.id
		WHERE datetime(a.start_time) >= datetime('now')
		ORDER BY datetime(a.start_time) ASC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming: %w", err)
	}
	defer rows.Close()

	var upcoming []model.UpcomingAppointment
	for rows.Next() {
		var u model.UpcomingAppointment
		var startTime string
		if err := rows.Scan(&startTime, &u.AgentName); err != nil {
			return nil, fmt.Errorf("scan upcoming row: %w", err)
		}
		u.StartTime = parseDBTime(startTime)
		upcoming = append(upcoming, u)
	}
	return upcoming, rows.Err()
}

func formatDBTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseDBTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// SQLite CURRENT_TIMESTAMP format.
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
