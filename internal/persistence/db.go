// Package persistence provides SQLite-based storage for simulation runs:
// run metadata, the per-tick history log, notable events and the final
// agent roster.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/predictive-agency/internal/agents"
	"github.com/talgya/predictive-agency/internal/boundary"
	"github.com/talgya/predictive-agency/internal/config"
	"github.com/talgya/predictive-agency/internal/engine"
	"github.com/talgya/predictive-agency/internal/world"
)

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Run is the metadata row for one stored simulation.
type Run struct {
	ID        string `db:"id"`
	Scenario  string `db:"scenario"`
	Seed      int64  `db:"seed"`
	Ticks     int    `db:"ticks"`
	Config    string `db:"config_json"`
	CreatedAt int64  `db:"created_at"` // unix nanoseconds
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		r_bar REAL NOT NULL,
		reward REAL NOT NULL,
		network_reward REAL NOT NULL,
		alignment REAL NOT NULL,
		boundary INTEGER NOT NULL,
		demand REAL NOT NULL,
		capacity REAL NOT NULL,
		safety REAL NOT NULL,
		surplus REAL NOT NULL,
		trust REAL NOT NULL,
		congestion REAL NOT NULL,
		total_energy REAL NOT NULL,
		avg_agency REAL NOT NULL,
		r_bar_b0 REAL NOT NULL,
		r_bar_b1 REAL NOT NULL,
		r_bar_b2 REAL NOT NULL,
		r_inst_b0 REAL NOT NULL,
		r_inst_b1 REAL NOT NULL,
		r_inst_b2 REAL NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agents (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		type TEXT NOT NULL,
		initial_take_rate REAL NOT NULL,
		initial_service_level REAL NOT NULL,
		energy REAL NOT NULL,
		power REAL NOT NULL,
		agency REAL NOT NULL,
		contribution REAL NOT NULL,
		action_json TEXT NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun writes or replaces a run's metadata row.
func (db *DB) SaveRun(id, scenario string, cfg config.Config, ticks int) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = db.conn.Exec(
		`INSERT OR REPLACE INTO runs (id, scenario, seed, ticks, config_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, scenario, cfg.Seed, ticks, string(cfgJSON), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", id, err)
	}
	return nil
}

// historyRow is the flat storage form of engine.HistoryEntry.
type historyRow struct {
	RunID         string  `db:"run_id"`
	Tick          int     `db:"tick"`
	RBar          float64 `db:"r_bar"`
	Reward        float64 `db:"reward"`
	NetworkReward float64 `db:"network_reward"`
	Alignment     float64 `db:"alignment"`
	Boundary      uint8   `db:"boundary"`
	Demand        float64 `db:"demand"`
	Capacity      float64 `db:"capacity"`
	Safety        float64 `db:"safety"`
	Surplus       float64 `db:"surplus"`
	Trust         float64 `db:"trust"`
	Congestion    float64 `db:"congestion"`
	TotalEnergy   float64 `db:"total_energy"`
	AvgAgency     float64 `db:"avg_agency"`
	RBarB0        float64 `db:"r_bar_b0"`
	RBarB1        float64 `db:"r_bar_b1"`
	RBarB2        float64 `db:"r_bar_b2"`
	RInstB0       float64 `db:"r_inst_b0"`
	RInstB1       float64 `db:"r_inst_b1"`
	RInstB2       float64 `db:"r_inst_b2"`
}

func toRow(runID string, h engine.HistoryEntry) historyRow {
	return historyRow{
		RunID:         runID,
		Tick:          h.Tick,
		RBar:          h.RBar,
		Reward:        h.Reward,
		NetworkReward: h.NetworkReward,
		Alignment:     h.Alignment,
		Boundary:      uint8(h.Boundary),
		Demand:        h.State.Demand,
		Capacity:      h.State.Capacity,
		Safety:        h.State.Safety,
		Surplus:       h.State.Surplus,
		Trust:         h.State.Trust,
		Congestion:    h.State.Congestion,
		TotalEnergy:   h.TotalEnergy,
		AvgAgency:     h.AvgAgency,
		RBarB0:        h.RBarB[boundary.B0],
		RBarB1:        h.RBarB[boundary.B1],
		RBarB2:        h.RBarB[boundary.B2],
		RInstB0:       h.RInstB[boundary.B0],
		RInstB1:       h.RInstB[boundary.B1],
		RInstB2:       h.RInstB[boundary.B2],
	}
}

func (r historyRow) entry() engine.HistoryEntry {
	return engine.HistoryEntry{
		Tick:          r.Tick,
		RBar:          r.RBar,
		Reward:        r.Reward,
		NetworkReward: r.NetworkReward,
		Alignment:     r.Alignment,
		Boundary:      boundary.Level(r.Boundary),
		State: world.GlobalState{
			Demand:     r.Demand,
			Capacity:   r.Capacity,
			Safety:     r.Safety,
			Surplus:    r.Surplus,
			Trust:      r.Trust,
			Congestion: r.Congestion,
		},
		TotalEnergy: r.TotalEnergy,
		AvgAgency:   r.AvgAgency,
		RBarB:       [boundary.NumLevels]float64{r.RBarB0, r.RBarB1, r.RBarB2},
		RInstB:      [boundary.NumLevels]float64{r.RInstB0, r.RInstB1, r.RInstB2},
	}
}

// SaveHistory appends history entries for a run. Entries already stored
// for the same tick are replaced.
func (db *DB) SaveHistory(runID string, history []engine.HistoryEntry) error {
	if len(history) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamed(`INSERT OR REPLACE INTO history
		(run_id, tick, r_bar, reward, network_reward, alignment, boundary,
		 demand, capacity, safety, surplus, trust, congestion,
		 total_energy, avg_agency,
		 r_bar_b0, r_bar_b1, r_bar_b2, r_inst_b0, r_inst_b1, r_inst_b2)
		VALUES
		(:run_id, :tick, :r_bar, :reward, :network_reward, :alignment, :boundary,
		 :demand, :capacity, :safety, :surplus, :trust, :congestion,
		 :total_energy, :avg_agency,
		 :r_bar_b0, :r_bar_b1, :r_bar_b2, :r_inst_b0, :r_inst_b1, :r_inst_b2)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range history {
		if _, err := stmt.Exec(toRow(runID, h)); err != nil {
			return fmt.Errorf("insert history tick %d: %w", h.Tick, err)
		}
	}

	return tx.Commit()
}

// SaveEvents writes a run's events (full replace).
func (db *DB) SaveEvents(runID string, events []engine.Event) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events WHERE run_id = ?", runID); err != nil {
		return err
	}

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, tick, description, category) VALUES (?, ?, ?, ?)",
			runID, e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveAgents writes the roster for a run (full replace).
func (db *DB) SaveAgents(runID string, roster []*agents.Agent) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM agents WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO agents
		(run_id, id, type, initial_take_rate, initial_service_level,
		 energy, power, agency, contribution, action_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range roster {
		actionJSON, _ := json.Marshal(a.Action)
		_, err := stmt.Exec(
			runID, a.ID, string(a.Type), a.InitialTakeRate, a.InitialServiceLevel,
			a.Local.Energy, a.Power, a.Agency, a.Contribution, string(actionJSON),
		)
		if err != nil {
			return fmt.Errorf("insert agent %d: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// SaveSimulation performs a full save of a finished (or paused) run.
func (db *DB) SaveSimulation(runID, scenario string, sim *engine.Simulation) error {
	slog.Info("saving run", "run", runID, "ticks", sim.Tick(), "agents", len(sim.Agents()))

	if err := db.SaveRun(runID, scenario, sim.Config(), sim.Tick()); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := db.SaveHistory(runID, sim.History()); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	if err := db.SaveEvents(runID, sim.Events()); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveAgents(runID, sim.Agents()); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}

	slog.Info("run saved", "run", runID)
	return nil
}

// LoadHistory returns a run's history in tick order.
func (db *DB) LoadHistory(runID string) ([]engine.HistoryEntry, error) {
	var rows []historyRow
	err := db.conn.Select(&rows, "SELECT * FROM history WHERE run_id = ? ORDER BY tick", runID)
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", runID, err)
	}
	out := make([]engine.HistoryEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out, nil
}

// LoadEvents returns a run's events in insertion order.
func (db *DB) LoadEvents(runID string) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events WHERE run_id = ? ORDER BY id",
		runID,
	)
	return events, err
}

// Created returns the run's creation time.
func (r Run) Created() time.Time {
	return time.Unix(0, r.CreatedAt)
}

// GetRun returns one run's metadata.
func (db *DB) GetRun(id string) (Run, error) {
	var r Run
	err := db.conn.Get(&r, "SELECT * FROM runs WHERE id = ?", id)
	return r, err
}

// ListRuns returns the most recent runs first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	return runs, err
}
