package server

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Repository struct {
	Db *sql.DB
}

// OpenRepository opens (and creates) the sqlite database at path.
func OpenRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared and serialises writes
	db.SetMaxOpenConns(1)
	repo, err := NewRepository(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func NewRepository(db *sql.DB) (*Repository, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			password TEXT
		);
		CREATE TABLE IF NOT EXISTS run (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			created INTEGER NOT NULL,
			rows INTEGER NOT NULL,
			cols INTEGER NOT NULL,
			generations INTEGER NOT NULL,
			score INTEGER NOT NULL,
			pieces INTEGER NOT NULL,
			image TEXT NOT NULL,
			board TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS run_created ON run(created);
	`)
	if err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Repository{Db: db}, nil
}

func (repo *Repository) Close() error {
	return repo.Db.Close()
}

type User struct {
	Id       int64
	Name     string
	Password sql.NullString
}

func (repo *Repository) AddUser(name, password string) (*User, error) {
	res, err := repo.Db.Exec("INSERT INTO user(name, password) values(?, ?)", name, password)
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	id, _ := res.LastInsertId()
	return &User{Id: id, Name: name, Password: sql.NullString{String: password, Valid: true}}, nil
}

func (repo *Repository) SetPassword(user *User, password string) error {
	return repo.execWrap("UPDATE user SET password = ? WHERE id = ?", password, user.Id)
}

func (repo *Repository) FindUserByName(name string) *User {
	row := repo.Db.QueryRow("SELECT id, name, password FROM user where name = ? LIMIT 1", name)
	var user User
	if err := row.Scan(&user.Id, &user.Name, &user.Password); err != nil {
		if err != sql.ErrNoRows {
			fmt.Printf("error in db execution: %v\n", err)
		}
		return nil
	}
	return &user
}

// Run is a finished solve as stored and served.
type Run struct {
	Id          string    `json:"id"`
	Owner       string    `json:"owner"`
	Created     time.Time `json:"created"`
	Rows        int       `json:"rows"`
	Cols        int       `json:"cols"`
	Generations int       `json:"generations"`
	Score       int       `json:"score"`
	Pieces      int       `json:"pieces"`
	Image       string    `json:"image,omitempty"`
	Board       string    `json:"board,omitempty"`
}

func (repo *Repository) SaveRun(run *Run) error {
	return repo.execWrap(`INSERT INTO run(id, owner, created, rows, cols, generations, score, pieces, image, board)
		values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Id, run.Owner, run.Created.UnixMilli(), run.Rows, run.Cols, run.Generations,
		run.Score, run.Pieces, run.Image, run.Board)
}

// FindRun returns nil without error when no run has the id.
func (repo *Repository) FindRun(id string) (*Run, error) {
	row := repo.Db.QueryRow(`SELECT id, owner, created, rows, cols, generations, score, pieces, image, board
		FROM run WHERE id = ? LIMIT 1`, id)
	run, err := scanRun(row.Scan, true)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	return run, nil
}

// ListRuns returns the newest runs first, without their image and board.
func (repo *Repository) ListRuns(limit int) ([]Run, error) {
	rows, err := repo.Db.Query(`SELECT id, owner, created, rows, cols, generations, score, pieces
		FROM run ORDER BY created DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows.Scan, false)
		if err != nil {
			return nil, fmt.Errorf("error in db execution: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanRun(scan func(dest ...any) error, full bool) (*Run, error) {
	var run Run
	var created int64
	dest := []any{&run.Id, &run.Owner, &created, &run.Rows, &run.Cols, &run.Generations, &run.Score, &run.Pieces}
	if full {
		dest = append(dest, &run.Image, &run.Board)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}
	run.Created = time.UnixMilli(created).UTC()
	return &run, nil
}

func (repo *Repository) execWrap(query string, args ...any) error {
	if _, err := repo.Db.Exec(query, args...); err != nil {
		return fmt.Errorf("error in db execution: %w", err)
	}
	return nil
}
