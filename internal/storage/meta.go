package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/wagnerlima/kg-notebook/internal/models"
)

// MetaStore manages the central _meta.db database that tracks all notebooks.
// The markdown documents themselves live in per-notebook directories under
// the data dir; the registry only records which directory belongs to whom.
type MetaStore struct {
	db      *sql.DB
	dataDir string
}

// OpenMeta opens (or creates) the _meta.db database and runs migrations.
func OpenMeta(dataDir string) (*MetaStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dataDir, "notebooks"), 0o755); err != nil {
		return nil, fmt.Errorf("create notebooks dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dataDir, "archive"), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "_meta.db")
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open meta db: %w", err)
	}

	if _, err := db.Exec(MetaSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate meta db: %w", err)
	}

	return &MetaStore{db: db, dataDir: dataDir}, nil
}

// Close closes the database connection.
func (m *MetaStore) Close() error {
	return m.db.Close()
}

// DataDir returns the base data directory.
func (m *MetaStore) DataDir() string {
	return m.dataDir
}

// CreateNotebook creates a new notebook entry and its document directory.
func (m *MetaStore) CreateNotebook(name, description string) (*models.Notebook, error) {
	id := uuid.New().String()
	dirPath := filepath.Join("notebooks", id)

	_, err := m.db.Exec(
		`INSERT INTO notebooks (id, name, description, dir_path, status) VALUES (?, ?, ?, ?, 'active')`,
		id, name, description, dirPath,
	)
	if err != nil {
		return nil, fmt.Errorf("insert notebook: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(m.dataDir, dirPath), 0o755); err != nil {
		// Roll the registry entry back if the directory cannot be created.
		m.db.Exec(`DELETE FROM notebooks WHERE id = ?`, id)
		return nil, fmt.Errorf("create notebook dir: %w", err)
	}

	return m.GetNotebookByName(name)
}

// GetNotebookByName looks up a notebook by its unique name.
func (m *MetaStore) GetNotebookByName(name string) (*models.Notebook, error) {
	row := m.db.QueryRow(
		`SELECT id, name, description, dir_path, status, created_at, updated_at FROM notebooks WHERE name = ?`,
		name,
	)
	return scanNotebook(row)
}

// GetNotebookByID looks up a notebook by its UUID.
func (m *MetaStore) GetNotebookByID(id string) (*models.Notebook, error) {
	row := m.db.QueryRow(
		`SELECT id, name, description, dir_path, status, created_at, updated_at FROM notebooks WHERE id = ?`,
		id,
	)
	return scanNotebook(row)
}

// ListNotebooks returns notebooks filtered by status. Use "all" for no filter.
func (m *MetaStore) ListNotebooks(status string) ([]models.Notebook, error) {
	var rows *sql.Rows
	var err error

	if status == "all" {
		rows, err = m.db.Query(
			`SELECT id, name, description, dir_path, status, created_at, updated_at FROM notebooks ORDER BY name`,
		)
	} else {
		rows, err = m.db.Query(
			`SELECT id, name, description, dir_path, status, created_at, updated_at FROM notebooks WHERE status = ? ORDER BY name`,
			status,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	defer rows.Close()

	var notebooks []models.Notebook
	for rows.Next() {
		var n models.Notebook
		if err := rows.Scan(&n.ID, &n.Name, &n.Description, &n.DirPath, &n.Status, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		notebooks = append(notebooks, n)
	}
	return notebooks, rows.Err()
}

// ArchiveNotebook archives a notebook: sets status to 'archived' and moves
// its document directory from notebooks/ to archive/.
func (m *MetaStore) ArchiveNotebook(name string) (*models.Notebook, error) {
	nb, err := m.GetNotebookByName(name)
	if err != nil {
		return nil, err
	}
	if nb.Status == "archived" {
		return nil, fmt.Errorf("notebook %q is already archived", name)
	}

	oldPath := filepath.Join(m.dataDir, nb.DirPath)
	newRelPath := filepath.Join("archive", filepath.Base(nb.DirPath))
	newPath := filepath.Join(m.dataDir, newRelPath)

	if err := os.Rename(oldPath, newPath); err != nil {
		return nil, fmt.Errorf("move notebook dir to archive: %w", err)
	}

	_, err = m.db.Exec(
		`UPDATE notebooks SET status = 'archived', dir_path = ?, updated_at = datetime('now') WHERE name = ?`,
		newRelPath, name,
	)
	if err != nil {
		// Try to undo the directory move
		os.Rename(newPath, oldPath)
		return nil, fmt.Errorf("update notebook status: %w", err)
	}

	return m.GetNotebookByName(name)
}

// RestoreNotebook restores an archived notebook back to active status.
func (m *MetaStore) RestoreNotebook(name string) (*models.Notebook, error) {
	nb, err := m.GetNotebookByName(name)
	if err != nil {
		return nil, err
	}
	if nb.Status != "archived" {
		return nil, fmt.Errorf("notebook %q is not archived", name)
	}

	oldPath := filepath.Join(m.dataDir, nb.DirPath)
	newRelPath := filepath.Join("notebooks", filepath.Base(nb.DirPath))
	newPath := filepath.Join(m.dataDir, newRelPath)

	if err := os.Rename(oldPath, newPath); err != nil {
		return nil, fmt.Errorf("move notebook dir from archive: %w", err)
	}

	_, err = m.db.Exec(
		`UPDATE notebooks SET status = 'active', dir_path = ?, updated_at = datetime('now') WHERE name = ?`,
		newRelPath, name,
	)
	if err != nil {
		os.Rename(newPath, oldPath)
		return nil, fmt.Errorf("update notebook status: %w", err)
	}

	return m.GetNotebookByName(name)
}

// DeleteNotebook permanently removes a notebook record and its document
// directory with every entity file in it.
func (m *MetaStore) DeleteNotebook(name string) error {
	nb, err := m.GetNotebookByName(name)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(filepath.Join(m.dataDir, nb.DirPath)); err != nil {
		return fmt.Errorf("remove notebook dir: %w", err)
	}

	if _, err := m.db.Exec(`DELETE FROM notebooks WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete notebook record: %w", err)
	}
	return nil
}

// NotebookDir returns the absolute path to a notebook's document directory.
func (m *MetaStore) NotebookDir(nb *models.Notebook) string {
	return filepath.Join(m.dataDir, nb.DirPath)
}

// scanNotebook scans a single notebook row.
func scanNotebook(row *sql.Row) (*models.Notebook, error) {
	var n models.Notebook
	err := row.Scan(&n.ID, &n.Name, &n.Description, &n.DirPath, &n.Status, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("notebook not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scan notebook: %w", err)
	}
	return &n, nil
}
