package amiyblog

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sql.ErrNoRows

// Image is the metadata kept for one hosted image, keyed by the keyword the
// renderer resolves against.
type Image struct {
	Keyword    string `json:"keyword"`
	URL        string `json:"url"`
	Alt        string `json:"alt,omitempty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Size       int    `json:"size"`
	UploadedAt string `json:"uploadedAt"`
}

// Publish is one entry of the publish log: a post that was rendered and
// accepted by the commerce platform.
type Publish struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Store wraps a SQLite database holding the image URL registry and the
// publish log. Parsed posts themselves are never persisted.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write, busy timeout so writers wait instead of
	// failing with SQLITE_BUSY, synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS images (
    keyword TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    alt TEXT NOT NULL DEFAULT '',
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL DEFAULT 0,
    uploaded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS publishes (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    published_at TEXT NOT NULL
);
`)
	return err
}

// SaveImage upserts an image record. A re-upload for the same keyword
// replaces the previous URL.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (keyword, url, alt, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		img.Keyword, img.URL, img.Alt, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// GetImage returns a single image record by keyword.
func (s *Store) GetImage(keyword string) (Image, error) {
	var img Image
	img.Keyword = keyword
	err := s.db.QueryRow(`SELECT url, alt, width, height, size, uploaded_at FROM images WHERE keyword = ?`, keyword).
		Scan(&img.URL, &img.Alt, &img.Width, &img.Height, &img.Size, &img.UploadedAt)
	if err != nil {
		return Image{}, err
	}
	return img, nil
}

// ListImages returns all image records ordered by keyword.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT keyword, url, alt, width, height, size, uploaded_at FROM images ORDER BY keyword`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Keyword, &img.URL, &img.Alt, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// ImageURLMap returns the keyword→URL mapping the renderer resolves against.
func (s *Store) ImageURLMap() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT keyword, url FROM images`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make(map[string]string)
	for rows.Next() {
		var keyword, url string
		if err := rows.Scan(&keyword, &url); err != nil {
			return nil, err
		}
		urls[keyword] = url
	}
	return urls, rows.Err()
}

// DeleteImage removes an image record by keyword.
func (s *Store) DeleteImage(keyword string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE keyword = ?`, keyword)
	return err
}

// SavePublish appends an entry to the publish log.
func (s *Store) SavePublish(p Publish) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO publishes (id, slug, title, url, published_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.Title, p.URL, p.PublishedAt)
	return err
}

// ListPublishes returns the publish log, most recent first.
func (s *Store) ListPublishes() ([]Publish, error) {
	rows, err := s.db.Query(`SELECT id, slug, title, url, published_at FROM publishes ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var publishes []Publish
	for rows.Next() {
		var p Publish
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.URL, &p.PublishedAt); err != nil {
			return nil, err
		}
		publishes = append(publishes, p)
	}
	return publishes, rows.Err()
}
