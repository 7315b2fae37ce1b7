package store

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"

	_ "modernc.org/sqlite"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

var collectionNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteIndex implements the Index contract on a SQLite database. One
// table per collection; vectors are stored as little-endian float32
// blobs, metadata as JSON text.
type SQLiteIndex struct {
	db         *sql.DB
	collection string
	dimension  int
	seg        *segment
}

func NewSQLiteIndex(path, collection string, dimension int) (*SQLiteIndex, error) {
	if !collectionNameRe.MatchString(collection) {
		return nil, fmt.Errorf("invalid collection name: %q", collection)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open sqlite db: %v", domain.ErrBackendUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	idx := &SQLiteIndex{
		db:         db,
		collection: collection,
		dimension:  dimension,
		seg:        newSegment(),
	}

	if err := idx.loadSnapshot(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return idx, nil
}

func (s *SQLiteIndex) table() string {
	return "docs_" + s.collection
}

func (s *SQLiteIndex) collectionExists() (bool, error) {
	var name string
	err := s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, s.table(),
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteIndex) loadSnapshot() error {
	exists, err := s.collectionExists()
	if err != nil || !exists {
		return err
	}

	rows, err := s.db.Query(fmt.Sprintf(`SELECT id, text, metadata, embedding FROM %s`, s.table()))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return err
		}
		s.seg.load(doc)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(row rowScanner) (domain.Document, error) {
	var (
		doc      domain.Document
		metaJSON sql.NullString
		blob     []byte
	)
	if err := row.Scan(&doc.ID, &doc.Text, &metaJSON, &blob); err != nil {
		return domain.Document{}, err
	}

	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &doc.Metadata); err != nil {
			return domain.Document{}, fmt.Errorf("corrupt metadata for %s: %w", doc.ID, err)
		}
	}

	vec, err := decodeVector(blob)
	if err != nil {
		return domain.Document{}, fmt.Errorf("corrupt embedding for %s: %w", doc.ID, err)
	}
	doc.Embedding = vec

	return doc, nil
}

func (s *SQLiteIndex) Ping() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *SQLiteIndex) EnsureCollection() error {
	_, err := s.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id        TEXT PRIMARY KEY,
			text      TEXT NOT NULL,
			metadata  TEXT,
			embedding BLOB NOT NULL
		)`, s.table()))
	return err
}

func (s *SQLiteIndex) GetDoc(id string) (domain.Document, error) {
	exists, err := s.collectionExists()
	if err != nil {
		return domain.Document{}, err
	}
	if !exists {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	row := s.db.QueryRow(
		fmt.Sprintf(`SELECT id, text, metadata, embedding FROM %s WHERE id = ?`, s.table()), id,
	)
	doc, err := scanDoc(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return doc, err
}

func (s *SQLiteIndex) PutDoc(doc domain.Document) error {
	if err := checkDimension(s.dimension, doc.Embedding); err != nil {
		return err
	}
	if err := s.EnsureCollection(); err != nil {
		return err
	}

	var metaJSON any
	if doc.Metadata != nil {
		data, err := json.Marshal(doc.Metadata)
		if err != nil {
			return err
		}
		metaJSON = string(data)
	}

	_, err := s.db.Exec(fmt.Sprintf(`
		INSERT INTO %s (id, text, metadata, embedding) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			metadata = excluded.metadata,
			embedding = excluded.embedding`, s.table()),
		doc.ID, doc.Text, metaJSON, encodeVector(doc.Embedding))
	if err != nil {
		return err
	}

	s.seg.stagePut(doc)
	return nil
}

func (s *SQLiteIndex) DeleteDoc(id string) error {
	exists, err := s.collectionExists()
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	res, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table()), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	s.seg.stageDelete(id)
	return nil
}

func (s *SQLiteIndex) Search(req port.SearchRequest) ([]domain.Hit, error) {
	return s.seg.search(req), nil
}

func (s *SQLiteIndex) Refresh() error {
	s.seg.publish()
	return nil
}

func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}

// encodeVector packs a vector as little-endian float32 values prefixed
// with a uint32 element count.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4+4*len(vec))
	binary.LittleEndian.PutUint32(buf, uint32(len(vec)))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4+i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("vector blob too short: %d bytes", len(data))
	}
	n := int(binary.LittleEndian.Uint32(data))
	if len(data) != 4+4*n {
		return nil, fmt.Errorf("vector blob length %d does not match element count %d", len(data), n)
	}
	vec := make([]float32, n)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4+i*4:]))
	}
	return vec, nil
}
