package moneymate

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/etnz/moneymate/internal/logger"
	"github.com/google/renameio/v2"
)

// Store owns the ledger file: every transaction of every user, one row each.
//
// Writers (Add, RewriteAll, Update) are serialized by the store; readers run
// concurrently with each other. A rewrite replaces the file atomically, so a
// reader sees either the previous or the new content.
type Store struct {
	mu   sync.RWMutex
	path string
}

// LoadStats counts the rows seen while loading the ledger.
type LoadStats struct {
	Rows    int // data rows read, the header excluded
	Loaded  int
	Skipped int // rows that could not be decoded
}

// OpenStore opens the ledger file at path, creating it with only a header
// row if it does not exist yet.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.create(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the ledger file path.
func (s *Store) Path() string { return s.path }

// create writes a header-only ledger file if none exists.
func (s *Store) create() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &StorageError{Op: "create", Path: s.path, Err: err}
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return &StorageError{Op: "create", Path: s.path, Err: err}
	}
	w := csv.NewWriter(f)
	w.Write(Header)
	w.Flush()
	err = errors.Join(w.Error(), f.Close())
	if err != nil {
		return &StorageError{Op: "create", Path: s.path, Err: err}
	}
	return nil
}

// LoadAll reads every transaction of the ledger. Rows that cannot be decoded
// are logged and skipped.
func (s *Store) LoadAll(ctx context.Context) ([]Transaction, error) {
	txs, _, err := s.LoadAllWithStats(ctx)
	return txs, err
}

// LoadAllWithStats is like LoadAll and also reports how many rows were read
// and skipped.
func (s *Store) LoadAllWithStats(ctx context.Context) ([]Transaction, LoadStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, LoadStats{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, err := s.load(ctx)
	if err != nil {
		return nil, content.stats, err
	}
	return content.txs, content.stats, nil
}

// ledgerContent is the ledger file as read by load.
type ledgerContent struct {
	txs        []Transaction
	stats      LoadStats
	malformed  []Record // rows that could not be decoded, as read
	unreadable int      // rows not even split into fields
}

// check reports whether the content can be rewritten without losing rows.
// The error names no transaction.
func (c *ledgerContent) check() error {
	if c.unreadable > 0 {
		return fmt.Errorf("%w: %d unreadable rows", ErrCorruptLedger, c.unreadable)
	}
	seen := make(map[string]bool, len(c.txs))
	for _, tx := range c.txs {
		if seen[tx.ID] || tx.Validate() != nil {
			return fmt.Errorf("%w: duplicate or invalid transactions", ErrCorruptLedger)
		}
		seen[tx.ID] = true
	}
	return nil
}

func (s *Store) load(ctx context.Context) (*ledgerContent, error) {
	log := logger.FromContext(ctx)

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", s.path).Msg("ledger file not found, creating an empty one")
		return &ledgerContent{}, s.create()
	}
	if err != nil {
		return &ledgerContent{}, &StorageError{Op: "load", Path: s.path, Err: err}
	}
	defer f.Close()

	scanner := recordScanner{
		onSkip: func(err *DecodeError) {
			log.Warn().Str("path", s.path).Int("row", err.Row).Str("field", err.Field).Err(err.Err).Msg("skipping malformed ledger row")
		},
	}
	content := &ledgerContent{txs: slices.Collect(scanner.All(f))}
	content.stats, content.malformed, content.unreadable = scanner.stats, scanner.malformed, scanner.unreadable
	if err := scanner.Err(); err != nil {
		return content, &StorageError{Op: "load", Path: s.path, Err: err}
	}

	ev := log.Debug()
	if scanner.stats.Skipped > 0 {
		ev = log.Warn()
	}
	ev.Str("path", s.path).Int("rows", scanner.stats.Rows).Int("skipped", scanner.stats.Skipped).Msg("ledger loaded")
	return content, nil
}

// Add appends one transaction at the end of the ledger file. Rows already
// persisted are left untouched.
func (s *Store) Add(ctx context.Context, tx Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(existing.txs, func(e Transaction) bool { return e.ID == tx.ID }) {
		return &ValidationError{ID: tx.ID, Reason: ErrDuplicateID}
	}
	return s.append(tx)
}

func (s *Store) append(tx Transaction) (err error) {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return &StorageError{Op: "append", Path: s.path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &StorageError{Op: "append", Path: s.path, Err: cerr}
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return &StorageError{Op: "append", Path: s.path, Err: err}
	}

	w := csv.NewWriter(f)
	switch {
	case info.Size() == 0:
		w.Write(Header)
	case !endsWithNewline(f, info.Size()):
		// an interrupted write left a partial row, keep it on its own line.
		if _, err := f.Write([]byte{'\n'}); err != nil {
			return &StorageError{Op: "append", Path: s.path, Err: err}
		}
	}
	w.Write(EncodeRecord(tx))
	w.Flush()
	if err := w.Error(); err != nil {
		return &StorageError{Op: "append", Path: s.path, Err: err}
	}
	if err := f.Sync(); err != nil {
		return &StorageError{Op: "append", Path: s.path, Err: err}
	}
	return nil
}

func endsWithNewline(f *os.File, size int64) bool {
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return true
	}
	return last[0] == '\n'
}

// RewriteAll replaces the whole ledger with txs. The new content is written
// to a temporary file which then replaces the ledger file in one rename:
// on failure the previous content is still in place.
func (s *Store) RewriteAll(ctx context.Context, txs []Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewrite(txs, nil)
}

// Update applies fn to the current content of the ledger and rewrites the
// ledger with its result, all under the store write lock. If fn returns an
// error the ledger file is not touched.
//
// Rows that cannot be decoded are written back unchanged after the
// transactions. A ledger with unreadable rows, duplicate ids or invalid
// transactions is not rewritten: Update returns a *StorageError wrapping
// ErrCorruptLedger.
func (s *Store) Update(ctx context.Context, fn func([]Transaction) ([]Transaction, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := content.check(); err != nil {
		return &StorageError{Op: "update", Path: s.path, Err: err}
	}
	next, err := fn(content.txs)
	if err != nil {
		return err
	}
	if len(content.malformed) > 0 {
		log := logger.FromContext(ctx)
		log.Warn().Str("path", s.path).Int("malformed", len(content.malformed)).Msg("keeping malformed ledger rows as they are")
	}
	return s.rewrite(next, content.malformed)
}

// rewrite replaces the ledger with txs followed by the raw rows kept.
func (s *Store) rewrite(txs []Transaction, kept []Record) error {
	seen := make(map[string]bool, len(txs))
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
		if seen[tx.ID] {
			return &ValidationError{ID: tx.ID, Reason: ErrDuplicateID}
		}
		seen[tx.ID] = true
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &StorageError{Op: "rewrite", Path: s.path, Err: err}
	}
	pf, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(0644))
	if err != nil {
		return &StorageError{Op: "rewrite", Path: s.path, Err: err}
	}
	defer pf.Cleanup()

	w := csv.NewWriter(pf)
	w.Write(Header)
	for _, tx := range txs {
		w.Write(EncodeRecord(tx))
	}
	for _, rec := range kept {
		w.Write(rec)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &StorageError{Op: "rewrite", Path: s.path, Err: err}
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return &StorageError{Op: "rewrite", Path: s.path, Err: err}
	}
	return nil
}

// recordScanner decodes a ledger file lazily. Malformed rows are reported to
// onSkip and left out of the sequence; reading errors stop the sequence and
// are returned by Err.
type recordScanner struct {
	onSkip     func(*DecodeError)
	stats      LoadStats
	malformed  []Record
	unreadable int
	err        error
}

// All returns the sequence of transactions decoded from r.
func (sc *recordScanner) All(r io.Reader) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1

		first := true
		for {
			rec, err := cr.Read()
			if err == io.EOF {
				return
			}
			if first && err == nil && isHeader(rec) {
				first = false
				continue
			}
			first = false
			sc.stats.Rows++

			var parseErr *csv.ParseError
			switch {
			case errors.As(err, &parseErr):
				sc.unreadable++
				sc.skip(&DecodeError{Row: sc.stats.Rows, Err: err})
				continue
			case err != nil:
				sc.err = fmt.Errorf("could not read row %d: %w", sc.stats.Rows, err)
				return
			}

			tx, err := DecodeRecord(sc.stats.Rows, rec)
			if err != nil {
				var decodeErr *DecodeError
				if errors.As(err, &decodeErr) {
					sc.skip(decodeErr)
				}
				sc.malformed = append(sc.malformed, Record(rec))
				continue
			}
			sc.stats.Loaded++
			if !yield(tx) {
				return
			}
		}
	}
}

func (sc *recordScanner) skip(err *DecodeError) {
	sc.stats.Skipped++
	if sc.onSkip != nil {
		sc.onSkip(err)
	}
}

// Err returns the reading error that stopped the sequence, if any.
func (sc *recordScanner) Err() error { return sc.err }

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimPrefix(rec[0], "\ufeff"), Header[0])
}
