// Package importer drives one bank export from raw bytes to committed
// ledger entries.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bankimport/internal/encoding"
	"github.com/MrJamesThe3rd/bankimport/internal/importer/duplicate"
	"github.com/MrJamesThe3rd/bankimport/internal/importer/mapper"
	"github.com/MrJamesThe3rd/bankimport/internal/importer/table"
	"github.com/MrJamesThe3rd/bankimport/internal/profile"
	"github.com/MrJamesThe3rd/bankimport/internal/transaction"
)

var (
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrNoProfile    = errors.New("no import profile selected")
	ErrNotDuplicate = errors.New("record is not a flagged duplicate")
)

// ProfileSource resolves profiles by id.
type ProfileSource interface {
	Get(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// Ledger is where committed records end up.
type Ledger interface {
	CreateRange(ctx context.Context, txs []*transaction.Transaction) (int, error)
	Between(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*transaction.Transaction, error)
}

// Stats summarise the current session.
type Stats struct {
	TotalRecords        int
	ValidRecords        int
	RecordsWithErrors   int
	PotentialDuplicates int
}

// session holds everything derived from one file under one profile.
type session struct {
	raw        []byte
	table      *table.Table
	mapper     *mapper.Mapper
	records    []mapper.Record
	duplicates []duplicate.Match
	excluded   map[int]bool
	stats      Stats
}

// Coordinator owns a single import session. All operations are serialised;
// State can be read concurrently, e.g. by a UI polling for Committing.
type Coordinator struct {
	profiles ProfileSource
	ledger   Ledger
	logger   *slog.Logger
	codePage string

	mu      sync.Mutex
	state   atomic.Int32
	profile *profile.Profile
	session *session
}

type Option func(*Coordinator)

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithCodePage sets the code page used for profiles whose encoding is "ansi".
func WithCodePage(cp string) Option {
	return func(c *Coordinator) { c.codePage = cp }
}

func New(profiles ProfileSource, ledger Ledger, opts ...Option) *Coordinator {
	c := &Coordinator{
		profiles: profiles,
		ledger:   ledger,
		logger:   slog.Default(),
		codePage: encoding.DefaultCodePage,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) setState(s State) {
	c.state.Store(int32(s))
}

// SelectProfile loads the profile with the given id and installs it.
func (c *Coordinator) SelectProfile(ctx context.Context, id uuid.UUID) error {
	p, err := c.profiles.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("selecting profile: %w", err)
	}

	return c.UseProfile(p)
}

// UseProfile installs p. A loaded file is re-read under the new settings and
// the coordinator returns to FileLoaded. On error nothing changes.
func (c *Coordinator) UseProfile(p *profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() == Committing {
		return fmt.Errorf("%w: selecting a profile while %s", ErrInvalidState, c.State())
	}

	if c.session == nil {
		c.profile = p
		c.logger.Info("profile selected", "profile", p.Name)

		return nil
	}

	s, err := c.open(p, c.session.raw)
	if err != nil {
		return err
	}

	c.profile = p
	c.session = s
	c.setState(FileLoaded)
	c.logger.Info("profile changed, file re-read", "profile", p.Name, "rows", len(s.table.Rows))

	return nil
}

// LoadFile reads rc to the end and tokenises it with the selected profile.
// rc is closed on every path.
func (c *Coordinator) LoadFile(ctx context.Context, rc io.ReadCloser) error {
	defer rc.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() == Committing {
		return fmt.Errorf("%w: loading a file while %s", ErrInvalidState, c.State())
	}

	if c.profile == nil {
		return ErrNoProfile
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s, err := c.open(c.profile, raw)
	if err != nil {
		return err
	}

	c.session = s
	c.setState(FileLoaded)
	c.logger.InfoContext(ctx, "file loaded",
		"profile", c.profile.Name,
		"bytes", len(raw),
		"columns", len(s.table.Columns),
		"rows", len(s.table.Rows),
	)

	return nil
}

// LoadPath is LoadFile for a file on disk.
func (c *Coordinator) LoadPath(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}

	return c.LoadFile(ctx, f)
}

// open builds a fresh session from raw under p.
func (c *Coordinator) open(p *profile.Profile, raw []byte) (*session, error) {
	var (
		t   *table.Table
		err error
	)

	switch p.FileFormat() {
	case profile.FormatXLSX:
		t, err = table.ReadXLSX(bytes.NewReader(raw), p.HeaderRow, p.Sheet)
	default:
		var r io.Reader

		r, err = encoding.NewBytesReader(raw, p.Encoding, c.codePage)
		if err != nil {
			return nil, fmt.Errorf("decoding file: %w", err)
		}

		t, err = table.Read(r, table.Dialect{
			Delimiter: p.DelimiterRune(),
			Qualifier: p.QualifierRune(),
			HeaderRow: p.HeaderRow,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}

	m, err := mapper.New(p, t.Columns)
	if err != nil {
		return nil, fmt.Errorf("binding profile %q to columns [%s] (profile uses [%s]): %w",
			p.Name, strings.Join(t.Columns, ", "), strings.Join(p.Columns(), ", "), err)
	}

	return &session{raw: raw, table: t, mapper: m}, nil
}

// Validate maps every row and flags records already present in the ledger.
// Re-running it recomputes everything and forgets exclusions.
func (c *Coordinator) Validate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.State() {
	case FileLoaded, Validated:
	default:
		return fmt.Errorf("%w: validating while %s", ErrInvalidState, c.State())
	}

	s := c.session
	records := s.mapper.MapAll(s.table.Rows)

	valid := make([]*transaction.Transaction, 0, len(records))

	for _, r := range records {
		if r.Valid() {
			valid = append(valid, &transaction.Transaction{Date: r.Date})
		}
	}

	var matches []duplicate.Match

	if len(valid) > 0 {
		from, to := transaction.DateRange(valid)

		existing, err := c.ledger.Between(ctx, c.profile.AccountID, from, to)
		if err != nil {
			return fmt.Errorf("loading ledger for duplicate check: %w", err)
		}

		matches = duplicate.Detect(records, existing)
	}

	validCount, invalidCount := mapper.Count(records)

	s.records = records
	s.duplicates = matches
	s.excluded = make(map[int]bool)
	s.stats = Stats{
		TotalRecords:        len(records),
		ValidRecords:        validCount,
		RecordsWithErrors:   invalidCount,
		PotentialDuplicates: len(matches),
	}

	c.setState(Validated)
	c.logger.InfoContext(ctx, "file validated",
		"profile", c.profile.Name,
		"total", s.stats.TotalRecords,
		"valid", s.stats.ValidRecords,
		"errors", s.stats.RecordsWithErrors,
		"duplicates", s.stats.PotentialDuplicates,
	)

	return nil
}

// ExcludeDuplicate drops the flagged record at row from the committable set.
func (c *Coordinator) ExcludeDuplicate(row int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != Validated {
		return fmt.Errorf("%w: excluding while %s", ErrInvalidState, c.State())
	}

	s := c.session

	for i, m := range s.duplicates {
		if m.Record.Row != row {
			continue
		}

		s.duplicates = append(s.duplicates[:i:i], s.duplicates[i+1:]...)
		s.excluded[row] = true
		s.stats.TotalRecords--
		s.stats.ValidRecords--
		s.stats.PotentialDuplicates--

		c.logger.Debug("duplicate excluded", "row", row)

		return nil
	}

	return fmt.Errorf("%w: row %d", ErrNotDuplicate, row)
}

// Commit writes the selected records to the ledger in one call and returns
// how many were written. Flagged duplicates are only written when
// includeDuplicates is set. A failed write leaves the session Validated.
func (c *Coordinator) Commit(ctx context.Context, includeDuplicates bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.State() {
	case Validated:
	case Committed:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: committing while %s", ErrInvalidState, c.State())
	}

	s := c.session
	txs := c.selection(includeDuplicates)

	c.setState(Committing)

	n, err := c.ledger.CreateRange(ctx, txs)
	if err != nil {
		c.setState(Validated)
		return 0, fmt.Errorf("committing import: %w", err)
	}

	s.records = nil
	s.duplicates = nil
	s.excluded = nil

	c.setState(Committed)
	c.logger.InfoContext(ctx, "import committed",
		"profile", c.profile.Name,
		"account", c.profile.AccountID,
		"written", n,
		"include_duplicates", includeDuplicates,
	)

	return n, nil
}

func (c *Coordinator) selection(includeDuplicates bool) []*transaction.Transaction {
	s := c.session

	flagged := make(map[int]bool, len(s.duplicates))
	for _, m := range s.duplicates {
		flagged[m.Record.Row] = true
	}

	var txs []*transaction.Transaction

	for _, r := range s.records {
		if !r.Valid() || s.excluded[r.Row] || (!includeDuplicates && flagged[r.Row]) {
			continue
		}

		txs = append(txs, &transaction.Transaction{
			AccountID: c.profile.AccountID,
			Date:      r.Date,
			Payee:     r.Payee,
			Memo:      r.Memo,
			Amount:    r.Amount,
		})
	}

	return txs
}

// Reset discards the session. The selected profile is kept.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = nil
	c.setState(Idle)
}

func (c *Coordinator) Profile() *profile.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.profile
}

func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Stats{}
	}

	return c.session.stats
}

// Records returns the mapped records of the last validation, in file order.
func (c *Coordinator) Records() []mapper.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}

	return append([]mapper.Record(nil), c.session.records...)
}

// Duplicates returns the records still flagged as duplicates.
func (c *Coordinator) Duplicates() []duplicate.Match {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}

	return append([]duplicate.Match(nil), c.session.duplicates...)
}

// Columns returns the header of the loaded file.
func (c *Coordinator) Columns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}

	return append([]string(nil), c.session.table.Columns...)
}
