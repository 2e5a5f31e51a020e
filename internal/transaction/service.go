package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// CreateRange persists txs atomically and returns how many were written.
	CreateRange(ctx context.Context, txs []*Transaction) (int, error)
	// QueryByAccountAndDateRange returns the entries of one account whose
	// date falls within [from, to], both days inclusive.
	QueryByAccountAndDateRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*Transaction, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateRange stamps ids and creation times on txs and writes them in one
// call. An empty batch never reaches the repository.
func (s *Service) CreateRange(ctx context.Context, txs []*Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	accountID := txs[0].AccountID
	now := s.now().UTC()

	for _, tx := range txs {
		if tx.AccountID != accountID {
			return 0, fmt.Errorf("%w: %s and %s", ErrMixedAccount, accountID, tx.AccountID)
		}

		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}

		tx.CreatedAt = now
	}

	n, err := s.repo.CreateRange(ctx, txs)
	if err != nil {
		return 0, fmt.Errorf("creating transactions: %w", err)
	}

	return n, nil
}

// Between returns the entries of accountID dated within [from, to].
func (s *Service) Between(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*Transaction, error) {
	txs, err := s.repo.QueryByAccountAndDateRange(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}

	return txs, nil
}
