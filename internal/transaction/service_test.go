package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bankimport/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestService_CreateRange(t *testing.T) {
	account := uuid.New()

	type args struct {
		txs []*transaction.Transaction
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		want      int
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{txs: []*transaction.Transaction{
				{AccountID: account, Date: date(2026, 2, 1), Amount: decimal.RequireFromString("-6.34")},
				{AccountID: account, Date: date(2026, 2, 2), Amount: decimal.RequireFromString("27.50")},
			}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateRange(gomock.Any(), gomock.Len(2)).
					DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) (int, error) {
						for _, tx := range txs {
							assert.NotEqual(t, uuid.Nil, tx.ID)
							assert.False(t, tx.CreatedAt.IsZero())
						}

						return len(txs), nil
					})
			},
			want: 2,
		},
		{
			name: "EmptySkipsRepository",
			args: args{},
			want: 0,
		},
		{
			name: "MixedAccounts",
			args: args{txs: []*transaction.Transaction{
				{AccountID: account},
				{AccountID: uuid.New()},
			}},
			wantErr: transaction.ErrMixedAccount,
		},
		{
			name: "RepoError",
			args: args{txs: []*transaction.Transaction{{AccountID: account}}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateRange(gomock.Any(), gomock.Any()).Return(0, errBoom)
			},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)

			got, err := svc.CreateRange(context.Background(), tt.args.txs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

var errBoom = errors.New("db error")

func TestService_Between(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	account := uuid.New()
	existing := []*transaction.Transaction{{ID: uuid.New(), AccountID: account, Date: date(2026, 1, 5)}}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		QueryByAccountAndDateRange(gomock.Any(), account, date(2026, 1, 1), date(2026, 1, 31)).
		Return(existing, nil)
	repo.EXPECT().
		QueryByAccountAndDateRange(gomock.Any(), account, gomock.Any(), gomock.Any()).
		Return(nil, errBoom)

	svc := transaction.NewService(repo)

	got, err := svc.Between(context.Background(), account, date(2026, 1, 1), date(2026, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, existing, got)

	_, err = svc.Between(context.Background(), account, date(2026, 1, 1), date(2026, 1, 31))
	assert.ErrorIs(t, err, errBoom)
}

func TestTransaction_Type(t *testing.T) {
	assert.Equal(t, transaction.TypeExpense, (&transaction.Transaction{Amount: decimal.RequireFromString("-1")}).Type())
	assert.Equal(t, transaction.TypeIncome, (&transaction.Transaction{Amount: decimal.RequireFromString("1")}).Type())
	assert.Equal(t, transaction.TypeIncome, (&transaction.Transaction{}).Type())
}

func TestDateRange(t *testing.T) {
	from, to := transaction.DateRange([]*transaction.Transaction{
		{Date: date(2026, 1, 10)},
		{Date: date(2026, 1, 3)},
		{Date: date(2026, 1, 21)},
	})
	assert.Equal(t, date(2026, 1, 3), from)
	assert.Equal(t, date(2026, 1, 21), to)

	from, to = transaction.DateRange(nil)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}
