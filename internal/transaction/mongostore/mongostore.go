// Package mongostore keeps the ledger in a MongoDB collection.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/bankimport/internal/transaction"
)

const TransactionsCollection = "transactions"

// Collection is the subset of *mongo.Collection the store needs.
type Collection interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Transactor runs fn inside a multi-document transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type clientTransactor struct {
	client *mongo.Client
}

func (c clientTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})

	return err
}

type Store struct {
	coll Collection
	tx   Transactor
}

// New stores transactions in db's transactions collection. The deployment
// must support transactions (a replica set or sharded cluster).
func New(db *mongo.Database) *Store {
	return NewStore(db.Collection(TransactionsCollection), clientTransactor{client: db.Client()})
}

func NewStore(coll Collection, tx Transactor) *Store {
	return &Store{coll: coll, tx: tx}
}

type document struct {
	ID        string               `bson:"_id"`
	AccountID string               `bson:"account_id"`
	Date      time.Time            `bson:"date"`
	Payee     string               `bson:"payee,omitempty"`
	Memo      string               `bson:"memo,omitempty"`
	Amount    primitive.Decimal128 `bson:"amount"`
	CreatedAt time.Time            `bson:"created_at"`
}

func toDocument(tx *transaction.Transaction) (document, error) {
	amount, err := primitive.ParseDecimal128(tx.Amount.String())
	if err != nil {
		return document{}, fmt.Errorf("converting amount %s: %w", tx.Amount, err)
	}

	return document{
		ID:        tx.ID.String(),
		AccountID: tx.AccountID.String(),
		Date:      tx.Date.UTC(),
		Payee:     tx.Payee,
		Memo:      tx.Memo,
		Amount:    amount,
		CreatedAt: tx.CreatedAt.UTC(),
	}, nil
}

func fromDocument(d document) (*transaction.Transaction, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing id %q: %w", d.ID, err)
	}

	accountID, err := uuid.Parse(d.AccountID)
	if err != nil {
		return nil, fmt.Errorf("parsing account id %q: %w", d.AccountID, err)
	}

	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("parsing amount %s: %w", d.Amount, err)
	}

	return &transaction.Transaction{
		ID:        id,
		AccountID: accountID,
		Date:      d.Date.UTC(),
		Payee:     d.Payee,
		Memo:      d.Memo,
		Amount:    amount,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

// CreateRange inserts txs in one transaction so a failed batch leaves no
// partial import behind.
func (s *Store) CreateRange(ctx context.Context, txs []*transaction.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(txs))

	for _, tx := range txs {
		doc, err := toDocument(tx)
		if err != nil {
			return 0, err
		}

		docs = append(docs, doc)
	}

	var inserted int

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		res, err := s.coll.InsertMany(ctx, docs)
		if err != nil {
			return fmt.Errorf("inserting transactions: %w", err)
		}

		inserted = len(res.InsertedIDs)

		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (s *Store) QueryByAccountAndDateRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*transaction.Transaction, error) {
	filter := bson.M{
		"account_id": accountID.String(),
		"date":       bson.M{"$gte": from.UTC(), "$lte": to.UTC()},
	}

	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer cur.Close(ctx)

	var txs []*transaction.Transaction

	for cur.Next(ctx) {
		var d document
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decoding transaction: %w", err)
		}

		tx, err := fromDocument(d)
		if err != nil {
			return nil, err
		}

		txs = append(txs, tx)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}
