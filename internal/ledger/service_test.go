package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripgraphics/bookin-pms/internal/role"
)

type storeStub struct {
	inserted []*Transaction
	listed   []*Transaction
	err      error
}

func (s *storeStub) Insert(ctx context.Context, tx *Transaction) (*Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	tx.ID = int64(len(s.inserted) + 1)
	s.inserted = append(s.inserted, tx)
	return tx, nil
}

func (s *storeStub) List(ctx context.Context, filter Filter, limit, offset int) ([]*Transaction, int, error) {
	return s.listed, len(s.listed), s.err
}

type rolesStub struct {
	role role.Role
	err  error
}

func (r *rolesStub) Resolve(ctx context.Context, userID, propertyID int64) (role.Role, error) {
	return r.role, r.err
}

func validTransaction() *Transaction {
	return &Transaction{
		PropertyID:   10,
		Type:         TypeIncome,
		Amount:       200,
		CurrencyCode: "EUR",
		SourceType:   SourceInvoice,
		SourceID:     1,
		FromUserID:   7,
		ToUserID:     3,
		Description:  "Invoice INV-20250601-120000-ABCD1234 paid",
	}
}

func TestService_Record(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{
			name: "Valid",
		},
		{
			name:    "UnknownType",
			mutate:  func(tx *Transaction) { tx.Type = "transfer" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "ZeroAmount",
			mutate:  func(tx *Transaction) { tx.Amount = 0 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "SameParties",
			mutate:  func(tx *Transaction) { tx.ToUserID = tx.FromUserID },
			wantErr: ErrInvalidParties,
		},
		{
			name:    "MissingParty",
			mutate:  func(tx *Transaction) { tx.FromUserID = 0 },
			wantErr: ErrInvalidParties,
		},
		{
			name:    "MissingSource",
			mutate:  func(tx *Transaction) { tx.SourceID = 0 },
			wantErr: ErrInvalidSource,
		},
		{
			name:    "UnknownSourceType",
			mutate:  func(tx *Transaction) { tx.SourceType = "refund" },
			wantErr: ErrInvalidSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &storeStub{}
			svc := NewService(store, &rolesStub{})

			tx := validTransaction()
			if tt.mutate != nil {
				tt.mutate(tx)
			}

			got, err := svc.Record(context.Background(), tx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Empty(t, store.inserted)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusCompleted, got.Status)
			assert.Len(t, store.inserted, 1)
		})
	}
}

func TestService_ListForUser(t *testing.T) {
	propertyID := int64(10)
	entries := []*Transaction{validTransaction()}

	t.Run("OwnerLists", func(t *testing.T) {
		svc := NewService(&storeStub{listed: entries}, &rolesStub{role: role.RoleOwner})

		got, total, err := svc.ListForUser(context.Background(), 3, Filter{PropertyID: &propertyID}, 1, 20)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, 1, total)
	})

	t.Run("AdminLists", func(t *testing.T) {
		svc := NewService(&storeStub{listed: entries}, &rolesStub{role: role.RoleAdmin})

		got, _, err := svc.ListForUser(context.Background(), 99, Filter{PropertyID: &propertyID}, 1, 20)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("HostDenied", func(t *testing.T) {
		svc := NewService(&storeStub{listed: entries}, &rolesStub{role: role.RoleHost})

		got, _, err := svc.ListForUser(context.Background(), 7, Filter{PropertyID: &propertyID}, 1, 20)
		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Nil(t, got)
	})

	t.Run("PropertyRequired", func(t *testing.T) {
		svc := NewService(&storeStub{}, &rolesStub{role: role.RoleOwner})

		got, _, err := svc.ListForUser(context.Background(), 3, Filter{}, 1, 20)
		assert.ErrorIs(t, err, ErrPropertyRequired)
		assert.Nil(t, got)
	})
}
