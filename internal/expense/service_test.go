package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ripgraphics/bookin-pms/internal/ledger"
	"github.com/ripgraphics/bookin-pms/internal/role"
)

type storeStub struct {
	expense       *Expense
	approveResult *Expense
	rejectResult  *Expense
	err           error
}

func (s *storeStub) Create(ctx context.Context, createdBy int64, req *SubmitExpenseRequest) (*Expense, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &Expense{
		ID:           1,
		PropertyID:   req.PropertyID,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Category:     req.Category,
		Description:  req.Description,
		Status:       StatusPending,
		CreatedBy:    createdBy,
	}, nil
}

func (s *storeStub) GetByID(ctx context.Context, id int64) (*Expense, error) {
	return s.expense, s.err
}

func (s *storeStub) ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]*Expense, int, error) {
	if s.expense == nil {
		return nil, 0, s.err
	}
	return []*Expense{s.expense}, 1, s.err
}

func (s *storeStub) Approve(ctx context.Context, id, approverID int64, notes *string, now time.Time) (*Expense, error) {
	return s.approveResult, s.err
}

func (s *storeStub) Reject(ctx context.Context, id, approverID int64, reason string, now time.Time) (*Expense, error) {
	return s.rejectResult, s.err
}

type rolesStub struct {
	role role.Role
	err  error
}

func (r *rolesStub) Resolve(ctx context.Context, userID, propertyID int64) (role.Role, error) {
	return r.role, r.err
}

// querierStub backs a real role.Resolver for tests that exercise the
// full resolution path.
type querierStub struct {
	admin        bool
	ownsProperty bool
}

func (q *querierStub) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return q.admin, nil
}

func (q *querierStub) OwnsProperty(ctx context.Context, userID, propertyID int64) (bool, error) {
	return q.ownsProperty, nil
}

func (q *querierStub) OwnsAnyProperty(ctx context.Context, userID int64) (bool, error) {
	return q.ownsProperty, nil
}

func (q *querierStub) AssignmentRole(ctx context.Context, userID, propertyID int64) (role.Role, error) {
	return role.RoleNone, nil
}

func (q *querierStub) HasActiveAssignment(ctx context.Context, userID int64) (bool, error) {
	return false, nil
}

func (q *querierStub) HasReservation(ctx context.Context, userID, propertyID int64) (bool, error) {
	return false, nil
}

func (q *querierStub) HasAnyReservation(ctx context.Context, userID int64) (bool, error) {
	return false, nil
}

type recorderStub struct {
	entries []*ledger.Transaction
	err     error
}

func (r *recorderStub) Record(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.entries = append(r.entries, tx)
	return tx, nil
}

func newTestService(store *storeStub, roles *rolesStub, recorder *recorderStub) *Service {
	svc := NewService(store, roles, recorder, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestService_Submit(t *testing.T) {
	validReq := func() *SubmitExpenseRequest {
		return &SubmitExpenseRequest{
			PropertyID:   10,
			Amount:       150,
			CurrencyCode: "eur",
			Category:     "repair",
			Description:  "Broken boiler",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*SubmitExpenseRequest)
		role    role.Role
		wantErr error
	}{
		{
			name: "HostSubmits",
			role: role.RoleHost,
		},
		{
			name: "CoHostSubmits",
			role: role.RoleCoHost,
		},
		{
			name:    "GuestCannotSubmit",
			role:    role.RoleGuest,
			wantErr: ErrNotAssigned,
		},
		{
			name:    "ZeroAmount",
			mutate:  func(r *SubmitExpenseRequest) { r.Amount = 0 },
			role:    role.RoleHost,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "NegativeAmount",
			mutate:  func(r *SubmitExpenseRequest) { r.Amount = -5 },
			role:    role.RoleHost,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "BadCurrency",
			mutate:  func(r *SubmitExpenseRequest) { r.CurrencyCode = "EURO" },
			role:    role.RoleHost,
			wantErr: ErrInvalidCurrency,
		},
		{
			name:    "MissingCategory",
			mutate:  func(r *SubmitExpenseRequest) { r.Category = "  " },
			role:    role.RoleHost,
			wantErr: ErrCategoryRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&storeStub{}, &rolesStub{role: tt.role}, &recorderStub{})

			req := validReq()
			if tt.mutate != nil {
				tt.mutate(req)
			}

			got, err := svc.Submit(context.Background(), 7, req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusPending, got.Status)
			assert.Equal(t, "EUR", got.CurrencyCode)
			assert.Equal(t, int64(7), got.CreatedBy)
		})
	}
}

func TestService_Approve(t *testing.T) {
	pending := &Expense{
		ID:           1,
		PropertyID:   10,
		Amount:       150,
		CurrencyCode: "EUR",
		Category:     "repair",
		Status:       StatusPending,
		CreatedBy:    7,
	}
	approverID := int64(3)
	approved := &Expense{
		ID:           1,
		PropertyID:   10,
		Amount:       150,
		CurrencyCode: "EUR",
		Category:     "repair",
		Status:       StatusApproved,
		CreatedBy:    7,
		ApprovedBy:   &approverID,
	}

	t.Run("OwnerApprovesAndLedgerRecords", func(t *testing.T) {
		recorder := &recorderStub{}
		svc := newTestService(
			&storeStub{expense: pending, approveResult: approved},
			&rolesStub{role: role.RoleOwner},
			recorder,
		)

		got, err := svc.Approve(context.Background(), 1, approverID, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)

		require.Len(t, recorder.entries, 1)
		entry := recorder.entries[0]
		assert.Equal(t, ledger.TypeExpense, entry.Type)
		assert.Equal(t, float64(150), entry.Amount)
		assert.Equal(t, ledger.SourceExpense, entry.SourceType)
		assert.Equal(t, int64(1), entry.SourceID)
		assert.Equal(t, approverID, entry.FromUserID)
		assert.Equal(t, int64(7), entry.ToUserID)
		assert.Equal(t, "Approved expense: repair", entry.Description)
	})

	t.Run("AdminFlaggedOwnerStillApproves", func(t *testing.T) {
		recorder := &recorderStub{}
		resolver := role.NewResolver(&querierStub{admin: true, ownsProperty: true})
		svc := NewService(&storeStub{expense: pending, approveResult: approved}, resolver, recorder, zap.NewNop())

		got, err := svc.Approve(context.Background(), 1, approverID, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
		assert.Len(t, recorder.entries, 1)
	})

	t.Run("OwnSubmissionSkipsLedger", func(t *testing.T) {
		ownerID := int64(3)
		ownSubmission := &Expense{
			ID:         2,
			PropertyID: 10,
			Amount:     80,
			Status:     StatusPending,
			CreatedBy:  ownerID,
		}
		ownApproved := &Expense{
			ID:         2,
			PropertyID: 10,
			Amount:     80,
			Status:     StatusApproved,
			CreatedBy:  ownerID,
			ApprovedBy: &ownerID,
		}

		recorder := &recorderStub{}
		svc := newTestService(
			&storeStub{expense: ownSubmission, approveResult: ownApproved},
			&rolesStub{role: role.RoleOwner},
			recorder,
		)

		got, err := svc.Approve(context.Background(), 2, ownerID, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)

		// No counterparty, so nothing reaches the ledger.
		assert.Empty(t, recorder.entries)
	})

	t.Run("LedgerFailureDoesNotRollBack", func(t *testing.T) {
		svc := newTestService(
			&storeStub{expense: pending, approveResult: approved},
			&rolesStub{role: role.RoleOwner},
			&recorderStub{err: errors.New("ledger unavailable")},
		)

		got, err := svc.Approve(context.Background(), 1, approverID, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
	})

	t.Run("HostCannotApprove", func(t *testing.T) {
		recorder := &recorderStub{}
		svc := newTestService(
			&storeStub{expense: pending, approveResult: approved},
			&rolesStub{role: role.RoleHost},
			recorder,
		)

		got, err := svc.Approve(context.Background(), 1, 7, nil)
		assert.ErrorIs(t, err, ErrNotPropertyOwner)
		assert.Nil(t, got)
		assert.Empty(t, recorder.entries)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := newTestService(&storeStub{}, &rolesStub{role: role.RoleOwner}, &recorderStub{})

		got, err := svc.Approve(context.Background(), 99, approverID, nil)
		assert.ErrorIs(t, err, ErrExpenseNotFound)
		assert.Nil(t, got)
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		recorder := &recorderStub{}
		svc := newTestService(
			&storeStub{expense: approved, approveResult: nil},
			&rolesStub{role: role.RoleOwner},
			recorder,
		)

		got, err := svc.Approve(context.Background(), 1, approverID, nil)
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
		assert.Nil(t, got)
		assert.Empty(t, recorder.entries)
	})
}

func TestService_Reject(t *testing.T) {
	pending := &Expense{
		ID:         1,
		PropertyID: 10,
		Amount:     150,
		Status:     StatusPending,
		CreatedBy:  7,
	}
	reason := "duplicate submission"
	rejected := &Expense{
		ID:              1,
		PropertyID:      10,
		Amount:          150,
		Status:          StatusRejected,
		CreatedBy:       7,
		RejectionReason: &reason,
	}

	t.Run("OwnerRejects", func(t *testing.T) {
		recorder := &recorderStub{}
		svc := newTestService(
			&storeStub{expense: pending, rejectResult: rejected},
			&rolesStub{role: role.RoleOwner},
			recorder,
		)

		got, err := svc.Reject(context.Background(), 1, 3, reason)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, got.Status)
		require.NotNil(t, got.RejectionReason)
		assert.Equal(t, reason, *got.RejectionReason)

		// Rejections never touch the ledger.
		assert.Empty(t, recorder.entries)
	})

	t.Run("ReasonRequired", func(t *testing.T) {
		svc := newTestService(
			&storeStub{expense: pending, rejectResult: rejected},
			&rolesStub{role: role.RoleOwner},
			&recorderStub{},
		)

		got, err := svc.Reject(context.Background(), 1, 3, "   ")
		assert.ErrorIs(t, err, ErrReasonRequired)
		assert.Nil(t, got)
	})

	t.Run("HostCannotReject", func(t *testing.T) {
		svc := newTestService(
			&storeStub{expense: pending, rejectResult: rejected},
			&rolesStub{role: role.RoleCoHost},
			&recorderStub{},
		)

		got, err := svc.Reject(context.Background(), 1, 7, reason)
		assert.ErrorIs(t, err, ErrNotPropertyOwner)
		assert.Nil(t, got)
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		svc := newTestService(
			&storeStub{expense: rejected, rejectResult: nil},
			&rolesStub{role: role.RoleOwner},
			&recorderStub{},
		)

		got, err := svc.Reject(context.Background(), 1, 3, reason)
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
		assert.Nil(t, got)
	})
}

func TestService_GetByID(t *testing.T) {
	stored := &Expense{ID: 1, PropertyID: 10, Status: StatusPending, CreatedBy: 7}

	tests := []struct {
		name    string
		userID  int64
		role    role.Role
		wantErr error
	}{
		{name: "SubmitterSees", userID: 7, role: role.RoleNone},
		{name: "OwnerSees", userID: 3, role: role.RoleOwner},
		{name: "AdminSees", userID: 99, role: role.RoleAdmin},
		{name: "GuestDenied", userID: 5, role: role.RoleGuest, wantErr: ErrNotAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&storeStub{expense: stored}, &rolesStub{role: tt.role}, &recorderStub{})

			got, err := svc.GetByID(context.Background(), 1, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored, got)
		})
	}
}
