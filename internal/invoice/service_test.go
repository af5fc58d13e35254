package invoice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ripgraphics/bookin-pms/internal/ledger"
	"github.com/ripgraphics/bookin-pms/internal/role"
)

type storeStub struct {
	invoice    *Invoice
	sentResult *Invoice
	paidResult *Invoice
	cancelled  *Invoice
	payments   []*Payment
	paymentErr error
	err        error
}

func (s *storeStub) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	if s.err != nil {
		return nil, s.err
	}
	inv.ID = 1
	return inv, nil
}

func (s *storeStub) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	return s.invoice, s.err
}

func (s *storeStub) ListByProperty(ctx context.Context, propertyID int64, limit, offset int) ([]*Invoice, int, error) {
	if s.invoice == nil {
		return nil, 0, s.err
	}
	return []*Invoice{s.invoice}, 1, s.err
}

func (s *storeStub) MarkSent(ctx context.Context, id int64, now time.Time) (*Invoice, error) {
	return s.sentResult, s.err
}

func (s *storeStub) MarkPaid(ctx context.Context, id int64, paidDate time.Time) (*Invoice, error) {
	return s.paidResult, s.err
}

func (s *storeStub) Cancel(ctx context.Context, id int64) (*Invoice, error) {
	return s.cancelled, s.err
}

func (s *storeStub) CreatePayment(ctx context.Context, p *Payment) (*Payment, error) {
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	s.payments = append(s.payments, p)
	return p, nil
}

func (s *storeStub) GetPdfData(ctx context.Context, id int64) (*PdfData, error) {
	if s.invoice == nil {
		return nil, s.err
	}
	return &PdfData{Invoice: s.invoice, PropertyName: "Seaside Flat"}, s.err
}

type rolesStub struct {
	role role.Role
	err  error
}

func (r *rolesStub) Resolve(ctx context.Context, userID, propertyID int64) (role.Role, error) {
	return r.role, r.err
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

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store *storeStub, roles *rolesStub, recorder *recorderStub) *Service {
	svc := NewService(store, roles, recorder, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestService_Create(t *testing.T) {
	validReq := func() *CreateInvoiceRequest {
		return &CreateInvoiceRequest{
			PropertyID:   10,
			IssuedTo:     7,
			Type:         TypeRental,
			CurrencyCode: "eur",
			DueDate:      testNow.AddDate(0, 0, 14),
			LineItems: []*LineItemInput{
				{Description: "Cleaning", Quantity: 2, UnitPrice: 50},
				{Description: "Maintenance", Quantity: 1, UnitPrice: 100},
			},
		}
	}

	t.Run("DraftWithComputedTotals", func(t *testing.T) {
		svc := newTestService(&storeStub{}, &rolesStub{role: role.RoleOwner}, &recorderStub{})

		got, err := svc.Create(context.Background(), 3, validReq())
		require.NoError(t, err)

		assert.Equal(t, StatusDraft, got.Status)
		assert.Equal(t, PaymentStatusUnpaid, got.PaymentStatus)
		assert.Equal(t, float64(200), got.TotalAmount)
		assert.Equal(t, float64(0), got.AmountPaid)
		assert.Equal(t, float64(200), got.AmountDue)
		assert.Equal(t, "EUR", got.CurrencyCode)
		assert.Equal(t, int64(3), got.IssuedBy)
		assert.True(t, strings.HasPrefix(got.InvoiceNumber, "INV-20250601-"))

		require.Len(t, got.Items, 2)
		assert.Equal(t, 1, got.Items[0].Position)
		assert.Equal(t, float64(100), got.Items[0].LineTotal)
		assert.Equal(t, 2, got.Items[1].Position)
		assert.Equal(t, float64(100), got.Items[1].LineTotal)
	})

	t.Run("TaxAndDiscountApplied", func(t *testing.T) {
		svc := newTestService(&storeStub{}, &rolesStub{role: role.RoleHost}, &recorderStub{})

		req := validReq()
		req.LineItems = []*LineItemInput{
			{Description: "Night", Quantity: 3, UnitPrice: 100, TaxRate: 10, DiscountAmount: 30},
		}

		got, err := svc.Create(context.Background(), 3, req)
		require.NoError(t, err)

		// 300 + 30 tax - 30 discount
		assert.Equal(t, float64(300), got.TotalAmount)
	})

	tests := []struct {
		name    string
		mutate  func(*CreateInvoiceRequest)
		role    role.Role
		wantErr error
	}{
		{
			name:    "InvalidType",
			mutate:  func(r *CreateInvoiceRequest) { r.Type = "subscription" },
			role:    role.RoleOwner,
			wantErr: ErrInvalidType,
		},
		{
			name:    "BadCurrency",
			mutate:  func(r *CreateInvoiceRequest) { r.CurrencyCode = "EU" },
			role:    role.RoleOwner,
			wantErr: ErrInvalidCurrency,
		},
		{
			name:    "SelfInvoice",
			mutate:  func(r *CreateInvoiceRequest) { r.IssuedTo = 3 },
			role:    role.RoleOwner,
			wantErr: ErrInvalidRecipient,
		},
		{
			name:    "NoLineItems",
			mutate:  func(r *CreateInvoiceRequest) { r.LineItems = nil },
			role:    role.RoleOwner,
			wantErr: ErrNoLineItems,
		},
		{
			name: "ZeroQuantity",
			mutate: func(r *CreateInvoiceRequest) {
				r.LineItems = []*LineItemInput{{Description: "x", Quantity: 0, UnitPrice: 10}}
			},
			role:    role.RoleOwner,
			wantErr: ErrInvalidLineItem,
		},
		{
			name: "TaxRateAbove100",
			mutate: func(r *CreateInvoiceRequest) {
				r.LineItems = []*LineItemInput{{Description: "x", Quantity: 1, UnitPrice: 10, TaxRate: 120}}
			},
			role:    role.RoleOwner,
			wantErr: ErrInvalidLineItem,
		},
		{
			name: "DiscountExceedsLine",
			mutate: func(r *CreateInvoiceRequest) {
				r.LineItems = []*LineItemInput{{Description: "x", Quantity: 1, UnitPrice: 10, DiscountAmount: 50}}
			},
			role:    role.RoleOwner,
			wantErr: ErrInvalidLineItem,
		},
		{
			name:    "GuestCannotIssue",
			role:    role.RoleGuest,
			wantErr: ErrNotAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&storeStub{}, &rolesStub{role: tt.role}, &recorderStub{})

			req := validReq()
			if tt.mutate != nil {
				tt.mutate(req)
			}

			got, err := svc.Create(context.Background(), 3, req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestService_Send(t *testing.T) {
	draft := &Invoice{ID: 1, PropertyID: 10, IssuedBy: 3, IssuedTo: 7, Status: StatusDraft}
	sentAt := testNow
	sent := &Invoice{ID: 1, PropertyID: 10, IssuedBy: 3, IssuedTo: 7, Status: StatusSent, SentDate: &sentAt}

	t.Run("DraftToSent", func(t *testing.T) {
		svc := newTestService(&storeStub{invoice: draft, sentResult: sent}, &rolesStub{}, &recorderStub{})

		got, err := svc.Send(context.Background(), 1, 3)
		require.NoError(t, err)
		assert.Equal(t, StatusSent, got.Status)
		require.NotNil(t, got.SentDate)
	})

	t.Run("OnlyIssuerSends", func(t *testing.T) {
		svc := newTestService(&storeStub{invoice: draft, sentResult: sent}, &rolesStub{}, &recorderStub{})

		got, err := svc.Send(context.Background(), 1, 7)
		assert.ErrorIs(t, err, ErrNotIssuer)
		assert.Nil(t, got)
	})

	t.Run("AlreadySent", func(t *testing.T) {
		svc := newTestService(&storeStub{invoice: sent, sentResult: nil}, &rolesStub{}, &recorderStub{})

		got, err := svc.Send(context.Background(), 1, 3)
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
		assert.Nil(t, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := newTestService(&storeStub{}, &rolesStub{}, &recorderStub{})

		got, err := svc.Send(context.Background(), 99, 3)
		assert.ErrorIs(t, err, ErrInvoiceNotFound)
		assert.Nil(t, got)
	})
}

func TestService_MarkPaid(t *testing.T) {
	sent := &Invoice{
		ID:            1,
		InvoiceNumber: "INV-20250601-120000-ABCD1234",
		PropertyID:    10,
		IssuedBy:      3,
		IssuedTo:      7,
		Status:        StatusSent,
		PaymentStatus: PaymentStatusUnpaid,
		CurrencyCode:  "EUR",
		TotalAmount:   200,
		AmountDue:     200,
	}
	paidAt := testNow
	paid := &Invoice{
		ID:            1,
		InvoiceNumber: "INV-20250601-120000-ABCD1234",
		PropertyID:    10,
		IssuedBy:      3,
		IssuedTo:      7,
		Status:        StatusPaid,
		PaymentStatus: PaymentStatusPaid,
		CurrencyCode:  "EUR",
		TotalAmount:   200,
		AmountPaid:    200,
		AmountDue:     0,
		PaidDate:      &paidAt,
	}

	req := &MarkPaidRequest{PaymentMethod: "bank_transfer"}

	t.Run("SettlesAndRecordsSideEffects", func(t *testing.T) {
		store := &storeStub{invoice: sent, paidResult: paid}
		recorder := &recorderStub{}
		svc := newTestService(store, &rolesStub{}, recorder)

		got, err := svc.MarkPaid(context.Background(), 1, 3, req)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, got.Status)
		assert.Equal(t, PaymentStatusPaid, got.PaymentStatus)
		assert.Equal(t, float64(0), got.AmountDue)

		require.Len(t, store.payments, 1)
		payment := store.payments[0]
		assert.Equal(t, int64(7), payment.PayerID)
		assert.Equal(t, float64(200), payment.Amount)
		assert.Equal(t, "bank_transfer", payment.Method)
		assert.Equal(t, PaymentStatusCompleted, payment.Status)

		require.Len(t, recorder.entries, 1)
		entry := recorder.entries[0]
		assert.Equal(t, ledger.TypeIncome, entry.Type)
		assert.Equal(t, float64(200), entry.Amount)
		assert.Equal(t, ledger.SourceInvoice, entry.SourceType)
		assert.Equal(t, int64(7), entry.FromUserID)
		assert.Equal(t, int64(3), entry.ToUserID)
		assert.Equal(t, "Invoice INV-20250601-120000-ABCD1234 paid", entry.Description)
	})

	t.Run("MethodRequired", func(t *testing.T) {
		svc := newTestService(&storeStub{invoice: sent, paidResult: paid}, &rolesStub{}, &recorderStub{})

		got, err := svc.MarkPaid(context.Background(), 1, 3, &MarkPaidRequest{PaymentMethod: " "})
		assert.ErrorIs(t, err, ErrMethodRequired)
		assert.Nil(t, got)
	})

	t.Run("OnlyIssuerSettles", func(t *testing.T) {
		svc := newTestService(&storeStub{invoice: sent, paidResult: paid}, &rolesStub{}, &recorderStub{})

		got, err := svc.MarkPaid(context.Background(), 1, 7, req)
		assert.ErrorIs(t, err, ErrNotIssuer)
		assert.Nil(t, got)
	})

	t.Run("AlreadyPaidCreatesNothing", func(t *testing.T) {
		store := &storeStub{invoice: paid, paidResult: nil}
		recorder := &recorderStub{}
		svc := newTestService(store, &rolesStub{}, recorder)

		got, err := svc.MarkPaid(context.Background(), 1, 3, req)
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
		assert.Nil(t, got)
		assert.Empty(t, store.payments)
		assert.Empty(t, recorder.entries)
	})

	t.Run("PaymentRecordFailureTolerated", func(t *testing.T) {
		store := &storeStub{invoice: sent, paidResult: paid, paymentErr: errors.New("payments table locked")}
		recorder := &recorderStub{}
		svc := newTestService(store, &rolesStub{}, recorder)

		got, err := svc.MarkPaid(context.Background(), 1, 3, req)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, got.Status)

		// The ledger entry is still attempted.
		assert.Len(t, recorder.entries, 1)
	})

	t.Run("LedgerFailureTolerated", func(t *testing.T) {
		store := &storeStub{invoice: sent, paidResult: paid}
		svc := newTestService(store, &rolesStub{}, &recorderStub{err: errors.New("ledger unavailable")})

		got, err := svc.MarkPaid(context.Background(), 1, 3, req)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, got.Status)
		assert.Len(t, store.payments, 1)
	})
}

func TestService_Cancel(t *testing.T) {
	sent := &Invoice{ID: 1, PropertyID: 10, IssuedBy: 3, IssuedTo: 7, Status: StatusSent}
	cancelled := &Invoice{ID: 1, PropertyID: 10, IssuedBy: 3, IssuedTo: 7, Status: StatusCancelled}

	t.Run("SentToCancelled", func(t *testing.T) {
		svc := newTestService(&storeStub{invoice: sent, cancelled: cancelled}, &rolesStub{}, &recorderStub{})

		got, err := svc.Cancel(context.Background(), 1, 3)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("PaidCannotCancel", func(t *testing.T) {
		paid := &Invoice{ID: 1, IssuedBy: 3, Status: StatusPaid}
		svc := newTestService(&storeStub{invoice: paid, cancelled: nil}, &rolesStub{}, &recorderStub{})

		got, err := svc.Cancel(context.Background(), 1, 3)
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
		assert.Nil(t, got)
	})

	t.Run("OnlyIssuerCancels", func(t *testing.T) {
		svc := newTestService(&storeStub{invoice: sent, cancelled: cancelled}, &rolesStub{}, &recorderStub{})

		got, err := svc.Cancel(context.Background(), 1, 7)
		assert.ErrorIs(t, err, ErrNotIssuer)
		assert.Nil(t, got)
	})
}

func TestInvoice_EffectiveStatus(t *testing.T) {
	due := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status Status
		now    time.Time
		want   Status
	}{
		{name: "SentPastDueReadsOverdue", status: StatusSent, now: due.AddDate(0, 0, 1), want: StatusOverdue},
		{name: "SentBeforeDueStaysSent", status: StatusSent, now: due.AddDate(0, 0, -1), want: StatusSent},
		{name: "DraftNeverOverdue", status: StatusDraft, now: due.AddDate(0, 1, 0), want: StatusDraft},
		{name: "PaidNeverOverdue", status: StatusPaid, now: due.AddDate(0, 1, 0), want: StatusPaid},
		{name: "CancelledNeverOverdue", status: StatusCancelled, now: due.AddDate(0, 1, 0), want: StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Status: tt.status, DueDate: due}
			assert.Equal(t, tt.want, inv.EffectiveStatus(tt.now))
		})
	}
}

func TestLineItem_ComputeTotal(t *testing.T) {
	item := &LineItem{Quantity: 3, UnitPrice: 33.33, TaxRate: 21, DiscountAmount: 10}

	// 99.99 + 20.9979 - 10, rounded to cents
	assert.Equal(t, 110.99, item.ComputeTotal())
}
