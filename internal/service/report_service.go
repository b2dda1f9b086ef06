package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/commission-allocation-engine/internal/commission"
	"github.com/anyulbade/commission-allocation-engine/internal/dto"
	"github.com/anyulbade/commission-allocation-engine/internal/metrics"
	"github.com/anyulbade/commission-allocation-engine/internal/model"
	"github.com/anyulbade/commission-allocation-engine/internal/rates"
	"github.com/anyulbade/commission-allocation-engine/internal/report"
)

var ErrTransactionNotPaid = errors.New("transaction is not paid")

const (
	periodBatchSize   = 500
	periodConcurrency = 4
)

// TransactionReader is the read side of the payment transaction store.
type TransactionReader interface {
	GetBySessionID(ctx context.Context, sessionID string) (*model.PaymentTransaction, error)
	ListPaid(ctx context.Context, from, to time.Time, after model.SessionCursor, limit int) ([]*model.PaymentTransaction, error)
}

type AccountingDocument struct {
	report.Meta
	Report report.AccountingReport `json:"report"`
}

type ReceiptDocument struct {
	report.Meta
	Receipt report.CustomerReceipt `json:"receipt"`
}

type PeriodDocument struct {
	report.Meta
	Period     report.Period  `json:"period"`
	Pagination dto.Pagination `json:"pagination"`
}

// ReportService builds accounting reports and customer receipts. Both views of
// a session are projected from a single verified breakdown.
type ReportService struct {
	txns     TransactionReader
	schedule *rates.Schedule
	renderer *report.Renderer
	metrics  *metrics.Metrics

	// strict panics on a reconciliation failure instead of returning it.
	strict bool
	now    func() time.Time
}

func NewReportService(txns TransactionReader, schedule *rates.Schedule, renderer *report.Renderer,
	m *metrics.Metrics, strict bool) *ReportService {
	return &ReportService{
		txns:     txns,
		schedule: schedule,
		renderer: renderer,
		metrics:  m,
		strict:   strict,
		now:      time.Now,
	}
}

func (s *ReportService) AccountingReport(ctx context.Context, sessionID string) (*AccountingDocument, error) {
	defer s.metrics.ObserveReport("accounting", time.Now())

	txn, err := s.txns.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	b, err := s.breakdown(txn)
	if err != nil {
		return nil, s.fail(err)
	}

	return &AccountingDocument{
		Meta:   s.meta(),
		Report: report.ProjectAccounting(txn, b),
	}, nil
}

func (s *ReportService) CustomerReceipt(ctx context.Context, sessionID string) (*ReceiptDocument, error) {
	defer s.metrics.ObserveReport("receipt", time.Now())

	txn, err := s.txns.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	b, err := s.breakdown(txn)
	if err != nil {
		return nil, s.fail(err)
	}

	return &ReceiptDocument{
		Meta:    s.meta(),
		Receipt: report.ProjectCustomer(txn, b),
	}, nil
}

type periodEntry struct {
	txn       *model.PaymentTransaction
	breakdown commission.Breakdown
}

// AccountingPeriod sums every paid session created in [from, to) and returns
// one page of per-session reports. A single failed breakdown fails the whole
// period.
//
// Sessions are read in keyset order one batch at a time while workers decompose
// earlier batches. A session inserted during the walk is counted at most once.
func (s *ReportService) AccountingPeriod(ctx context.Context, from, to time.Time, page dto.PaginationParams) (*PeriodDocument, error) {
	defer s.metrics.ObserveReport("period", time.Now())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(periodConcurrency)

	var (
		batches []*[]periodEntry
		after   model.SessionCursor
	)
	for {
		txns, err := s.txns.ListPaid(gctx, from, to, after, periodBatchSize)
		if err != nil {
			// a failed worker cancels gctx; report its error rather than the cancellation
			if werr := g.Wait(); werr != nil {
				return nil, s.fail(werr)
			}
			return nil, err
		}
		if len(txns) == 0 {
			break
		}

		slot := new([]periodEntry)
		batches = append(batches, slot)
		g.Go(func() error {
			entries := make([]periodEntry, 0, len(txns))
			for _, txn := range txns {
				b, err := s.breakdown(txn)
				if err != nil {
					return err
				}
				entries = append(entries, periodEntry{txn: txn, breakdown: b})
			}
			*slot = entries
			return nil
		})

		if len(txns) < periodBatchSize {
			break
		}
		after = model.CursorAfter(txns[len(txns)-1])
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(err)
	}

	ledger := report.NewLedger()
	var all []periodEntry
	for _, batch := range batches {
		for _, e := range *batch {
			ledger.Add(e.breakdown)
		}
		all = append(all, *batch...)
	}

	totals, err := ledger.Totals()
	if err != nil {
		s.reconciliationFailed(err)
		return nil, s.fail(err)
	}

	entries := make([]report.AccountingReport, 0, page.PageSize)
	if page.Offset >= 0 && page.Offset < len(all) {
		for _, e := range all[page.Offset:min(page.Offset+page.PageSize, len(all))] {
			entries = append(entries, report.ProjectAccounting(e.txn, e.breakdown))
		}
	}

	return &PeriodDocument{
		Meta: s.meta(),
		Period: report.Period{
			From:    from,
			To:      to,
			Totals:  totals,
			Entries: entries,
		},
		Pagination: dto.NewPagination(page.Page, page.PageSize, len(all)),
	}, nil
}

// RateVersions lists the loaded rate schedule, oldest first.
func (s *ReportService) RateVersions() []rates.Configuration {
	return s.schedule.Versions()
}

func (s *ReportService) RenderAccounting(doc *AccountingDocument) ([]byte, error) {
	return s.renderer.Accounting(doc.Meta, doc.Report)
}

func (s *ReportService) RenderReceipt(doc *ReceiptDocument) ([]byte, error) {
	return s.renderer.Receipt(doc.Meta, doc.Receipt)
}

func (s *ReportService) RenderPeriod(doc *PeriodDocument) ([]byte, error) {
	return s.renderer.Period(doc.Meta, doc.Period)
}

func (s *ReportService) breakdown(txn *model.PaymentTransaction) (commission.Breakdown, error) {
	if !txn.IsPaid() {
		return commission.Breakdown{}, fmt.Errorf("%w: session %s is %s",
			ErrTransactionNotPaid, txn.SessionID, txn.PaymentStatus)
	}

	cfg, err := s.schedule.At(txn.CreatedAt)
	if err != nil {
		return commission.Breakdown{}, fmt.Errorf("rates for session %s: %w", txn.SessionID, err)
	}

	b, err := commission.Decompose(txn.AmountTotal, txn.Currency, cfg)
	if err != nil {
		return commission.Breakdown{}, fmt.Errorf("decompose session %s: %w", txn.SessionID, err)
	}
	s.metrics.Decomposed(b.Currency.Code)

	log.Debug().
		Str("session_id", txn.SessionID).
		Str("currency", b.Currency.Code).
		Str("rate_version", b.RateVersion()).
		Msg("payment decomposed")

	if err := commission.Verify(b); err != nil {
		s.reconciliationFailed(err)
		return commission.Breakdown{}, fmt.Errorf("session %s: %w", txn.SessionID, err)
	}

	return b, nil
}

func (s *ReportService) reconciliationFailed(err error) {
	s.metrics.ReconciliationFailed()
	log.Error().Err(err).Str("alert", "critical").Msg("breakdown failed reconciliation")
}

// fail panics on a reconciliation failure in strict mode. It must run on the
// request goroutine so the panic reaches the HTTP recovery handler.
func (s *ReportService) fail(err error) error {
	if s.strict && errors.Is(err, commission.ErrReconciliation) {
		panic(err)
	}
	return err
}

func (s *ReportService) meta() report.Meta {
	return report.Meta{
		ReportID:    uuid.NewString(),
		GeneratedAt: s.now().UTC(),
	}
}
