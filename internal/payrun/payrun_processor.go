package payrun

import (
	"context"
	"sync"

	payrunerrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/payrun/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultWorkers = 8

type composeFunc interface {
	Compose(ctx context.Context, run *PayRun, employeeID string) (*PayRunItem, error)
}

// Processor fans a run's employees across a bounded worker pool. A failed
// employee becomes an ERROR item; the pass always finishes for everyone else.
type Processor struct {
	composer composeFunc
	workers  int
}

func NewProcessor(composer composeFunc, workers int) *Processor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Processor{composer: composer, workers: workers}
}

func (p *Processor) Run(ctx context.Context, run *PayRun, employeeIDs []string) []*PayRunItem {
	log := zap.L().Named("payrun.processor")

	items := make([]*PayRunItem, len(employeeIDs))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, employeeID := range employeeIDs {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, employeeID string) {
			defer wg.Done()
			defer func() { <-sem }()

			item, err := p.composer.Compose(ctx, run, employeeID)
			if err != nil {
				log.Warn("employee calculation failed",
					zap.String("pay_run_id", run.ID.String()),
					zap.String("employee_id", employeeID),
					zap.Error(err),
				)
				items[i] = errorItem(run, employeeID, err)
				return
			}
			items[i] = item
		}(i, employeeID)
	}

	wg.Wait()
	return items
}

func errorItem(run *PayRun, employeeID string, err error) *PayRunItem {
	employeeUUID, parseErr := uuid.Parse(employeeID)
	if parseErr != nil {
		employeeUUID = uuid.Nil
	}

	msg := err.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}

	return &PayRunItem{
		ID:           uuid.New(),
		CompanyID:    run.CompanyID,
		PayRunID:     run.ID,
		EmployeeID:   employeeUUID,
		Status:       ItemStatusError,
		ErrorMessage: msg,
	}
}

// applySummary recomputes the run's aggregates from its items. Called only by
// the writer finishing a calculation pass, so aggregates and items always
// change together.
func applySummary(run *PayRun, items []*PayRunItem) {
	run.TotalGross = 0
	run.TotalDeductions = 0
	run.TotalTax = 0
	run.TotalNet = 0
	run.TotalEmployerCost = 0
	run.EmployeeCount = len(items)
	run.ErrorCount = 0

	for _, item := range items {
		if item.Status == ItemStatusError {
			run.ErrorCount++
			continue
		}
		run.TotalGross += item.GrossPay
		run.TotalDeductions += item.PreTaxDeductions + item.PostTaxDeductions + item.AdvanceRepayment
		run.TotalTax += item.Tax
		run.TotalNet += item.NetPay
		run.TotalEmployerCost += item.GrossPay + item.EmployerPension + item.EmployerHousingFund
	}
}

// VerifyAggregates cross-checks stored run totals against its items before
// money leaves the system.
func VerifyAggregates(run *PayRun, items []PayRunItem) error {
	var gross, deductions, tax, net, employerCost int64
	for i := range items {
		if items[i].Status == ItemStatusError {
			continue
		}
		gross += items[i].GrossPay
		deductions += items[i].PreTaxDeductions + items[i].PostTaxDeductions + items[i].AdvanceRepayment
		tax += items[i].Tax
		net += items[i].NetPay
		employerCost += items[i].GrossPay + items[i].EmployerPension + items[i].EmployerHousingFund
	}

	if gross != run.TotalGross || deductions != run.TotalDeductions ||
		tax != run.TotalTax || net != run.TotalNet ||
		employerCost != run.TotalEmployerCost {
		return payrunerrors.ErrAggregateMismatch
	}
	return nil
}
