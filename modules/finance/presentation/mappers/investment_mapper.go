package mappers

import (
	"time"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/domain/entities/renewal"
	"github.com/vestaclub/vesta/modules/finance/presentation/viewmodels"
	"github.com/vestaclub/vesta/modules/finance/services"
)

func InvestmentToViewModel(inv investment.Investment, now time.Time) viewmodels.Investment {
	vm := viewmodels.Investment{
		ID:                     inv.ID().String(),
		OwnerID:                inv.OwnerID().String(),
		Amount:                 inv.Amount().String(),
		CommitmentPeriod:       inv.CommitmentPeriod(),
		LiquidityClass:         string(inv.LiquidityClass()),
		MonthlyRate:            inv.MonthlyRate().String(),
		PaymentDate:            optionalTime(inv.PaymentDate()),
		ReceiptRef:             inv.ReceiptRef(),
		Status:                 string(inv.Status()),
		RenewalCount:           inv.RenewalCount(),
		OriginalInvestmentDate: inv.OriginalInvestmentDate().Format(time.RFC3339),
		CurrentCycleStartDate:  optionalTime(inv.CurrentCycleStartDate()),
		IsMatured:              inv.IsMatured(now),
		Version:                inv.Version(),
		CreatedAt:              inv.CreatedAt().Format(time.RFC3339),
	}
	if maturity, ok := inv.MaturityDate(); ok {
		vm.MaturityDate = optionalTime(&maturity)
	}
	return vm
}

func RenewalRecordToViewModel(rec renewal.Record) viewmodels.RenewalRecord {
	return viewmodels.RenewalRecord{
		ID:             rec.ID().String(),
		InvestmentID:   rec.InvestmentID().String(),
		Action:         string(rec.Action()),
		PerformedBy:    rec.PerformedBy().String(),
		PriorPeriod:    rec.PriorPeriod(),
		PriorLiquidity: string(rec.PriorLiquidity()),
		PriorRate:      rec.PriorRate().String(),
		PriorExpiry:    optionalTime(rec.PriorExpiry()),
		NewPeriod:      rec.NewPeriod(),
		NewLiquidity:   string(rec.NewLiquidity()),
		NewRate:        rec.NewRate().String(),
		NewExpiry:      optionalTime(rec.NewExpiry()),
		CreatedAt:      rec.CreatedAt().Format(time.RFC3339),
	}
}

func DividendReportToViewModel(report services.DividendReport) viewmodels.DividendReport {
	return viewmodels.DividendReport{
		InvestmentID: report.InvestmentID.String(),
		AsOf:         report.AsOf.Format(time.RFC3339),
		Months:       report.Months,
		Accrued:      report.Accrued.String(),
		GateDate:     optionalTime(report.GateDate),
	}
}

func RenewResultToViewModel(result services.RenewResult, now time.Time) viewmodels.RenewResult {
	vm := viewmodels.RenewResult{
		Investment: InvestmentToViewModel(result.Investment, now),
	}
	if result.Record != nil {
		rec := RenewalRecordToViewModel(*result.Record)
		vm.Record = &rec
	}
	if result.NewInvestment != nil {
		newVM := InvestmentToViewModel(*result.NewInvestment, now)
		vm.NewInvestment = &newVM
	}
	return vm
}

func optionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
