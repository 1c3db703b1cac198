package viewmodels

type Investment struct {
	ID                     string  `json:"id"`
	OwnerID                string  `json:"owner_id"`
	Amount                 string  `json:"amount"`
	CommitmentPeriod       int     `json:"commitment_period"`
	LiquidityClass         string  `json:"liquidity_class"`
	MonthlyRate            string  `json:"monthly_rate"`
	PaymentDate            *string `json:"payment_date,omitempty"`
	ReceiptRef             string  `json:"receipt_ref,omitempty"`
	Status                 string  `json:"status"`
	RenewalCount           int     `json:"renewal_count"`
	OriginalInvestmentDate string  `json:"original_investment_date"`
	CurrentCycleStartDate  *string `json:"current_cycle_start_date,omitempty"`
	MaturityDate           *string `json:"maturity_date,omitempty"`
	IsMatured              bool    `json:"is_matured"`
	Version                int64   `json:"version"`
	CreatedAt              string  `json:"created_at"`
}

type RenewalRecord struct {
	ID             string  `json:"id"`
	InvestmentID   string  `json:"investment_id"`
	Action         string  `json:"action"`
	PerformedBy    string  `json:"performed_by"`
	PriorPeriod    int     `json:"prior_period"`
	PriorLiquidity string  `json:"prior_liquidity"`
	PriorRate      string  `json:"prior_rate"`
	PriorExpiry    *string `json:"prior_expiry,omitempty"`
	NewPeriod      int     `json:"new_period"`
	NewLiquidity   string  `json:"new_liquidity"`
	NewRate        string  `json:"new_rate"`
	NewExpiry      *string `json:"new_expiry,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type DividendReport struct {
	InvestmentID string  `json:"investment_id"`
	AsOf         string  `json:"as_of"`
	Months       int     `json:"months"`
	Accrued      string  `json:"accrued"`
	GateDate     *string `json:"gate_date,omitempty"`
}

type RenewResult struct {
	Investment    Investment     `json:"investment"`
	Record        *RenewalRecord `json:"record,omitempty"`
	NewInvestment *Investment    `json:"new_investment,omitempty"`
}
