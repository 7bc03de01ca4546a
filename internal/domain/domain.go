package domain

// Polarity is a 3-way sentiment distribution. Components are non-negative
// and sum to 1.0 within floating tolerance.
type Polarity struct {
	Pos float64 `json:"pos"`
	Neg float64 `json:"neg"`
	Neu float64 `json:"neu"`
}

// ReviewResult is the sentiment service response for one review text.
type ReviewResult struct {
	Review   string   `json:"review"`
	Polarity Polarity `json:"polarity"`
	Stars    int      `json:"stars" minimum:"1" maximum:"5"`
}

// ValuationResult is a priced trade-in estimate.
type ValuationResult struct {
	Year    int     `json:"year"`
	Mileage float64 `json:"mileage"`
	Value   float64 `json:"value" minimum:"0"`
}

// Trade is a persisted valuation, as returned by the trade history.
type Trade struct {
	ID        int64   `json:"id"`
	Year      int     `json:"year"`
	Mileage   float64 `json:"mileage"`
	Value     float64 `json:"value"`
	CreatedAt string  `json:"created_at" format:"date-time"`
}

// FinanceQuote is the result of a loan calculation.
type FinanceQuote struct {
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	Months         int     `json:"months"`
}

// Approval is a credit approval verdict.
type Approval struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
}

// Transaction is one ledger entry. Created on a successful payment and
// immutable thereafter.
type Transaction struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	CardLast4 string  `json:"card_last4"`
	Status    string  `json:"status" enum:"success"`
	Timestamp string  `json:"timestamp" format:"date-time"`
}
