package finance

import (
	"math"

	"motorline/internal/domain"
)

// MinApprovalScore is the credit score floor for loan approval.
const MinApprovalScore = 600

// Calculate amortizes a loan. The annual rate is given in percent; a zero
// rate falls back to straight division over the term.
func Calculate(price, downPayment, annualRatePercent float64, years int) domain.FinanceQuote {
	loan := price - downPayment
	if loan < 0 {
		loan = 0
	}
	months := years * 12
	monthlyRate := annualRatePercent / 100 / 12

	var payment float64
	if months > 0 {
		if monthlyRate > 0 {
			factor := math.Pow(1+monthlyRate, float64(months))
			payment = loan * monthlyRate * factor / (factor - 1)
		} else {
			payment = loan / float64(months)
		}
	}
	return domain.FinanceQuote{
		LoanAmount:     round2(loan),
		MonthlyPayment: round2(payment),
		Months:         months,
	}
}

// Approve decides on a credit score.
func Approve(creditScore int) domain.Approval {
	if creditScore >= MinApprovalScore {
		return domain.Approval{Approved: true, Message: "approved"}
	}
	return domain.Approval{Approved: false, Message: "denied"}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
