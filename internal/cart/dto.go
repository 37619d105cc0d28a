package cart

import (
	"github.com/shopspring/decimal"

	"github.com/suvai/freshmart-backend/internal/catalog"
)

// Line is one cart entry. The product snapshot is captured at add time so the
// stored blob stays self-contained.
type Line struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Icon      string          `json:"icon"`
	Quantity  int             `json:"quantity"`
}

func lineFromProduct(p catalog.Product, quantity int) Line {
	return Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Icon:      p.Icon,
		Quantity:  quantity,
	}
}

// State is a cart snapshot with its recomputed total.
type State struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// ItemCount sums quantities across all lines.
func (s State) ItemCount() int {
	var count int
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}

// Total recomputes the grand total from scratch. Never cached.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

func stateOf(lines []Line) State {
	if lines == nil {
		lines = []Line{}
	}
	return State{Lines: lines, Total: Total(lines)}
}

// OutcomeStatus classifies the result of a confirm-gated operation.
type OutcomeStatus string

const (
	// OutcomeNoop means the operation had nothing to act on.
	OutcomeNoop OutcomeStatus = "noop"
	// OutcomeConfirmationRequired means the caller must repeat the request
	// with confirm set before anything mutates.
	OutcomeConfirmationRequired OutcomeStatus = "confirmation_required"
	// OutcomeCompleted means the operation ran and state changed.
	OutcomeCompleted OutcomeStatus = "completed"
)

// ClearOutcome reports what Clear did.
type ClearOutcome struct {
	Status  OutcomeStatus `json:"status"`
	Message string        `json:"message"`
	Cart    State         `json:"cart"`
}

// SummaryLine is one row of an order summary.
type SummaryLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderSummary is the pre-checkout breakdown shown to the shopper.
type OrderSummary struct {
	Lines []SummaryLine   `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func summaryOf(lines []Line) OrderSummary {
	summary := OrderSummary{Lines: make([]SummaryLine, 0, len(lines)), Total: Total(lines)}
	for _, line := range lines {
		summary.Lines = append(summary.Lines, SummaryLine{
			Name:      line.Name,
			Quantity:  line.Quantity,
			LineTotal: line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return summary
}

// CheckoutOutcome reports what Checkout did.
type CheckoutOutcome struct {
	Status  OutcomeStatus `json:"status"`
	Message string        `json:"message"`
	Summary *OrderSummary `json:"summary,omitempty"`
	Cart    State         `json:"cart"`
}
