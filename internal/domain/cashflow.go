package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlowType identifies the kind of a persisted cash-flow record.
type FlowType string

const (
	FlowTypeCapitalCall       FlowType = "capital_call"
	FlowTypeContribution      FlowType = "contribution"
	FlowTypeDistribution      FlowType = "distribution"
	FlowTypeYield             FlowType = "yield"
	FlowTypeReturnOfPrincipal FlowType = "return_of_principal"
	FlowTypeManagementFee     FlowType = "management_fee"
	FlowTypeFees              FlowType = "fees"
	FlowTypeOther             FlowType = "other"
)

// Direction classifies a flow type for performance math.
type Direction int

const (
	DirectionExcluded Direction = iota
	DirectionOutflow
	DirectionInflow
)

// FlowCapability describes how a flow type participates in each calculation.
// Every component consults this table instead of re-deriving type membership.
type FlowCapability struct {
	Direction    Direction
	Yield        bool // counts toward trailing/forward yield figures
	Forecastable bool // manual future entries of this type appear in forecasts
}

var flowCapabilities = map[FlowType]FlowCapability{
	FlowTypeCapitalCall:       {Direction: DirectionOutflow, Forecastable: true},
	FlowTypeContribution:      {Direction: DirectionOutflow, Forecastable: true},
	FlowTypeDistribution:      {Direction: DirectionInflow, Forecastable: true},
	FlowTypeYield:             {Direction: DirectionInflow, Yield: true, Forecastable: true},
	FlowTypeReturnOfPrincipal: {Direction: DirectionInflow, Forecastable: true},
	FlowTypeManagementFee:     {Direction: DirectionOutflow},
	FlowTypeFees:              {Direction: DirectionOutflow},
	FlowTypeOther:             {Direction: DirectionExcluded},
}

// CapabilityFor returns the capability entry for a flow type.
// Unknown types are excluded from every calculation.
func CapabilityFor(t FlowType) FlowCapability {
	return flowCapabilities[t]
}

// Display returns the human-readable label used on forecast timelines
// and report rows.
func (t FlowType) Display() string {
	switch t {
	case FlowTypeCapitalCall:
		return "Capital Call"
	case FlowTypeContribution:
		return "Contribution"
	case FlowTypeDistribution:
		return "Distribution"
	case FlowTypeYield:
		return "Yield"
	case FlowTypeReturnOfPrincipal:
		return "Return of Principal"
	case FlowTypeManagementFee:
		return "Management Fee"
	case FlowTypeFees:
		return "Fees"
	default:
		return "Other"
	}
}

// CashFlowEvent is a dated signed amount: negative for capital out
// (calls, contributions, fees), positive for capital back (distributions,
// yield, return of principal). Projected fresh from stored records per
// calculation, never persisted.
type CashFlowEvent struct {
	Date   time.Time
	Amount decimal.Decimal
}

// FlowRecord is a typed cash-flow row read from storage.
type FlowRecord struct {
	ID     string          `json:"id"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Type   FlowType        `json:"type"`
}

// Event projects the record onto the untyped event used by the solvers.
func (r FlowRecord) Event() CashFlowEvent {
	return CashFlowEvent{Date: r.Date, Amount: r.Amount}
}

// ValuationRecord is a NAV snapshot row read from storage.
type ValuationRecord struct {
	Date     time.Time       `json:"date"`
	NAVValue decimal.Decimal `json:"navValue"`
}
