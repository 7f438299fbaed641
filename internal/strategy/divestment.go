package strategy

import (
	"fmt"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// Federal lookback applies when a jurisdiction does not set its own.
const defaultLookbackMonths = 60

const daysPerPenaltyMonth = 30

var (
	halfALoafMinimum        = decimal.NewFromInt(20000)
	reverseHalfALoafMinimum = decimal.NewFromInt(100000)
)

// Penalty is an ineligibility period caused by uncompensated transfers.
type Penalty struct {
	Months int `json:"months"`
	Days   int `json:"days"`
}

// IsZero reports whether no penalty applies.
func (p Penalty) IsZero() bool {
	return p.Months == 0 && p.Days == 0
}

func (p Penalty) String() string {
	return fmt.Sprintf("%d months and %d days", p.Months, p.Days)
}

// TransferPenalty divides uncompensated transfers by the monthly penalty divisor.
// Whole months come from the quotient and the remainder is prorated over 30 days.
func TransferPenalty(transfers, divisor decimal.Decimal) Penalty {
	if !transfers.IsPositive() || !divisor.IsPositive() {
		return Penalty{}
	}
	quotient := transfers.Div(divisor)
	months := quotient.Floor()
	days := quotient.Sub(months).Mul(decimal.NewFromInt(daysPerPenaltyMonth)).Floor()
	return Penalty{Months: int(months.IntPart()), Days: int(days.IntPart())}
}

// lookbackExposure sums transfers inside the lookback window and prices the penalty.
// The divisor is only required when something was transferred, and a divisor
// that is not positive cannot price a penalty.
func lookbackExposure(in Inputs, rules *model.JurisdictionRuleSet) (decimal.Decimal, decimal.Decimal, Penalty, error) {
	months := rules.LookbackMonths
	if months <= 0 {
		months = defaultLookbackMonths
	}
	transfers := in.Snapshot.UncompensatedTransfersSince(in.AsOf.AddDate(0, -months, 0))
	if transfers.IsZero() {
		return transfers, decimal.Zero, Penalty{}, nil
	}
	divisor, err := rules.Require(model.FieldPenaltyDivisor, rules.PenaltyDivisor)
	if err != nil {
		return transfers, decimal.Zero, Penalty{}, err
	}
	if !divisor.IsPositive() {
		return transfers, decimal.Zero, Penalty{}, common.MissingRuleValue(rules.Key, model.FieldPenaltyDivisor)
	}
	return transfers, divisor, TransferPenalty(transfers, divisor), nil
}

// DivestmentSituation is the household's exposure to transfer penalties.
type DivestmentSituation struct {
	UncompensatedTransfers decimal.Decimal `json:"uncompensated_transfers"`
	PenaltyDivisor         decimal.Decimal `json:"penalty_divisor"`
	ExcessResources        decimal.Decimal `json:"excess_resources"`
	Penalty                Penalty         `json:"penalty"`
	LookbackMonths         int             `json:"lookback_months"`
	CommunitySpouse        bool            `json:"community_spouse"`
}

// NewDivestmentDeriver builds the divestment domain.
func NewDivestmentDeriver() *Deriver[DivestmentSituation] {
	return &Deriver[DivestmentSituation]{
		domain: model.DomainDivestment,
		assess: assessDivestment,
		conditions: []Condition[DivestmentSituation]{
			{Strategy: DocumentTransfers, When: func(s DivestmentSituation) bool {
				return s.UncompensatedTransfers.IsPositive()
			}},
			{Strategy: CureTransfer, When: func(s DivestmentSituation) bool { return !s.Penalty.IsZero() }},
			{Strategy: HalfALoafGifting, When: func(s DivestmentSituation) bool {
				return !s.CommunitySpouse && s.ExcessResources.GreaterThan(halfALoafMinimum)
			}},
			{Strategy: ReverseHalfALoaf, When: func(s DivestmentSituation) bool {
				return !s.CommunitySpouse && s.ExcessResources.GreaterThan(reverseHalfALoafMinimum)
			}},
			{Strategy: InterspousalTransfer, When: func(s DivestmentSituation) bool {
				return s.CommunitySpouse && s.ExcessResources.IsPositive()
			}},
			{Strategy: NoTransferExposure, When: func(s DivestmentSituation) bool {
				return s.UncompensatedTransfers.IsZero()
			}},
		},
		summary: func(s DivestmentSituation) string {
			if s.UncompensatedTransfers.IsZero() {
				return fmt.Sprintf("No uncompensated transfers were found in the %d-month lookback period.", s.LookbackMonths)
			}
			return fmt.Sprintf("Uncompensated transfers of %s in the %d-month lookback period create a penalty of %s.",
				Money(s.UncompensatedTransfers), s.LookbackMonths, s.Penalty)
		},
		steps: map[model.StrategyID]func(DivestmentSituation) string{
			CureTransfer: func(s DivestmentSituation) string {
				return fmt.Sprintf("Have the recipients return %s to eliminate the %s penalty.",
					Money(s.UncompensatedTransfers), s.Penalty)
			},
			HalfALoafGifting: func(s DivestmentSituation) string {
				half := s.ExcessResources.Div(decimal.NewFromInt(2)).Round(2)
				return fmt.Sprintf("Gift about %s and keep %s to pay privately through the penalty period.",
					Money(half), Money(s.ExcessResources.Sub(half)))
			},
		},
	}
}

func assessDivestment(in Inputs, rules *model.JurisdictionRuleSet) (DivestmentSituation, error) {
	s := DivestmentSituation{
		ExcessResources: in.SpendDown(),
		LookbackMonths:  rules.LookbackMonths,
		CommunitySpouse: in.HasCommunitySpouse(),
	}
	if s.LookbackMonths <= 0 {
		s.LookbackMonths = defaultLookbackMonths
	}

	transfers, divisor, penalty, err := lookbackExposure(in, rules)
	if err != nil {
		return s, err
	}
	s.UncompensatedTransfers = transfers
	s.PenaltyDivisor = divisor
	s.Penalty = penalty
	return s, nil
}
