package strategy

import "github.com/Veraticus/medplan/internal/model"

// Strategy identifiers. The set is closed: every identifier has catalog text.
const (
	SpendDownExempt             model.StrategyID = "spend_down_exempt_purchases"
	ConvertCountableAssets      model.StrategyID = "convert_countable_assets"
	TransferToCommunitySpouse   model.StrategyID = "transfer_to_community_spouse"
	CrisisAssetProtection       model.StrategyID = "crisis_asset_protection"
	ReduceHomeEquity            model.StrategyID = "reduce_home_equity"
	DocumentResourceEligibility model.StrategyID = "document_resource_eligibility"

	QualifiedIncomeTrust    model.StrategyID = "qualified_income_trust"
	MedicallyNeedySpendDown model.StrategyID = "medically_needy_spend_down"
	SpousalIncomeAllowance  model.StrategyID = "spousal_income_allowance"
	IncomeWithinLimit       model.StrategyID = "income_within_limit"

	AssetProtectionTrust model.StrategyID = "medicaid_asset_protection_trust"
	SpecialNeedsTrust    model.StrategyID = "special_needs_trust"
	PooledTrust          model.StrategyID = "pooled_trust"
	IrrevocableHomeTrust model.StrategyID = "irrevocable_home_trust"

	SpousalCompliantAnnuity model.StrategyID = "spousal_medicaid_compliant_annuity"
	CompliantAnnuity        model.StrategyID = "medicaid_compliant_annuity"
	AnnuitizeExisting       model.StrategyID = "annuitize_existing_annuity"
	ShortTermAnnuity        model.StrategyID = "short_term_annuity"

	DocumentTransfers    model.StrategyID = "document_transfers"
	CureTransfer         model.StrategyID = "cure_transfer"
	HalfALoafGifting     model.StrategyID = "half_a_loaf_gifting"
	ReverseHalfALoaf     model.StrategyID = "reverse_half_a_loaf"
	InterspousalTransfer model.StrategyID = "interspousal_transfer"
	NoTransferExposure   model.StrategyID = "no_transfer_exposure"

	SpendDownAboveCSRA     model.StrategyID = "spend_down_above_csra"
	FairHearingCSRA        model.StrategyID = "fair_hearing_increase_csra"
	IncomeFirstAllocation  model.StrategyID = "income_first_allocation"
	SeekCourtOrder         model.StrategyID = "court_ordered_support"
	CourtOrderOnFile       model.StrategyID = "court_order_on_file"
	AllAssetsProtected     model.StrategyID = "all_assets_protected"
	JointApplication       model.StrategyID = "joint_institutional_application"
	SeparateCareAssessment model.StrategyID = "separate_care_assessment"

	EnhancedLifeEstateDeed model.StrategyID = "enhanced_life_estate_deed"
	EstatePlanReview       model.StrategyID = "estate_plan_review"
	SpousalDeferral        model.StrategyID = "spousal_recovery_deferral"
	NonProbateExposure     model.StrategyID = "non_probate_asset_exposure"
	NoEstateRecovery       model.StrategyID = "no_estate_recovery"

	ApplyNow                model.StrategyID = "apply_now"
	RequestRetroactive      model.StrategyID = "request_retroactive_coverage"
	ApplyAfterSpendDown     model.StrategyID = "apply_after_spend_down"
	FundTrustBeforeApplying model.StrategyID = "fund_qit_before_applying"
	StartPenaltyClock       model.StrategyID = "start_penalty_clock"
	WaitOutLookback         model.StrategyID = "wait_out_lookback"

	AnnualRedetermination model.StrategyID = "annual_redetermination"
	PatientLiability      model.StrategyID = "patient_liability_payment"
	MonitorResourceBuffer model.StrategyID = "monitor_resource_buffer"
	RetitleAssets         model.StrategyID = "retitle_assets_to_spouse"
	DeductHealthPremiums  model.StrategyID = "deduct_health_premiums"
)

var catalog = map[model.StrategyID]string{
	SpendDownExempt:             "Spend down excess resources on exempt purchases such as home repairs, a replacement vehicle or medical equipment",
	ConvertCountableAssets:      "Convert countable assets into exempt assets such as a prepaid funeral contract or burial fund",
	TransferToCommunitySpouse:   "Transfer countable assets to the community spouse, which carries no transfer penalty",
	CrisisAssetProtection:       "Engage crisis planning: the excess is large enough that spend-down alone is a poor use of assets",
	ReduceHomeEquity:            "Reduce home equity below the limit with a reverse mortgage, home equity loan or sale",
	DocumentResourceEligibility: "Countable resources are within the limit; keep statements ready to document eligibility",

	QualifiedIncomeTrust:    "Establish a Qualified Income Trust (Miller trust) to receive income above the cap",
	MedicallyNeedySpendDown: "Qualify through the medically needy program by incurring medical expenses equal to the excess income",
	SpousalIncomeAllowance:  "Allocate part of the applicant's income to the community spouse as a spousal income allowance",
	IncomeWithinLimit:       "Income is within the limit; no income restructuring is required",

	AssetProtectionTrust: "Fund an irrevocable asset protection trust, timed to clear the lookback period",
	SpecialNeedsTrust:    "Place excess resources in a first-party special needs trust",
	PooledTrust:          "Place excess resources in a pooled trust managed by a nonprofit",
	IrrevocableHomeTrust: "Transfer the home to an irrevocable trust to shield it from estate recovery",

	SpousalCompliantAnnuity: "Convert excess resources into a Medicaid-compliant annuity payable to the community spouse",
	CompliantAnnuity:        "Convert excess resources into a Medicaid-compliant single premium immediate annuity",
	AnnuitizeExisting:       "Annuitize existing revocable annuities so that they are no longer counted as resources",
	ShortTermAnnuity:        "Use a short-term annuity matched to the applicant's life expectancy",

	DocumentTransfers:    "Document every transfer made during the lookback period, including value received",
	CureTransfer:         "Cure the transfer penalty by having gifted assets returned in full",
	HalfALoafGifting:     "Use a half-a-loaf plan: gift part of the excess and cover the penalty period with the remainder",
	ReverseHalfALoaf:     "Use a reverse half-a-loaf plan: gift the excess, then return part of it to shorten the penalty",
	InterspousalTransfer: "Move assets between spouses, which is exempt from the transfer penalty",
	NoTransferExposure:   "No transfers were made during the lookback period",

	SpendDownAboveCSRA:     "Spend down assets above the community spouse resource allowance",
	FairHearingCSRA:        "Request a fair hearing to raise the resource allowance so it generates income for the spouse",
	IncomeFirstAllocation:  "Apply the income-first rule: allocate the applicant's income to close the spouse's shortfall",
	SeekCourtOrder:         "Seek a court order for spousal support above the maximum needs allowance",
	CourtOrderOnFile:       "Submit the court-ordered support amount; it replaces the needs allowance formula",
	AllAssetsProtected:     "All countable assets fall within the community spouse resource allowance",
	JointApplication:       "Both spouses need long-term care: file as an institutionalized couple",
	SeparateCareAssessment: "Assess each spouse separately once both are in care, as the spousal allowance no longer applies",

	EnhancedLifeEstateDeed: "Record an enhanced life estate (Lady Bird) deed so the home passes outside probate",
	EstatePlanReview:       "Review the estate plan: high estate value means significant recovery exposure",
	SpousalDeferral:        "Estate recovery is deferred while the surviving spouse is alive",
	NonProbateExposure:     "The jurisdiction recovers from non-probate assets; joint accounts and beneficiary designations are exposed",
	NoEstateRecovery:       "The jurisdiction does not pursue estate recovery for this program",

	ApplyNow:                "Apply now: the applicant meets the resource and income tests",
	RequestRetroactive:      "Request retroactive coverage for up to three months before the application month",
	ApplyAfterSpendDown:     "Apply in the month the spend-down is complete",
	FundTrustBeforeApplying: "Fund the Qualified Income Trust before the application month",
	StartPenaltyClock:       "Apply once otherwise eligible so the transfer penalty period starts running",
	WaitOutLookback:         "Plan ahead: transfers now only clear after the full lookback period",

	AnnualRedetermination: "Complete the annual redetermination and report changes within ten days",
	PatientLiability:      "Pay the monthly patient liability to the facility",
	MonitorResourceBuffer: "Monitor the resource buffer: small balances can push countable assets over the limit",
	RetitleAssets:         "Retitle the protected resources into the community spouse's name",
	DeductHealthPremiums:  "Deduct health insurance premiums from the patient liability",
}

// Describe returns the catalog text for a strategy.
func Describe(id model.StrategyID) string {
	if text, ok := catalog[id]; ok {
		return text
	}
	return string(id)
}
