package simulation

// MultiplierPair scales a RangeValue bound-by-bound so that uncertainty
// compounds through the chain instead of collapsing to a point estimate.
type MultiplierPair struct {
	Min float64
	Max float64
}

func applyMultiplier(r RangeValue, m MultiplierPair) RangeValue {
	return NewRange(r.Min*m.Min, r.Max*m.Max)
}

// Seed factors and clamp domains for the four computed ranges.
const (
	engagementSeedMin = 0.8
	engagementSeedMax = 1.2
	reachSeedMin      = 0.6
	reachSeedMax      = 1.4

	engagementClampMin = 0.0
	engagementClampMax = 300.0
	reachClampMin      = 0.0
	reachClampMax      = 250.0
	participationMin   = -50.0
	participationMax   = 150.0
	riskClampMin       = 0.0
	riskClampMax       = 100.0
)

// Budget buckets are keyed off the budget range midpoint.
const (
	budgetTierMediumFloor = 10000.0
	budgetTierHighFloor   = 50000.0
)

var budgetTierMultipliers = map[string]MultiplierPair{
	"low":    {Min: 0.85, Max: 1.0},
	"medium": {Min: 1.0, Max: 1.25},
	"high":   {Min: 1.15, Max: 1.5},
}

func budgetTier(budget RangeValue) string {
	mid := budget.Midpoint()
	switch {
	case mid >= budgetTierHighFloor:
		return "high"
	case mid >= budgetTierMediumFloor:
		return "medium"
	default:
		return "low"
	}
}

var intensityMultipliers = map[ContentIntensity]MultiplierPair{
	IntensityLow:    {Min: 0.75, Max: 0.9},
	IntensityMedium: {Min: 0.95, Max: 1.1},
	IntensityHigh:   {Min: 1.1, Max: 1.35},
}

var engagementTrendMultipliers = map[EngagementAssumption]MultiplierPair{
	EngagementOptimistic:  {Min: 1.1, Max: 1.3},
	EngagementNeutral:     {Min: 0.95, Max: 1.05},
	EngagementPessimistic: {Min: 0.7, Max: 0.9},
}

var participationMultipliers = map[ParticipationAssumption]MultiplierPair{
	ParticipationIncreasing: {Min: 1.05, Max: 1.25},
	ParticipationStable:     {Min: 0.95, Max: 1.05},
	ParticipationDeclining:  {Min: 0.75, Max: 0.95},
}

// Market noise widens the band around its midpoint rather than scaling
// both bounds.
var marketNoiseWidening = map[MarketNoise]float64{
	NoiseLow:    1.0,
	NoiseMedium: 1.2,
	NoiseHigh:   1.45,
}

var creatorTierReachMultipliers = map[CreatorTier]MultiplierPair{
	TierNano:  {Min: 0.8, Max: 1.05},
	TierMicro: {Min: 0.95, Max: 1.2},
	TierMacro: {Min: 1.2, Max: 1.5},
	TierMixed: {Min: 1.0, Max: 1.3},
}

// Creator-participation change is seeded from a fixed band, independent of
// the engagement baseline.
var participationSeed = RangeValue{Min: 10, Max: 30}

// Reach diminishing returns: the upper bound shrinks linearly for campaigns
// past diminishingStartDays, losing up to diminishingMaxReduction of its
// value at diminishingFullDays.
const (
	diminishingStartDays    = 90
	diminishingFullDays     = 365
	diminishingMaxReduction = 0.30
)

// Saturation haircut applied to reach only at the peak lifecycle stage.
var peakSaturationMultiplier = MultiplierPair{Min: 0.7, Max: 0.85}

// Discrete risk adjustments summed into the projected risk center.
const (
	riskAdjShortTermAtPeak   = 15.0
	riskAdjOrganicAtGrowth   = -10.0
	riskAdjLateStage         = 20.0
	riskAdjIntensityHigh     = 5.0
	riskAdjIntensityLow      = -5.0
	riskBandBelow            = 5.0
	riskBandAbove            = 10.0
	riskTrendStableTolerance = 2.0
)

type stageTypePair struct {
	Stage LifecycleStage
	Type  CampaignType
}

type compatibility struct {
	Compatible bool
	HighRisk   bool
}

// compatibilityMatrix lists the (stage, campaign type) pairs with a known
// verdict. Pairs absent from the table are compatible by default: the
// matrix is deliberately open-world so that new campaign types do not hard
// fail validation, and lookupCompatibility is the single place that default
// lives.
var compatibilityMatrix = map[stageTypePair]compatibility{
	{StageDecline, CampaignLongTermPaid}: {Compatible: false},
	{StageDormant, CampaignLongTermPaid}: {Compatible: false},

	{StageDecline, CampaignShortTermInfluencer}: {Compatible: true, HighRisk: true},
	{StageDecline, CampaignMixed}:               {Compatible: true, HighRisk: true},
	{StageDormant, CampaignShortTermInfluencer}: {Compatible: true, HighRisk: true},
	{StageDormant, CampaignMixed}:               {Compatible: true, HighRisk: true},
	{StageDormant, CampaignOrganicOnly}:         {Compatible: true, HighRisk: true},
	{StagePeak, CampaignShortTermInfluencer}:    {Compatible: true, HighRisk: true},
	{StagePeak, CampaignLongTermPaid}:           {Compatible: true, HighRisk: true},
	{StageEmerging, CampaignLongTermPaid}:       {Compatible: true, HighRisk: true},

	{StageGrowth, CampaignShortTermInfluencer}:   {Compatible: true},
	{StageGrowth, CampaignLongTermPaid}:          {Compatible: true},
	{StageGrowth, CampaignOrganicOnly}:           {Compatible: true},
	{StageGrowth, CampaignMixed}:                 {Compatible: true},
	{StageEmerging, CampaignOrganicOnly}:         {Compatible: true},
	{StageEmerging, CampaignShortTermInfluencer}: {Compatible: true},
	{StagePeak, CampaignOrganicOnly}:             {Compatible: true},
}

func lookupCompatibility(stage LifecycleStage, campaign CampaignType) compatibility {
	if c, ok := compatibilityMatrix[stageTypePair{stage, campaign}]; ok {
		return c
	}
	// Open-world default: unmatched pairs pass.
	return compatibility{Compatible: true}
}

// Table accessors fall back to the neutral entry so a zero multiplier can
// never silently collapse a range.

func intensityMultiplier(i ContentIntensity) MultiplierPair {
	if m, ok := intensityMultipliers[i]; ok {
		return m
	}
	return intensityMultipliers[IntensityMedium]
}

func engagementTrendMultiplier(a EngagementAssumption) MultiplierPair {
	if m, ok := engagementTrendMultipliers[a]; ok {
		return m
	}
	return engagementTrendMultipliers[EngagementNeutral]
}

func participationMultiplier(a ParticipationAssumption) MultiplierPair {
	if m, ok := participationMultipliers[a]; ok {
		return m
	}
	return participationMultipliers[ParticipationStable]
}

func noiseWidening(n MarketNoise) float64 {
	if f, ok := marketNoiseWidening[n]; ok {
		return f
	}
	return marketNoiseWidening[NoiseMedium]
}

func tierReachMultiplier(t CreatorTier) MultiplierPair {
	if m, ok := creatorTierReachMultipliers[t]; ok {
		return m
	}
	return creatorTierReachMultipliers[TierMixed]
}

func budgetTierMultiplier(budget RangeValue) MultiplierPair {
	return budgetTierMultipliers[budgetTier(budget)]
}
