package domain

// ZoneLabel is a qualitative readiness rating for one assessed dimension.
// Assessments rate each dimension in one of three bands.
type ZoneLabel string

const (
	// ZoneDeveloping is the lowest readiness band.
	ZoneDeveloping ZoneLabel = "developing"
	// ZoneProgressing is the middle readiness band.
	ZoneProgressing ZoneLabel = "progressing"
	// ZoneEstablished is the highest readiness band.
	ZoneEstablished ZoneLabel = "established"
)

// Dimension names for the four assessed readiness zones.
const (
	DimensionAcademics  = "academics"
	DimensionSkills     = "skills"
	DimensionExperience = "experience"
	DimensionClarity    = "clarity"
)

// Dimensions lists the assessed dimensions in presentation order.
var Dimensions = []string{DimensionAcademics, DimensionSkills, DimensionExperience, DimensionClarity}

// bandAnchors maps each zone label to its numeric band anchor.
var bandAnchors = map[ZoneLabel]int{
	ZoneDeveloping:  1,
	ZoneProgressing: 2,
	ZoneEstablished: 3,
}

// ScoreWeight scales a band anchor into the reported per-zone score.
const ScoreWeight = 10

// Valid reports whether the label is one of the three legal bands.
func (z ZoneLabel) Valid() bool {
	_, ok := bandAnchors[z]
	return ok
}

// Anchor returns the numeric band anchor for the label.
// The second return value is false for labels outside the legal set.
func (z ZoneLabel) Anchor() (int, bool) {
	a, ok := bandAnchors[z]
	return a, ok
}

// ZoneSet holds the zone label for each of the four assessed dimensions.
type ZoneSet struct {
	Academics  ZoneLabel `json:"academics"`
	Skills     ZoneLabel `json:"skills"`
	Experience ZoneLabel `json:"experience"`
	Clarity    ZoneLabel `json:"clarity"`
}

// ByDimension returns the labels keyed by dimension name.
func (zs ZoneSet) ByDimension() map[string]ZoneLabel {
	return map[string]ZoneLabel{
		DimensionAcademics:  zs.Academics,
		DimensionSkills:     zs.Skills,
		DimensionExperience: zs.Experience,
		DimensionClarity:    zs.Clarity,
	}
}

// Overall stage labels derived from the total readiness score.
const (
	StageFoundation = "foundation"
	StageMomentum   = "momentum"
	StageLaunch     = "launch"
)

// StageForScore maps a total readiness score to an overall stage label.
// With anchors 1..3 and four zones the total ranges 40..120.
func StageForScore(total int) string {
	switch {
	case total <= 60:
		return StageFoundation
	case total <= 90:
		return StageMomentum
	default:
		return StageLaunch
	}
}
