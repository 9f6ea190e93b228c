package astro

import (
	"math"

	"Kundali/internal/domain/models"
)

var signLords = [12]models.Planet{
	models.Mars, models.Venus, models.Mercury, models.Moon, models.Sun, models.Mercury,
	models.Venus, models.Mars, models.Jupiter, models.Saturn, models.Saturn, models.Jupiter,
}

// SignLord returns the ruler of a sign.
func SignLord(sign int) models.Planet {
	return signLords[((sign%12)+12)%12]
}

// deepExaltation holds the exaltation degree of each planet.
var deepExaltation = [models.PlanetCount]float64{
	models.Sun: 10, models.Moon: 33, models.Mars: 298, models.Mercury: 165, models.Jupiter: 95, models.Venus: 357, models.Saturn: 200,
	models.Rahu: 50, models.Ketu: 230,
}

// DeepExaltation returns the exact exaltation longitude of p.
func DeepExaltation(p models.Planet) float64 { return deepExaltation[p] }

// ExaltationSign returns the sign of exaltation of p.
func ExaltationSign(p models.Planet) int { return int(deepExaltation[p] / SignSpan) }

// DebilitationSign is opposite the exaltation sign.
func DebilitationSign(p models.Planet) int { return (ExaltationSign(p) + 6) % 12 }

var ownSigns = [models.PlanetCount][]int{
	models.Sun: {4}, models.Moon: {3}, models.Mars: {0, 7}, models.Mercury: {2, 5}, models.Jupiter: {8, 11},
	models.Venus: {1, 6}, models.Saturn: {9, 10},
}

var moolatrikona = [models.PlanetCount]int{
	models.Sun: 4, models.Moon: 1, models.Mars: 0, models.Mercury: 5, models.Jupiter: 8, models.Venus: 6, models.Saturn: 10, models.Rahu: -1, models.Ketu: -1,
}

// IsOwnSign reports whether p rules sign.
func IsOwnSign(p models.Planet, sign int) bool {
	for _, s := range ownSigns[p] {
		if s == sign {
			return true
		}
	}
	return false
}

// OwnSigns lists the signs ruled by p.
func OwnSigns(p models.Planet) []int { return ownSigns[p] }

// Relation is a natural (naisargika) planetary relationship.
type Relation int

const (
	Enemy   Relation = -1
	Neutral Relation = 0
	Friend  Relation = 1
)

// naturalRelations[a][b] is how a regards b.
var naturalRelations = [7][7]Relation{
	models.Sun:     {models.Sun: Friend, models.Moon: Friend, models.Mars: Friend, models.Mercury: Neutral, models.Jupiter: Friend, models.Venus: Enemy, models.Saturn: Enemy},
	models.Moon:    {models.Sun: Friend, models.Moon: Friend, models.Mars: Neutral, models.Mercury: Friend, models.Jupiter: Neutral, models.Venus: Neutral, models.Saturn: Neutral},
	models.Mars:    {models.Sun: Friend, models.Moon: Friend, models.Mars: Friend, models.Mercury: Enemy, models.Jupiter: Friend, models.Venus: Neutral, models.Saturn: Neutral},
	models.Mercury: {models.Sun: Friend, models.Moon: Enemy, models.Mars: Neutral, models.Mercury: Friend, models.Jupiter: Neutral, models.Venus: Friend, models.Saturn: Neutral},
	models.Jupiter: {models.Sun: Friend, models.Moon: Friend, models.Mars: Friend, models.Mercury: Enemy, models.Jupiter: Friend, models.Venus: Enemy, models.Saturn: Neutral},
	models.Venus:   {models.Sun: Enemy, models.Moon: Enemy, models.Mars: Neutral, models.Mercury: Friend, models.Jupiter: Neutral, models.Venus: Friend, models.Saturn: Friend},
	models.Saturn:  {models.Sun: Enemy, models.Moon: Enemy, models.Mars: Enemy, models.Mercury: Friend, models.Jupiter: Neutral, models.Venus: Friend, models.Saturn: Friend},
}

// NaturalRelation returns how a regards b; nodes are neutral to everyone.
func NaturalRelation(a, b models.Planet) Relation {
	if a.IsNode() || b.IsNode() {
		return Neutral
	}
	return naturalRelations[a][b]
}

// Dignity is a planet's standing in the sign it occupies.
type Dignity string

const (
	Exalted      Dignity = "exalted"
	Moolatrikona Dignity = "moolatrikona"
	OwnSign      Dignity = "own"
	FriendSign   Dignity = "friend"
	NeutralSign  Dignity = "neutral"
	EnemySign    Dignity = "enemy"
	Debilitated  Dignity = "debilitated"
)

// DignityOf classifies p placed in sign.
func DignityOf(p models.Planet, sign int) Dignity {
	switch {
	case sign == ExaltationSign(p):
		return Exalted
	case sign == DebilitationSign(p):
		return Debilitated
	case p.IsNode():
		return NeutralSign
	case sign == moolatrikona[p]:
		return Moolatrikona
	case IsOwnSign(p, sign):
		return OwnSign
	}
	switch NaturalRelation(p, SignLord(sign)) {
	case Friend:
		return FriendSign
	case Enemy:
		return EnemySign
	default:
		return NeutralSign
	}
}

// IsNaturalBenefic reports Jupiter, Venus, Mercury and Moon.
func IsNaturalBenefic(p models.Planet) bool {
	return p == models.Jupiter || p == models.Venus || p == models.Mercury || p == models.Moon
}

var aspectHouses = [models.PlanetCount][]int{
	models.Sun: {7}, models.Moon: {7}, models.Mars: {4, 7, 8}, models.Mercury: {7}, models.Jupiter: {5, 7, 9},
	models.Venus: {7}, models.Saturn: {3, 7, 10}, models.Rahu: {5, 7, 9}, models.Ketu: {5, 7, 9},
}

// AspectHouses lists the houses (counted from its own) that p aspects.
func AspectHouses(p models.Planet) []int { return aspectHouses[p] }

// Aspects reports whether p in house from aspects house to.
func Aspects(p models.Planet, from, to int) bool {
	d := models.HouseFrom(from, to)
	for _, h := range aspectHouses[p] {
		if h == d {
			return true
		}
	}
	return false
}

// meanMotion is mean geocentric daily motion in degrees.
var meanMotion = [models.PlanetCount]float64{
	models.Sun: 0.9856, models.Moon: 13.1764, models.Mars: 0.5240, models.Mercury: 0.9856, models.Jupiter: 0.0831,
	models.Venus: 0.9856, models.Saturn: 0.0335, models.Rahu: -0.0529, models.Ketu: -0.0529,
}

// stationaryRatio is the fraction of mean motion below which a planet is stationary.
const stationaryRatio = 0.1

// MeanMotion returns the mean daily motion of p in degrees.
func MeanMotion(p models.Planet) float64 { return meanMotion[p] }

// MotionOf classifies a daily motion for p.
func MotionOf(p models.Planet, speed float64) models.Motion {
	if p.IsNode() {
		return models.MotionRetrograde
	}
	ratio := speed / meanMotion[p]
	switch {
	case math.Abs(ratio) < stationaryRatio:
		return models.MotionStationary
	case ratio < 0:
		return models.MotionRetrograde
	default:
		return models.MotionDirect
	}
}
