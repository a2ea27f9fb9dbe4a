package proximity

import "math"

type Trig struct {
	LatSin float64
	LatCos float64
	LonSin float64
	LonCos float64
}

// TrigValues returns the trig index values for a coordinate given in degrees.
//
// NOTE: sine and cosine are applied to the degree value and the result is then passed
// through radians(), i.e. radians(sin(deg)) and not sin(radians(deg)). This is not the
// spherical law of cosines, and the resulting score is not monotonic in great-circle
// distance. Query values and stored values must be produced by this same function.
// Any change here must bump trigIndexVersion so that existing indexes are rebuilt.
func TrigValues(lat, lon float64) Trig {
	return Trig{
		LatSin: radians(math.Sin(lat)),
		LatCos: radians(math.Cos(lat)),
		LonSin: radians(math.Sin(lon)),
		LonCos: radians(math.Cos(lon)),
	}
}

// Score is the ranking score of an indexed entity e for the query q. Larger ranks first.
// The same expression is evaluated by the database engine in nearestQuery.
func (e Trig) Score(q Trig) float64 {
	return e.LatSin*q.LatSin + e.LatCos*q.LatCos*(e.LonSin*q.LonSin+e.LonCos*q.LonCos)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
