package astro

import "Kundali/internal/domain/models"

// HouseOf returns the whole-sign house (1..12) of sign for an ascendant sign.
func HouseOf(sign, ascSign int) int {
	return ((sign-ascSign)%12+12)%12 + 1
}

// SignOfHouse returns the sign occupying house n.
func SignOfHouse(n, ascSign int) int {
	return ((ascSign+n-1)%12 + 12) % 12
}

// AssignHouses builds the whole-sign house table and sets House on every
// position in planets.
func AssignHouses(ascSign int, planets []models.PlanetPosition) models.HouseTable {
	var table models.HouseTable
	for n := 1; n <= 12; n++ {
		sign := SignOfHouse(n, ascSign)
		table[n-1] = models.House{
			Number:   n,
			Sign:     sign,
			SignName: models.SignName(sign),
			Lord:     SignLord(sign),
			Planets:  []models.Planet{},
		}
	}
	for i := range planets {
		h := HouseOf(planets[i].Sign, ascSign)
		planets[i].House = h
		table[h-1].Planets = append(table[h-1].Planets, planets[i].Planet)
	}
	return table
}

// IsKendra reports houses 1, 4, 7, 10.
func IsKendra(h int) bool { return h == 1 || h == 4 || h == 7 || h == 10 }

// IsTrikona reports houses 1, 5, 9.
func IsTrikona(h int) bool { return h == 1 || h == 5 || h == 9 }

// IsDusthana reports houses 6, 8, 12.
func IsDusthana(h int) bool { return h == 6 || h == 8 || h == 12 }
