package anonymize

import (
	"math/rand"
	"strings"
)

const (
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	vowels       = "aeiou"
	consonants   = "bcdfghjklmnpqrstvwxyz"
)

// CityPrefixes, CitySuffixes and Countries are the parts synthetic locations
// are built from.
var (
	CityPrefixes = []string{"New", "Old", "North", "South", "Port", "Lake", "Fort"}
	CitySuffixes = []string{"ton", "ville", "land", "city", "borough", "haven"}
	Countries    = []string{
		"USA", "Canada", "Germany", "France", "Italy", "Spain", "Australia", "Japan", "Sudan",
		"Chad", "Morocco", "Latvia", "Romania", "Turkey", "Uzbekistan", "Azerbaijan",
	}
)

// SyntheticName returns a name-shaped filler such as "Bax KotMip": one
// capital-vowel-consonant syllable, a space, then two more run together.
func SyntheticName(rng *rand.Rand) string {
	var sb strings.Builder
	sb.Grow(10)
	writeSyllable(&sb, rng)
	sb.WriteByte(' ')
	writeSyllable(&sb, rng)
	writeSyllable(&sb, rng)
	return sb.String()
}

// SyntheticLocation returns a "City, Country" filler such as "Porthaven, Chad".
func SyntheticLocation(rng *rand.Rand) string {
	city := pick(rng, CityPrefixes) + pick(rng, CitySuffixes)
	return city + ", " + pick(rng, Countries)
}

func writeSyllable(sb *strings.Builder, rng *rand.Rand) {
	sb.WriteByte(upperLetters[rng.Intn(len(upperLetters))])
	sb.WriteByte(vowels[rng.Intn(len(vowels))])
	sb.WriteByte(consonants[rng.Intn(len(consonants))])
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.Intn(len(items))]
}
