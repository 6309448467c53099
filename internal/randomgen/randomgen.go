// Package randomgen creates random but plausible contact data for load and integration tests.
package randomgen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

var firstNames = []string{
	"Aaron", "Anna", "Berta", "Bruno", "Carla", "Christian", "Dana", "Dirk", "Elena", "Erika",
	"Felix", "Frieda", "Georg", "Greta", "Hans", "Helena", "Ines", "Ivan", "Jana", "Julius",
	"Karel", "Klara", "Lena", "Lukas", "Marta", "Max", "Nina", "Oskar", "Petra", "Rudi",
	"Sabine", "Stefan", "Tereza", "Tomas", "Ursula", "Vaclav", "Wanda", "Zdenek",
}

var lastNames = []string{
	"Bauer", "Becker", "Dvorak", "Fischer", "Hoffmann", "Horak", "Jung", "Klein", "Koch",
	"Kral", "Lang", "Meyer", "Mueller", "Mustermann", "Novak", "Richter", "Schmidt", "Schneider",
	"Schulz", "Svoboda", "Wagner", "Weber", "Wolf", "Zimmermann",
}

var domains = []string{"example.com", "example.org", "example.net"}

// PickFirstName returns a random first name.
func PickFirstName() string {
	return firstNames[rand.Intn(len(firstNames))]
}

// PickLastName returns a random last name.
func PickLastName() string {
	return lastNames[rand.Intn(len(lastNames))]
}

// Email returns a random address for the given name. The random suffix makes collisions
// between contacts of the same name unlikely.
func Email(firstName string, lastName string) string {
	local := strings.ToLower(firstName + "." + lastName)
	return fmt.Sprintf("%s.%06d@%s", local, rand.Intn(1000000), domains[rand.Intn(len(domains))])
}

// Phone returns a random phone number in international notation, e.g. "+420 123 456 789".
func Phone() string {
	return fmt.Sprintf("+420 %03d %03d %03d", rand.Intn(1000), rand.Intn(1000), rand.Intn(1000))
}

// BirthDate returns a random date between 1940-01-01 and 2009-12-31.
func BirthDate() time.Time {
	start := time.Date(1940, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, rand.Intn(days))
}
