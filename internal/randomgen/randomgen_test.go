package randomgen

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPickNames(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Contains(t, firstNames, PickFirstName())
		assert.Contains(t, lastNames, PickLastName())
	}
}

// TestValuesAreValidContactData verifies that generated values pass the length limits of the API.
func TestValuesAreValidContactData(t *testing.T) {
	email := regexp.MustCompile(`^[a-z]+\.[a-z]+\.\d{6}@example\.(com|org|net)$`)
	lower := time.Date(1940, time.January, 1, 0, 0, 0, 0, time.UTC)
	upper := time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		e := Email(PickFirstName(), PickLastName())
		assert.Regexp(t, email, e)
		assert.LessOrEqual(t, len(e), 100)

		p := Phone()
		assert.Len(t, p, 16)

		b := BirthDate()
		assert.False(t, b.Before(lower))
		assert.True(t, b.Before(upper))
	}
}
