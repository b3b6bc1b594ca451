package casenumber

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	c, ok := Parse("HSE2306150007")
	assert.True(t, ok)
	assert.Equal(t, CaseNumber{
		Prefix:   "HSE",
		Year:     2023,
		Month:    6,
		Day:      15,
		Date:     time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		Sequence: 7,
	}, c)
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{"HSE2306150001", "HSE2401019999", "HSE9912310420"} {
		c, ok := Parse(s)
		assert.True(t, ok, s)
		assert.Equal(t, s, c.String())
	}
}

func TestParseRejects(t *testing.T) {
	for _, s := range []string{
		"",
		"HSE230615000",
		"HSE23061500071",
		"ABC2306150007",
		"hse2306150007",
		"HSE23061A0007",
		"HSE19600123",
	} {
		_, ok := Parse(s)
		assert.False(t, ok, s)
	}
}
