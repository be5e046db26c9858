package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanLabel(t *testing.T) {
	for doc, want := range map[string]string{
		"":                                     "",
		"Adds two numbers.":                    "",
		"@trace{ Add-It }":                     "Add-It",
		"@trace{ user-add! }":                  "user-add!",
		"@trace { user-exists? }":              "user-exists?",
		"@trace{Add  It}":                      "Add_It",
		"@trace{a__b c}":                       "a_b_c",
		"Sums a list.\n\n@trace{Sum List}\n":   "Sum_List",
		"@trace{}":                             "",
		"@trace{ first } and @trace{ second }": "first",
		"@trace{café au lait}":                 "caf",
	} {
		assert.Equal(t, want, cleanLabel(doc), "cleanLabel(%q)", doc)
	}
}
