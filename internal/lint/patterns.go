package lint

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/robfig/cron/v3"

	"github.com/mrz1836/configrepo/internal/domain"
)

// timerParser accepts five or six field specs and descriptors such as @daily.
var timerParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// quartzFieldCount is the length of a spec carrying a trailing year field.
const quartzFieldCount = 7

// ValidateTimerSpec parses a timer spec. A trailing year field is accepted and
// ignored, as is "?" in the day fields.
func ValidateTimerSpec(spec string) error {
	fields := strings.Fields(spec)
	if len(fields) == quartzFieldCount {
		fields = fields[:quartzFieldCount-1]
	}
	_, err := timerParser.Parse(strings.Join(fields, " "))
	return err
}

// InvalidPatterns returns the patterns of f that are not valid globs.
func InvalidPatterns(f domain.Filter) []string {
	var invalid []string
	for _, p := range f.Patterns() {
		if !doublestar.ValidatePattern(strings.TrimPrefix(p, "/")) {
			invalid = append(invalid, p)
		}
	}
	return invalid
}
