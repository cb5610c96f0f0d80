package convert

import (
	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// TranslateFilter builds a domain filter from patterns.
// The returned invert flag is only true for a non-empty whitelist.
func TranslateFilter(patterns []string, invert bool) (domain.Filter, bool) {
	filter := domain.NewFilter(patterns...)
	return filter, invert && !filter.IsEmpty()
}

// ToFilter translates a config-repo filter. A nil filter yields an empty blacklist.
func ToFilter(f *crmodel.Filter) (domain.Filter, bool, error) {
	if err := f.Validate(); err != nil {
		return domain.Filter{}, false, crerrors.WrapConversionError(crerrors.ErrInvalidFieldValue, err,
			"invalid filter")
	}
	filter, invert := TranslateFilter(f.Patterns(), f.IsWhitelist())
	return filter, invert, nil
}

// applyFilter translates f and sets it on target.
func applyFilter(target domain.Filterable, f *crmodel.Filter) error {
	filter, invert, err := ToFilter(f)
	if err != nil {
		return err
	}
	return target.SetFilter(filter, invert)
}
