package customization

import (
	"fmt"
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
)

const invalidCharactersMessage = "Text contains invalid characters"

// ValidationResult lists the problems blocking a step; Errors follow schema option order.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateStep checks the options owned by step. The summary step is always valid.
func ValidateStep(step Step, selections Selections, schema Schema) ValidationResult {
	errs := []string{}

	for _, opt := range step.Options(schema) {
		sel, ok := selections.Get(opt.ID)
		present := ok && !sel.IsEmpty()

		if opt.Required && !present {
			errs = append(errs, fmt.Sprintf("%s is required", opt.DisplayName))
		}
		if !present {
			continue
		}

		switch opt.Type {
		case enums.OptionTypeText:
			errs = append(errs, validateText(sel.Value, opt)...)
		case enums.OptionTypeMultiSelect:
			if limit := opt.Rules.SelectionLimit(); limit > 0 && len(sel.Values) > limit {
				errs = append(errs, fmt.Sprintf("%s: Maximum %d selections allowed", opt.DisplayName, limit))
			}
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateText(text string, opt Option) []string {
	if opt.Rules == nil {
		return nil
	}
	var errs []string
	if limit := opt.Rules.LengthLimit(); limit > 0 && utf8.RuneCountInString(text) > limit {
		errs = append(errs, fmt.Sprintf("Text exceeds maximum length of %d characters", limit))
	}
	if pattern := opt.Rules.PatternString(); pattern != "" {
		re, err := compilePattern(pattern)
		if err != nil || !re.MatchString(text) {
			errs = append(errs, invalidCharactersMessage)
		}
	}
	return errs
}

var patternCache sync.Map

// compilePattern anchors the rule so the whole text has to match.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}
