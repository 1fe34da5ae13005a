package email

import "github.com/microcosm-cc/bluemonday"

// SanitizeOptions parameterizes variable sanitization. The zero value strips
// all markup, which is what webhook-sourced values (names, plan titles) get.
type SanitizeOptions struct {
	AllowBasicMarkup bool
}

// SanitizeVars returns a copy of vars with every value run through an HTML
// sanitizer. It is a pure function of its inputs; policies are built per call
// so concurrent sends never share mutable sanitizer state.
func SanitizeVars(vars map[string]string, opts SanitizeOptions) map[string]string {
	policy := bluemonday.StrictPolicy()
	if opts.AllowBasicMarkup {
		policy = bluemonday.UGCPolicy()
	}

	clean := make(map[string]string, len(vars))
	for k, v := range vars {
		clean[k] = policy.Sanitize(v)
	}
	return clean
}
