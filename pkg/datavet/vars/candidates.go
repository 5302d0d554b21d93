package vars

import "regexp"

// Regular expressions for placeholder detection.
var (
	// candidatePattern matches ${name} or $name. The brace form is
	// non-greedy and performs no validation between the braces, so the
	// captured name may be empty or contain unexpected characters. The
	// bare form requires an identifier: letter or underscore first, then
	// letters, digits and underscores.
	candidatePattern = regexp.MustCompile(`\$\{(.*?)\}|\$([_a-zA-Z][_a-zA-Z0-9]*)`)

	// cleanPattern strips the $, { and } characters from a raw match to
	// produce the clean variable name.
	cleanPattern = regexp.MustCompile(`[${}]`)
)

// Candidate is a single placeholder occurrence located in a template
// string. Start and End are byte offsets into the template; Raw is the
// matched text including the $ and any braces, and Name is the cleaned
// variable name.
//
// Candidates are transient: a splice invalidates the offsets of every
// candidate to the right of it, so they must not be held across
// substitutions.
type Candidate struct {
	Raw   string
	Name  string
	Start int
	End   int
}

// FindCandidates scans template left to right and returns every
// placeholder occurrence in order of appearance. Matches never overlap.
// A template without placeholders yields nil.
//
// Example:
//
//	cands := vars.FindCandidates("${host}:$port")
//	// cands[0].Name: "host", cands[1].Name: "port"
func FindCandidates(template string) []Candidate {
	locs := candidatePattern.FindAllStringIndex(template, -1)
	if locs == nil {
		return nil
	}

	candidates := make([]Candidate, 0, len(locs))
	for _, loc := range locs {
		raw := template[loc[0]:loc[1]]
		candidates = append(candidates, Candidate{
			Raw:   raw,
			Name:  cleanPattern.ReplaceAllString(raw, ""),
			Start: loc[0],
			End:   loc[1],
		})
	}
	return candidates
}
