package logo

import "strings"

// Override pins a crest for every team whose normalized title contains Key.
type Override struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Weight scores gallery file names containing Term.
type Weight struct {
	Term   string `json:"term"`
	Weight int    `json:"weight"`
}

// Tables holds the curated lists driving resolution. Order matters for
// Overrides (first match wins) and Keywords (summed in order).
type Tables struct {
	Overrides  []Override `json:"overrides"`
	Exclude    []string   `json:"exclude"`
	Keywords   []Weight   `json:"keywords"`
	Extensions []string   `json:"extensions"`
}

// DefaultTables returns the exclusion list, keyword weights and accepted
// extensions. It carries no overrides; those come from the tables file.
func DefaultTables() Tables {
	return Tables{
		Exclude: []string{
			"through_the_ages",
			"commons-",
			"common-",
			"kit",
			"old",
			"arena",
			"graph",
			"since",
			"wikinews-",
			"performance",
			"stadio",
			"camiseta",
		},
		Keywords: []Weight{
			{Term: "scudo", Weight: 2},
			{Term: "escudo", Weight: 2},
			{Term: "crest", Weight: 2},
			{Term: "badge", Weight: 2},
			{Term: "logo", Weight: 2},
			{Term: "seal", Weight: 2},
		},
		Extensions: []string{".png", ".svg", ".jpg", ".jpeg"},
	}
}

// withDefaults fills empty lists from DefaultTables.
func (t Tables) withDefaults() Tables {
	d := DefaultTables()
	if len(t.Exclude) == 0 {
		t.Exclude = d.Exclude
	}
	if len(t.Keywords) == 0 {
		t.Keywords = d.Keywords
	}
	if len(t.Extensions) == 0 {
		t.Extensions = d.Extensions
	}
	return t
}

func (t Tables) excluded(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range t.Exclude {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (t Tables) allowedExtension(file string) bool {
	lower := strings.ToLower(file)
	for _, ext := range t.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// override returns the first override whose normalized key is contained in
// the normalized title.
func (t Tables) override(title string) (string, bool) {
	nt := normalizeTitle(title)
	for _, o := range t.Overrides {
		key := normalizeTitle(o.Key)
		if key != "" && strings.Contains(nt, key) {
			return o.URL, true
		}
	}
	return "", false
}
