// Package keywords holds the fixed detection vocabularies and the matcher
// that finds which of their entries occur in a text.
package keywords

// Table is a named, ordered list of literal phrases. Entries are matched
// case-sensitively as plain substrings.
type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Entries []string `json:"entries" yaml:"entries"`
}

const (
	Sensational  = "sensational"
	Exaggeration = "exaggeration"
	Trust        = "trust"
	Emotional    = "emotional"
	Sourceless   = "sourceless"
)

var (
	sensational = []string{
		"충격", "경악", "긴급", "속보", "놀라운",
		"믿을 수 없는", "반드시", "절대", "100%", "확실한",
	}

	exaggeration = []string{
		"전 세계", "모든", "절대로", "무조건", "완벽한", "최고의",
		"최악의", "엄청난", "대박", "초대형", "전면 금지",
	}

	emotional = []string{"분노", "공포", "충격", "믿을 수 없는", "경악", "놀라운"}

	sourceless = []string{
		"전문가에 따르면",
		"연구 결과에 의하면",
		"보도에 따르면",
		"소식통에 의하면",
		"알려진 바에 따르면",
	}

	trust = []string{"연구", "보고서", "통계", "전문가", "교수", "박사", "발표", "조사", "자료", "출처"}

	// extra phrases marked as exaggeration in the rendering only; they never score
	exaggerationDisplay = []string{"무조건", "100%", "전면 금지", "충격적인 진실"}
)

// Tables returns the five detection tables in declaration order
func Tables() []Table {
	return []Table{
		{Name: Sensational, Entries: clone(sensational)},
		{Name: Exaggeration, Entries: clone(exaggeration)},
		{Name: Trust, Entries: clone(trust)},
		{Name: Emotional, Entries: clone(emotional)},
		{Name: Sourceless, Entries: clone(sourceless)},
	}
}

// Lookup returns the table with the given name
func Lookup(name string) (Table, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// ExaggerationDisplay returns the supplemental exaggeration phrases used for highlighting
func ExaggerationDisplay() []string {
	return clone(exaggerationDisplay)
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
