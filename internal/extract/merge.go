package extract

import "github.com/nao1215/psiscan/internal/model"

// Merge unions records left to right. A later record overwrites a key that an
// earlier one already set; with the regex and entity attribute sets being
// disjoint this never happens in practice.
func Merge(records ...*model.Record) *model.Record {
	out := model.NewRecord()
	for _, r := range records {
		out.Merge(r)
	}
	return out
}
