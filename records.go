package resxsweep

import (
	"strings"

	"github.com/jward/resxsweep/internal/resx"
)

// UnusedRecord is an unused resource as shown to the user: its key, its
// manifest value and whether it is marked for deletion.
type UnusedRecord struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// FilePath returns the file path embedded in a file-backed resource value
// ("<relative-path>;<type>"), or "" when the value embeds none.
func (r UnusedRecord) FilePath() string {
	return embeddedPath(r.Value)
}

func embeddedPath(value string) string {
	i := strings.Index(value, ";")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(value[:i])
}

// BuildRecords returns one record per unused key, in manifest order, with
// the entry's value (empty when the entry has no value element). Unused
// keys without a manifest entry are omitted.
func BuildRecords(m *resx.Manifest, unused KeySet) ([]UnusedRecord, error) {
	entries, err := manifestEntries(m)
	if err != nil {
		return nil, err
	}
	records := make([]UnusedRecord, 0, unused.Len())
	seen := make(KeySet, unused.Len())
	for _, e := range entries {
		if !unused.Has(e.Name) || seen.Has(e.Name) {
			continue
		}
		seen.Add(e.Name)
		records = append(records, UnusedRecord{Key: e.Name, Value: e.Value})
	}
	return records, nil
}
