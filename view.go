package resxsweep

// View is the presentation state a collaborator renders: the unused records
// and whether an operation is in flight. Views are values; every transition
// returns a new View and leaves the receiver untouched. Call Derive after a
// transition to recompute what the user may do next.
type View struct {
	Records []UnusedRecord
	Busy    bool
}

// Flags are the derived command availabilities of a View.
type Flags struct {
	ItemsSelected     bool
	CanBrowse         bool
	CanRefresh        bool
	CanCopy           bool
	CanDeleteAll      bool
	CanDeleteSelected bool
	CanExclude        bool
}

// Derive computes the flags of v.
func Derive(v View) Flags {
	idle := !v.Busy
	hasRecords := len(v.Records) > 0
	selected := false
	for _, r := range v.Records {
		if r.Selected {
			selected = true
			break
		}
	}
	return Flags{
		ItemsSelected:     selected,
		CanBrowse:         idle,
		CanRefresh:        idle,
		CanCopy:           idle && hasRecords,
		CanDeleteAll:      idle && hasRecords,
		CanDeleteSelected: idle && selected,
		CanExclude:        idle && selected,
	}
}

func (v View) cloneRecords() []UnusedRecord {
	out := make([]UnusedRecord, len(v.Records))
	copy(out, v.Records)
	return out
}

// WithSelection marks or unmarks the record with key.
func (v View) WithSelection(key string, selected bool) View {
	recs := v.cloneRecords()
	for i := range recs {
		if recs[i].Key == key {
			recs[i].Selected = selected
		}
	}
	v.Records = recs
	return v
}

// WithAllSelected marks or unmarks every record.
func (v View) WithAllSelected(selected bool) View {
	recs := v.cloneRecords()
	for i := range recs {
		recs[i].Selected = selected
	}
	v.Records = recs
	return v
}

// WithBusy sets the in-flight flag.
func (v View) WithBusy(busy bool) View {
	v.Busy = busy
	return v
}

// WithRecords replaces the records wholesale, as after a scan.
func (v View) WithRecords(records []UnusedRecord) View {
	v.Records = records
	return v
}

// Without drops the records whose key is in keys.
func (v View) Without(keys KeySet) View {
	recs := make([]UnusedRecord, 0, len(v.Records))
	for _, r := range v.Records {
		if !keys.Has(r.Key) {
			recs = append(recs, r)
		}
	}
	v.Records = recs
	return v
}

// SelectedKeys returns the keys of the selected records in display order.
func (v View) SelectedKeys() []string {
	var keys []string
	for _, r := range v.Records {
		if r.Selected {
			keys = append(keys, r.Key)
		}
	}
	return keys
}
