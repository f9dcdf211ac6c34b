package resxsweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testView() View {
	return View{}.WithRecords([]UnusedRecord{
		{Key: "A", Value: "a"},
		{Key: "B", Value: "b;text/plain"},
		{Key: "C", Value: "c"},
	})
}

func TestDerive_Empty(t *testing.T) {
	f := Derive(View{})
	assert.Equal(t, Flags{CanBrowse: true, CanRefresh: true}, f)
}

func TestDerive_RecordsWithoutSelection(t *testing.T) {
	f := Derive(testView())
	assert.False(t, f.ItemsSelected)
	assert.True(t, f.CanCopy)
	assert.True(t, f.CanDeleteAll)
	assert.False(t, f.CanDeleteSelected)
	assert.False(t, f.CanExclude)
}

func TestDerive_Selection(t *testing.T) {
	v := testView().WithSelection("B", true)
	f := Derive(v)
	assert.True(t, f.ItemsSelected)
	assert.True(t, f.CanDeleteSelected)
	assert.True(t, f.CanExclude)

	assert.False(t, Derive(v.WithSelection("B", false)).ItemsSelected)
}

func TestDerive_BusyDisablesEverything(t *testing.T) {
	f := Derive(testView().WithAllSelected(true).WithBusy(true))
	assert.Equal(t, Flags{ItemsSelected: true}, f)
}

func TestView_TransitionsDoNotMutate(t *testing.T) {
	v := testView()
	_ = v.WithAllSelected(true)
	_ = v.WithSelection("A", true)
	assert.Empty(t, v.SelectedKeys())
}

func TestView_Without(t *testing.T) {
	v := testView().WithAllSelected(true).Without(NewKeySet("A", "C"))
	assert.Equal(t, []string{"B"}, v.SelectedKeys())
	assert.Equal(t, "b", v.Records[0].FilePath())
}
