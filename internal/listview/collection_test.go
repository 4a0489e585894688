package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newItemCollection() *Collection[item] {
	c := NewCollection(func(r item) string { return r.ID })
	c.Replace(sampleItems())
	return c
}

func TestCollection_PatchOnlyAffectsTarget(t *testing.T) {
	c := newItemCollection()
	before := c.Rows()

	ok := c.Patch("2", func(r *item) { r.Active = true })
	assert.True(t, ok)

	after := c.Rows()
	for i := range after {
		if after[i].ID == "2" {
			assert.True(t, after[i].Active)
			continue
		}
		assert.Equal(t, before[i], after[i])
	}
	assert.False(t, c.Patch("missing", func(r *item) { r.Active = true }))
}

func TestCollection_RemoveWhere(t *testing.T) {
	c := newItemCollection()

	n := c.RemoveWhere(func(r item) bool { return r.Category == "c1" })
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"2", "4", "5"}, ids(c.Rows()))

	_, ok := c.Get("1")
	assert.False(t, ok)
}

func TestCollection_RowsIsCopy(t *testing.T) {
	c := newItemCollection()
	rows := c.Rows()
	rows[0].Name = "mutated"

	got, _ := c.Get("1")
	assert.Equal(t, "Phones", got.Name)
}

func TestCollection_LoadedAndPrepend(t *testing.T) {
	c := NewCollection(func(r item) string { return r.ID })
	assert.False(t, c.Loaded())

	c.Replace(nil)
	assert.True(t, c.Loaded())

	c.Prepend(item{ID: "new"})
	c.Prepend(item{ID: "newer"})
	assert.Equal(t, []string{"newer", "new"}, ids(c.Rows()))
}

func TestCollection_Splice(t *testing.T) {
	c := newItemCollection()

	n := c.Splice(func(r item) bool { return r.Category == "c2" }, []item{{ID: "x"}, {ID: "y"}, {ID: "z"}})
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"1", "x", "y", "z", "3", "5"}, ids(c.Rows()))

	n = c.Splice(func(r item) bool { return r.ID == "none" }, []item{{ID: "tail"}})
	assert.Zero(t, n)
	assert.Equal(t, "tail", c.Rows()[c.Len()-1].ID)
}
