package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id string) Item {
	return Item{ID: id, Kind: KindApp, Title: id}
}

func TestNewList_SelectsFirstSelectable(t *testing.T) {
	l := NewList(Header("Apps"), row("a"), row("b"))
	assert.Equal(t, 1, l.SelectedIndex())

	it, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", it.ID)
}

func TestNewList_Empty(t *testing.T) {
	l := NewList()
	assert.Equal(t, NoSelection, l.SelectedIndex())
	_, ok := l.Selected()
	assert.False(t, ok)
}

func TestNewList_OnlyHeaders(t *testing.T) {
	l := NewList(Header("Apps"), Header("Files"))
	assert.Equal(t, NoSelection, l.SelectedIndex())
}

func TestSelect_RefusesHeaders(t *testing.T) {
	l := NewList(row("a"), Header("Files"), row("b"))
	assert.False(t, l.Select(1))
	assert.Equal(t, 0, l.SelectedIndex())
	assert.False(t, l.Select(7))
	assert.True(t, l.Select(2))
	assert.Equal(t, 2, l.SelectedIndex())
}

func TestReplace_KeepsSelectedID(t *testing.T) {
	l := NewList(row("a"), row("b"), row("c"))
	require.True(t, l.Select(2))

	l.Replace([]Item{row("c"), row("x")})
	assert.Equal(t, 0, l.SelectedIndex())
}

func TestReplace_ClampsWhenSelectionVanishes(t *testing.T) {
	l := NewList(row("a"), row("b"), row("c"), row("d"))
	require.True(t, l.Select(3))

	l.Replace([]Item{row("x"), row("y")})
	assert.Equal(t, 1, l.SelectedIndex())
}

func TestReplace_SkipsTrailingHeader(t *testing.T) {
	l := NewList(row("a"), row("b"), row("c"))
	require.True(t, l.Select(2))

	l.Replace([]Item{row("x"), row("y"), Header("More")})
	assert.Equal(t, 1, l.SelectedIndex())
}

func TestReplace_ToEmpty(t *testing.T) {
	l := NewList(row("a"))
	l.Replace(nil)
	assert.Equal(t, NoSelection, l.SelectedIndex())
	assert.Equal(t, 0, l.Len())
}

func TestReplaceByID(t *testing.T) {
	l := NewList(Info("ip:local", "Local IP", "resolving…"), Info("ip:public", "Public IP", "resolving…"))

	ok := l.ReplaceByID(Info("ip:public", "Public IP", "203.0.113.7"))
	require.True(t, ok)
	assert.Equal(t, "203.0.113.7", l.At(1).Subtitle)
	assert.Equal(t, "resolving…", l.At(0).Subtitle)
	assert.Equal(t, 0, l.SelectedIndex())

	assert.False(t, l.ReplaceByID(row("missing")))
}

func TestItems_ReturnsCopy(t *testing.T) {
	l := NewList(row("a"))
	items := l.Items()
	items[0].Title = "mutated"
	assert.Equal(t, "a", l.At(0).Title)
}

func TestItemPromotion(t *testing.T) {
	it := Item{ID: "u", Kind: KindUtility, Promotion: PromoteUtility}
	assert.True(t, it.SupportsPromotion())
	assert.False(t, row("a").SupportsPromotion())
	assert.False(t, Header("x").Selectable())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bookmark", KindBookmark.String())
	k, ok := ParseKind("utility")
	assert.True(t, ok)
	assert.Equal(t, KindUtility, k)
	_, ok = ParseKind("nope")
	assert.False(t, ok)
}
