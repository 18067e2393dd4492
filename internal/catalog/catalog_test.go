package catalog

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BazaarWatch/internal/model"
)

func productMap(ids ...string) model.ProductMap {
	m := model.ProductMap{Items: make(map[string]*model.Product, len(ids))}
	for _, id := range ids {
		m.IDs = append(m.IDs, id)
		m.Items[id] = &model.Product{ProductID: id}
	}
	return m
}

func readyCatalog(t *testing.T, ids ...string) *Catalog {
	t.Helper()
	c := New()
	require.NoError(t, c.BeginLoad())
	c.Assign(productMap(ids...), time.UnixMilli(1700000000000))
	return c
}

func TestCatalog_Lifecycle(t *testing.T) {
	c := New()
	assert.Equal(t, StateUninitialized, c.State())
	assert.False(t, c.Loaded())

	require.NoError(t, c.BeginLoad())
	assert.Equal(t, StateLoading, c.State())
	assert.ErrorIs(t, c.BeginLoad(), ErrLoadStarted)

	c.Assign(productMap("A", "B"), time.Time{})
	assert.Equal(t, StateReady, c.State())
	assert.True(t, c.Loaded())
	assert.False(t, c.LoadedAt().IsZero())
	assert.NoError(t, c.Err())
}

func TestCatalog_FailLeavesCatalogUnset(t *testing.T) {
	c := New()
	require.NoError(t, c.BeginLoad())
	boom := errors.New("boom")
	c.Fail(boom)

	assert.Equal(t, StateFailed, c.State())
	assert.ErrorIs(t, c.Err(), boom)
	assert.Empty(t, c.IDs())
	assert.Zero(t, c.Len())

	_, _, err := c.Lookup("anything")
	var nl *NotLoadedError
	require.ErrorAs(t, err, &nl)
	assert.Equal(t, StateFailed, nl.State)
}

func TestCatalog_AssignKeepsIDsAndProductsInSync(t *testing.T) {
	m := productMap("C", "A", "B")
	m.IDs = append(m.IDs, "ORPHAN", "A")
	m.Items["EXTRA"] = &model.Product{}

	c := New()
	require.NoError(t, c.BeginLoad())
	c.Assign(m, time.Time{})

	ids := c.IDs()
	assert.Equal(t, []string{"C", "A", "B", "EXTRA"}, ids)
	assert.Equal(t, c.Len(), len(ids))
	for _, id := range ids {
		_, p, err := c.Lookup(id)
		require.NoError(t, err, id)
		assert.NotNil(t, p)
	}
}

func TestCatalog_IDsReturnsCopy(t *testing.T) {
	c := readyCatalog(t, "A", "B")
	ids := c.IDs()
	ids[0] = "MUTATED"
	assert.Equal(t, []string{"A", "B"}, c.IDs())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"enchanted carrot", "ENCHANTED_CARROT"},
		{"  Enchanted Carrot  ", "ENCHANTED_CARROT"},
		{"ENCHANTED_CARROT", "ENCHANTED_CARROT"},
		{"ink sack:3", "INK_SACK:3"},
		{"a  b", "A__B"},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		assert.Equal(t, tt.want, got, "Normalize(%q)", tt.in)
		assert.Equal(t, got, Normalize(got), "Normalize must be idempotent for %q", tt.in)
	}
}

func TestSuggest_EmptyQuery(t *testing.T) {
	c := readyCatalog(t, "ENCHANTED_CARROT")
	assert.Empty(t, c.Suggest("", 0))
	assert.Empty(t, c.Suggest("   ", 0))
}

func TestSuggest_NotLoaded(t *testing.T) {
	assert.Empty(t, New().Suggest("carrot", 0))
}

func TestSuggest_SubstringAnywhereInListOrder(t *testing.T) {
	c := readyCatalog(t, "ENCHANTED_CARROT", "CARROT_ITEM", "POTATO_ITEM", "ENCHANTED_GOLDEN_CARROT")

	got := c.Suggest("carrot", 0)
	require.Len(t, got, 3)
	assert.Equal(t, "ENCHANTED_CARROT", got[0].ID)
	assert.Equal(t, "CARROT_ITEM", got[1].ID)
	assert.Equal(t, "ENCHANTED_GOLDEN_CARROT", got[2].ID)
	assert.Equal(t, "ENCHANTED GOLDEN CARROT", got[2].Label)

	assert.Empty(t, c.Suggest("melon", 0))
}

func TestSuggest_CapsAtTen(t *testing.T) {
	var ids []string
	for i := 0; i < 25; i++ {
		ids = append(ids, fmt.Sprintf("ITEM_%02d", i))
	}
	c := readyCatalog(t, ids...)

	got := c.Suggest("item", 0)
	require.Len(t, got, MaxSuggestions)
	for i, s := range got {
		assert.Equal(t, ids[i], s.ID)
	}

	assert.Len(t, c.Suggest("item", 3), 3)
	assert.Len(t, c.Suggest("item", 50), MaxSuggestions)
}

func TestLookup(t *testing.T) {
	c := readyCatalog(t, "ENCHANTED_CARROT", "POTATO_ITEM")

	id, p, err := c.Lookup("enchanted carrot")
	require.NoError(t, err)
	assert.Equal(t, "ENCHANTED_CARROT", id)
	assert.Equal(t, "ENCHANTED_CARROT", p.ProductID)

	_, _, err = c.Lookup("   ")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	id, _, err = c.Lookup("nonexistent item")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "NONEXISTENT_ITEM", id)
	assert.Equal(t, "NONEXISTENT_ITEM", nf.ID)
	assert.Empty(t, nf.Closest)
}

func TestLookup_NotLoadedTakesPrecedence(t *testing.T) {
	c := New()
	_, _, err := c.Lookup("")
	var nl *NotLoadedError
	require.ErrorAs(t, err, &nl)
	assert.Equal(t, StateUninitialized, nl.State)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLookup_ClosestHint(t *testing.T) {
	c := readyCatalog(t, "ENCHANTED_CARROT", "POTATO_ITEM")

	_, _, err := c.Lookup("enchanted carot")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ENCHANTED_CARROT", nf.Closest)
}

func TestLookup_NullProductIsNotFound(t *testing.T) {
	m := productMap("REAL")
	m.IDs = append(m.IDs, "GHOST")
	m.Items["GHOST"] = nil

	c := New()
	require.NoError(t, c.BeginLoad())
	c.Assign(m, time.Time{})

	_, _, err := c.Lookup("ghost")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}
