package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BazaarWatch/internal/catalog"
	"BazaarWatch/internal/model"
)

func sampleResponse() *model.BazaarResponse {
	return &model.BazaarResponse{
		Success:     true,
		LastUpdated: 1700000000000,
		Products: model.ProductMap{
			IDs: []string{"ENCHANTED_CARROT", "CARROT_ITEM"},
			Items: map[string]*model.Product{
				"ENCHANTED_CARROT": {ProductID: "ENCHANTED_CARROT"},
				"CARROT_ITEM":      {ProductID: "CARROT_ITEM"},
			},
		},
	}
}

func TestCollector_LoadSuccess(t *testing.T) {
	cat := catalog.New()
	col := NewCollector(&MockFetcher{Response: sampleResponse()})

	require.NoError(t, col.Load(context.Background(), cat))
	assert.Equal(t, catalog.StateReady, cat.State())
	assert.Equal(t, cat.Len(), len(cat.IDs()))
	assert.Equal(t, []string{"ENCHANTED_CARROT", "CARROT_ITEM"}, cat.IDs())
	assert.Equal(t, int64(1700000000000), cat.UpdatedAt().UnixMilli())
}

func TestCollector_LoadIsOneShot(t *testing.T) {
	cat := catalog.New()
	mf := &MockFetcher{Response: sampleResponse()}
	col := NewCollector(mf)

	require.NoError(t, col.Load(context.Background(), cat))
	assert.ErrorIs(t, col.Load(context.Background(), cat), catalog.ErrLoadStarted)
	assert.Equal(t, 1, mf.Calls())
}

func TestCollector_APIFailure(t *testing.T) {
	tests := []struct {
		name      string
		cause     string
		wantCause string
	}{
		{"with cause", "Invalid API key", "Invalid API key"},
		{"without cause", "", "API request failed."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := catalog.New()
			col := NewCollector(&MockFetcher{Response: &model.BazaarResponse{Success: false, Cause: tt.cause}})

			err := col.Load(context.Background(), cat)
			var ae *APIError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantCause, ae.Error())
			assert.Equal(t, catalog.StateFailed, cat.State())
			assert.Empty(t, cat.IDs())
		})
	}
}

func TestCollector_NetworkFailureLeavesCatalogUnset(t *testing.T) {
	cat := catalog.New()
	col := NewCollector(&MockFetcher{Err: &NetworkError{StatusCode: 503}})

	err := col.Load(context.Background(), cat)
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 503, ne.StatusCode)
	assert.Equal(t, "HTTP error! status: 503", ne.Error())

	_, _, lookupErr := cat.Lookup("enchanted carrot")
	var nl *catalog.NotLoadedError
	assert.ErrorAs(t, lookupErr, &nl)
	assert.Empty(t, cat.Suggest("carrot", 0))
}

func TestCollector_NilResponse(t *testing.T) {
	cat := catalog.New()
	err := NewCollector(&MockFetcher{}).Load(context.Background(), cat)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
