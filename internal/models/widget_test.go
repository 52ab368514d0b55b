package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_PendingEncodesAsNullRow(t *testing.T) {
	b, err := json.Marshal(PendingPosition())
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":0,"y":null}`, string(b))

	var p Position
	require.NoError(t, json.Unmarshal([]byte(`{"x":1,"y":null}`), &p))
	assert.True(t, p.Pending)
	assert.Equal(t, 1, p.X)

	require.NoError(t, json.Unmarshal([]byte(`{"x":2,"y":3}`), &p))
	assert.False(t, p.Pending)
	assert.Equal(t, Position{X: 2, Y: 3}, p)
}

func TestVisibility_UnknownDecodesPublic(t *testing.T) {
	var w Widget
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","type":"text","visibility":"friends"}`), &w))
	assert.Equal(t, VisibilityPublic, w.Visibility)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","type":"text","visibility":"private"}`), &w))
	assert.True(t, w.IsPrivate())
	assert.Equal(t, VisibilityPublic, w.Visibility.Toggled())
}

func TestClone_DoesNotAliasConfig(t *testing.T) {
	orig := Widget{
		ID:     "a",
		Type:   "text",
		Config: Config{"text": "hi", "nested": map[string]any{"k": "v"}, "list": []any{"x"}},
	}
	cp := orig.Clone()
	cp.Config["text"] = "changed"
	cp.Config["nested"].(map[string]any)["k"] = "changed"
	cp.Config["list"].([]any)[0] = "changed"

	assert.Equal(t, "hi", orig.Config["text"])
	assert.Equal(t, "v", orig.Config["nested"].(map[string]any)["k"])
	assert.Equal(t, "x", orig.Config["list"].([]any)[0])
}

func TestClone_NilConfigBecomesEmpty(t *testing.T) {
	cp := Widget{ID: "a"}.Clone()
	assert.NotNil(t, cp.Config)
	assert.Empty(t, cp.Config)
}

func TestValidateWidgets(t *testing.T) {
	assert.NoError(t, ValidateWidgets(nil))
	assert.NoError(t, ValidateWidgets([]Widget{{ID: "a", Type: "x"}, {ID: "b", Type: "y"}}))
	assert.Error(t, ValidateWidgets([]Widget{{ID: "a", Type: "x"}, {ID: "a", Type: "y"}}))
	assert.Error(t, ValidateWidgets([]Widget{{ID: "", Type: "x"}}))
	assert.Error(t, ValidateWidgets([]Widget{{ID: "a"}}))
}

func TestLayoutRecord_IsOwner(t *testing.T) {
	rec := LayoutRecord{OwnerIDs: []string{"u1", "u2"}}
	assert.True(t, rec.IsOwner("u2"))
	assert.False(t, rec.IsOwner("u3"))
	assert.False(t, rec.IsOwner(""))
}
