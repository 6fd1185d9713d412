package docfields_test

import (
	"testing"

	"shopfloor/internal/pkg/docfields"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ID       string `json:"_id"`
	Quantity int    `json:"quantity"`
}

func TestExtra(t *testing.T) {
	t.Run("should drop known keys and keep the rest", func(t *testing.T) {
		extra, err := docfields.Extra(
			[]byte(`{"_id":"a1","quantity":2,"glass_name":"Flint","size":{"ml":250}}`),
			"_id", "quantity",
		)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"glass_name": "Flint",
			"size":       map[string]any{"ml": float64(250)},
		}, extra)
	})

	t.Run("should return nil when only known keys are present", func(t *testing.T) {
		extra, err := docfields.Extra([]byte(`{"_id":"a1"}`), "_id")

		require.NoError(t, err)
		assert.Nil(t, extra)
	})

	t.Run("should reject non-object input", func(t *testing.T) {
		_, err := docfields.Extra([]byte(`[1,2]`))

		require.Error(t, err)
	})
}

func TestMerge(t *testing.T) {
	t.Run("should write extras at the top level", func(t *testing.T) {
		data, err := docfields.Merge(line{ID: "a1", Quantity: 2}, map[string]any{"glass_name": "Flint"})

		require.NoError(t, err)
		assert.JSONEq(t, `{"_id":"a1","quantity":2,"glass_name":"Flint"}`, string(data))
	})

	t.Run("should let typed and known keys win", func(t *testing.T) {
		data, err := docfields.Merge(
			line{ID: "a1", Quantity: 2},
			map[string]any{"quantity": 99, "team_tracking": "forged"},
			"team_tracking",
		)

		require.NoError(t, err)
		assert.JSONEq(t, `{"_id":"a1","quantity":2}`, string(data))
	})

	t.Run("should marshal typed alone without extras", func(t *testing.T) {
		data, err := docfields.Merge(line{ID: "a1"}, nil)

		require.NoError(t, err)
		assert.JSONEq(t, `{"_id":"a1","quantity":0}`, string(data))
	})
}
