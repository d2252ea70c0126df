package core_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notehub/pkg/core"
)

func TestNoteID_UnmarshalJSON(t *testing.T) {
	var payload struct {
		IDs []core.NoteID `json:"ids"`
	}
	err := json.Unmarshal([]byte(`{"ids": [7, "65f0c1", 12345678901]}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, []core.NoteID{"7", "65f0c1", "12345678901"}, payload.IDs)

	var bad core.NoteID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestParseTag(t *testing.T) {
	tag, err := core.ParseTag(" shopping ")
	require.NoError(t, err)
	assert.Equal(t, core.TagShopping, tag)

	_, err = core.ParseTag("urgent")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestTags_ReturnsCopy(t *testing.T) {
	tags := core.Tags()
	tags[0] = "Mutated"
	assert.Equal(t, core.TagTodo, core.Tags()[0])
}

func TestQuery_Normalize(t *testing.T) {
	q := core.Query{Page: 0, PageSize: -3, Search: "  milk  "}.Normalize()
	assert.Equal(t, core.Query{Page: 1, PageSize: 1, Search: "milk"}, q)
	assert.False(t, core.Query{Search: "   "}.HasSearch())
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		kind   error
	}{
		{400, core.ErrValidation},
		{422, core.ErrValidation},
		{404, core.ErrNotFound},
		{401, core.ErrServer},
		{500, core.ErrServer},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &core.APIError{Op: "op", StatusCode: tt.status, Kind: core.KindForStatus(tt.status)})
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	cause := errors.New("connection refused")
	netErr := &core.NetworkError{Op: "list notes", Err: cause}
	assert.ErrorIs(t, netErr, core.ErrNetwork)
	assert.ErrorIs(t, netErr, cause)
}
