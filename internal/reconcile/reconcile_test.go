package reconcile

import (
	"testing"

	"eventtracks/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestApplyCreateThenDelete(t *testing.T) {
	created := domain.EventTrack{ID: 1, Name: "A"}
	got := ApplyDelete(ApplyCreate([]domain.EventTrack{}, created), 1)
	assert.Empty(t, got)
}

func TestApplyCreate_AppendsWithoutMutatingInput(t *testing.T) {
	base := make([]domain.EventTrack, 1, 4)
	base[0] = domain.EventTrack{ID: 1, Name: "A"}

	got := ApplyCreate(base, domain.EventTrack{ID: 2, Name: "B"})
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[1].ID)

	again := ApplyCreate(base, domain.EventTrack{ID: 3, Name: "C"})
	assert.Equal(t, int64(2), got[1].ID, "second append must not overwrite first result")
	assert.Equal(t, int64(3), again[1].ID)
	assert.Len(t, base, 1)
}

func TestApplyEdit(t *testing.T) {
	tests := []struct {
		name  string
		input []domain.EventTrack
		id    int64
		patch domain.EventTrackPatch
		want  []domain.EventTrack
	}{
		{
			name:  "matching id",
			input: []domain.EventTrack{{ID: 5, Name: "old", Description: "keep"}},
			id:    5,
			patch: domain.EventTrackPatch{ID: 5, Name: ptr("new")},
			want:  []domain.EventTrack{{ID: 5, Name: "new", Description: "keep"}},
		},
		{
			name:  "unknown id is a no-op",
			input: []domain.EventTrack{{ID: 5, Name: "old"}},
			id:    999,
			patch: domain.EventTrackPatch{ID: 999, Name: ptr("new")},
			want:  []domain.EventTrack{{ID: 5, Name: "old"}},
		},
		{
			name:  "empty collection",
			input: []domain.EventTrack{},
			id:    1,
			patch: domain.EventTrackPatch{ID: 1, Name: ptr("new")},
			want:  []domain.EventTrack{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyEdit(tt.input, tt.id, tt.patch.Apply)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyEdit_DoesNotMutateInput(t *testing.T) {
	input := []domain.Event{{ID: 1, Name: "old", Capacity: 10}}
	got := ApplyEdit(input, 1, domain.EventPatch{ID: 1, Capacity: ptr(20)}.Apply)
	assert.Equal(t, 20, got[0].Capacity)
	assert.Equal(t, 10, input[0].Capacity)
}

func TestApplyDelete(t *testing.T) {
	input := []domain.Feedback{{ID: 1}, {ID: 2}, {ID: 3}}
	assert.Equal(t, []domain.Feedback{{ID: 1}, {ID: 3}}, ApplyDelete(input, 2))
	assert.Equal(t, input, ApplyDelete(input, 42))
	assert.Len(t, input, 3)
}

func TestRemoveWhere_Cascade(t *testing.T) {
	events := []domain.Event{{ID: 1, TrackID: 7}, {ID: 2, TrackID: 8}, {ID: 3, TrackID: 7}}
	got := RemoveWhere(events, func(e domain.Event) bool { return e.TrackID == 7 })
	assert.Equal(t, []domain.Event{{ID: 2, TrackID: 8}}, got)
}

// Applying confirmed mutations locally converges with what a full re-fetch of
// the server state would return.
func TestConvergesWithRefetch(t *testing.T) {
	server := []domain.EventTrack{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	local := append([]domain.EventTrack(nil), server...)

	server = append(server, domain.EventTrack{ID: 3, Name: "C"})
	local = ApplyCreate(local, domain.EventTrack{ID: 3, Name: "C"})

	server[0].Name = "A2"
	local = ApplyEdit(local, 1, domain.EventTrackPatch{ID: 1, Name: ptr("A2")}.Apply)

	server = server[1:]
	local = ApplyDelete(local, 1)

	assert.Equal(t, server, local)
}

func TestFind(t *testing.T) {
	input := []domain.Event{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	got, ok := Find(input, 2)
	require.True(t, ok)
	assert.Equal(t, "b", got.Name)

	_, ok = Find(input, 3)
	assert.False(t, ok)
}
