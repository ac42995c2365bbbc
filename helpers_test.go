package difflog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack(t *testing.T) {
	data := map[string]any{"key": "value"}

	changes, err := Track(data, func() error {
		data["key"] = "modified"
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, 1, changes.Len())
	assert.Equal(t, ActionEdited, changes.Entries()[0].Action)
	assert.Equal(t, "key", changes.Entries()[0].KeyPath)
}

func TestTrackReturnsCallerErrorUnchanged(t *testing.T) {
	sentinel := errors.New("caller failure")
	data := map[string]any{"key": "value"}

	changes, err := Track(data, func() error {
		data["key"] = "modified"
		return sentinel
	})

	assert.Same(t, sentinel, err)
	require.Equal(t, 1, changes.Len(), "mutation before the error must be recorded")
}

func TestTrackerPanicStillRecords(t *testing.T) {
	tracker := NewTracker()
	data := map[string]any{"key": "value"}

	assert.PanicsWithValue(t, "boom", func() {
		_ = tracker.Track(data, func() error {
			data["key"] = "modified"
			panic("boom")
		})
	})

	require.Equal(t, 1, tracker.Len(), "the mutation before the panic must be recorded")
	assert.Equal(t, "key", tracker.Entries()[0]["key_path"])
}

func TestTrackWithPrefix(t *testing.T) {
	data := map[string]any{"key": "value"}

	changes, err := TrackWithPrefix(data, "user.", func() error {
		data["key"] = "modified"
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, 1, changes.Len())
	assert.Equal(t, "user.key", changes.Entries()[0].KeyPath)
}

func TestTrackIndependentLogs(t *testing.T) {
	data := map[string]any{"key": "value"}

	first, err := Track(data, func() error {
		data["key"] = "first"
		return nil
	})
	require.NoError(t, err)

	second, err := Track(data, func() error {
		data["key"] = "second"
		return nil
	})
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	require.Equal(t, 1, first.Len())
	require.Equal(t, 1, second.Len())
	assert.Equal(t, "first", first.Entries()[0].NewValue)
	assert.Equal(t, "second", second.Entries()[0].NewValue)
}

func TestTrackerAccumulates(t *testing.T) {
	tracker := NewTracker()

	data := map[string]any{"key": "value"}
	require.NoError(t, tracker.Track(data, func() error {
		data["key"] = "modified"
		return nil
	}))

	other := map[string]any{"n": 1}
	require.NoError(t, tracker.TrackWithPrefix(other, "counters.", func() error {
		other["n"] = 2
		return nil
	}))

	entries := tracker.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "edited", entries[0]["action"])
	assert.Equal(t, "key", entries[0]["key_path"])
	assert.Equal(t, "counters.n", entries[1]["key_path"])
}

func TestTrackerAdd(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Add(ActionAdded, "test.key", nil, "test_value"))
	require.Equal(t, 1, tracker.Len())

	entries := tracker.Entries()
	assert.Equal(t, "test.key", entries[0]["key_path"])
	assert.Equal(t, "test_value", entries[0]["new_value"])

	err := tracker.Add(Action("invalid"), "k", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestTrackerToJSON(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Add(ActionAdded, "user.name", nil, "John"))

	out, err := tracker.ToJSON("")
	require.NoError(t, err)
	assert.Contains(t, out, `"user.name"`)
	assert.Contains(t, out, `"added"`)
}

func TestTrackerReset(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Add(ActionAdded, "k", nil, "v"))
	require.Equal(t, 1, tracker.Len())

	tracker.Reset()
	assert.Zero(t, tracker.Len())
	assert.Empty(t, tracker.Entries())
}

func TestTrackerExposesChangeLog(t *testing.T) {
	tracker := NewTracker()
	require.NotNil(t, tracker.ChangeLog())
	require.NoError(t, tracker.ChangeLog().Add(ActionAdded, "k", nil, "v"))
	assert.Equal(t, 1, tracker.Len())
}
