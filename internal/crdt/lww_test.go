package crdt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/models"
)

func reg(value string, ts int64, eventID string) models.Register {
	return models.Register{
		Value:     json.RawMessage(value),
		UpdatedAt: time.Unix(ts, 0).UTC(),
		EventID:   eventID,
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		existing models.Register
		incoming models.Register
		exists   bool
		outcome  Outcome
		expected models.Register
	}{
		{
			name:     "insert when absent",
			incoming: reg(`"a"`, 10, "e1"),
			outcome:  Inserted,
			expected: reg(`"a"`, 10, "e1"),
		},
		{
			name:     "newer overwrites",
			existing: reg(`"a"`, 10, "e1"),
			exists:   true,
			incoming: reg(`"b"`, 20, "e2"),
			outcome:  Overwrote,
			expected: reg(`"b"`, 20, "e2"),
		},
		{
			name:     "older is discarded",
			existing: reg(`"a"`, 20, "e1"),
			exists:   true,
			incoming: reg(`"b"`, 10, "e2"),
			outcome:  Kept,
			expected: reg(`"a"`, 20, "e1"),
		},
		{
			name:     "tie keeps local",
			existing: reg(`"a"`, 10, "e1"),
			exists:   true,
			incoming: reg(`"b"`, 10, "e2"),
			outcome:  Kept,
			expected: reg(`"a"`, 10, "e1"),
		},
		{
			name:     "same event is a duplicate",
			existing: reg(`"a"`, 10, "e1"),
			exists:   true,
			incoming: reg(`"a"`, 10, "e1"),
			outcome:  Duplicate,
			expected: reg(`"a"`, 10, "e1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, outcome := Merge(tt.existing, tt.exists, tt.incoming)
			assert.Equal(t, tt.outcome, outcome)
			assert.True(t, tt.expected.Equal(merged))
		})
	}
}

func TestMergeFields_Commutative(t *testing.T) {
	e1 := map[string]models.Register{
		"title": reg(`"first"`, 100, "e1"),
		"notes": reg(`"n1"`, 100, "e1"),
	}
	e2 := map[string]models.Register{
		"title":  reg(`"second"`, 90, "e2"),
		"status": reg(`"open"`, 90, "e2"),
	}

	forward := models.NewEntityState(models.KindTask, "t1")
	MergeFields(forward, e1)
	MergeFields(forward, e2)

	backward := models.NewEntityState(models.KindTask, "t1")
	MergeFields(backward, e2)
	MergeFields(backward, e1)

	assert.True(t, forward.Equal(backward))
	assert.Equal(t, "first", forward.String("title"))
	assert.Equal(t, "open", forward.String("status"))
	assert.Equal(t, time.Unix(100, 0).UTC(), forward.UpdatedAt)
}

func TestMergeFields_Result(t *testing.T) {
	state := models.NewEntityState(models.KindTask, "t1")
	MergeFields(state, map[string]models.Register{
		"title": reg(`"a"`, 100, "e1"),
	})

	res := MergeFields(state, map[string]models.Register{
		"title": reg(`"b"`, 50, "e2"),
		"notes": reg(`"x"`, 50, "e2"),
	})

	require.False(t, res.Changed() && len(res.Lost) == 0)
	assert.Equal(t, []string{"notes"}, res.Won)
	assert.Equal(t, []string{"title"}, res.Lost)
	assert.Equal(t, time.Unix(100, 0).UTC(), res.LocalMax)

	again := MergeFields(state, map[string]models.Register{
		"title": reg(`"a"`, 100, "e1"),
	})
	assert.False(t, again.Changed())
	assert.Equal(t, 1, again.Duplicate)
}
