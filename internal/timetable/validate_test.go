package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestValidateRequest(t *testing.T) {
	week := DefaultWeek()
	valid := models.ClassRequest{ID: "r", Department: "BSIT", Instructor: "X", ClassType: models.ClassTypeLecture, DurationHours: 1.5}
	assert.NoError(t, ValidateRequest(valid, week))

	cases := map[string]models.ClassRequest{
		"zero duration":      {ID: "r", Department: "BSIT", Instructor: "X", ClassType: models.ClassTypeLecture},
		"negative duration":  {ID: "r", Department: "BSIT", Instructor: "X", ClassType: models.ClassTypeLecture, DurationHours: -2},
		"oversized duration": {ID: "r", Department: "BSIT", Instructor: "X", ClassType: models.ClassTypeLecture, DurationHours: 14},
		"missing department": {ID: "r", Instructor: "X", ClassType: models.ClassTypeLecture, DurationHours: 1},
		"missing instructor": {ID: "r", Department: "BSIT", ClassType: models.ClassTypeLecture, DurationHours: 1},
		"bad class type":     {ID: "r", Department: "BSIT", Instructor: "X", ClassType: "seminar", DurationHours: 1},
	}
	for name, req := range cases {
		assert.Error(t, ValidateRequest(req, week), name)
	}
}

func TestSplitValid(t *testing.T) {
	week := DefaultWeek()
	batch := []models.ClassRequest{
		{ID: "good", Department: "BSIT", Instructor: "X", ClassType: models.ClassTypeLecture, DurationHours: 2},
		{ID: "bad", Department: "BSIT", Instructor: "X", ClassType: models.ClassTypeLecture, DurationHours: 0},
	}

	valid, rejected := SplitValid(batch, week)
	require.Len(t, valid, 1)
	require.Len(t, rejected, 1)
	assert.Equal(t, "good", valid[0].ID)
	assert.Equal(t, "bad", rejected[0].Request.ID)
	assert.NotEmpty(t, rejected[0].Reason)
}
