package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.June, day, hour, minute, 0, 0, time.UTC)
}

func booking(id string, start, end time.Time) Booking {
	return Booking{ID: id, Title: "Booking " + id, Start: start, End: end}
}

func TestFindConflict(t *testing.T) {
	existing := booking("a", at(27, 10, 0), at(27, 11, 0))

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantFound bool
	}{
		{"same interval", at(27, 10, 0), at(27, 11, 0), true},
		{"starts inside", at(27, 10, 30), at(27, 11, 30), true},
		{"ends inside", at(27, 9, 30), at(27, 10, 30), true},
		{"contains booking", at(27, 9, 0), at(27, 12, 0), true},
		{"inside booking", at(27, 10, 15), at(27, 10, 45), true},
		{"touches end", at(27, 11, 0), at(27, 12, 0), false},
		{"touches start", at(27, 9, 0), at(27, 10, 0), false},
		{"other day", at(28, 10, 0), at(28, 11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FindConflict(tt.start, tt.end, []Booking{existing})
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, "a", got.ID)
			} else {
				assert.Equal(t, Booking{}, got)
			}
		})
	}
}

func TestFindConflict_IndependentOfOrderWhenOneOverlaps(t *testing.T) {
	overlapping := booking("overlap", at(27, 14, 0), at(27, 15, 30))
	idle := booking("idle", at(27, 9, 0), at(27, 10, 0))
	start, end := at(27, 14, 30), at(27, 15, 30)

	first, ok := FindConflict(start, end, []Booking{overlapping, idle})
	assert.True(t, ok)
	second, ok := FindConflict(start, end, []Booking{idle, overlapping})
	assert.True(t, ok)
	assert.Equal(t, first, second)
}

func TestFindConflict_FirstInSuppliedOrder(t *testing.T) {
	later := booking("later", at(27, 10, 30), at(27, 11, 30))
	earlier := booking("earlier", at(27, 9, 30), at(27, 10, 30))

	got, ok := FindConflict(at(27, 10, 0), at(27, 11, 0), []Booking{later, earlier})
	assert.True(t, ok)
	assert.Equal(t, "later", got.ID)
}

func TestFindConflict_Empty(t *testing.T) {
	_, ok := FindConflict(at(27, 10, 0), at(27, 11, 0), nil)
	assert.False(t, ok)
}

func TestBookingValidate(t *testing.T) {
	assert.NoError(t, booking("ok", at(27, 9, 0), at(27, 10, 0)).Validate())
	assert.ErrorIs(t, booking("", at(27, 9, 0), at(27, 10, 0)).Validate(), ErrInvalidBooking)
	assert.ErrorIs(t, booking("zero", at(27, 9, 0), at(27, 9, 0)).Validate(), ErrInvalidBooking)
	assert.ErrorIs(t, booking("backwards", at(27, 10, 0), at(27, 9, 0)).Validate(), ErrInvalidBooking)
}
