package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComplaint_BeforeSave_Downtime(t *testing.T) {
	testCases := []struct {
		name             string
		failureDate      time.Time
		recoveryDate     time.Time
		initialDowntime  int
		expectedDowntime int
	}{
		{
			name:             "four days between failure and recovery",
			failureDate:      date("2024-03-01"),
			recoveryDate:     date("2024-03-05"),
			expectedDowntime: 4,
		},
		{
			name:             "same day recovery",
			failureDate:      date("2024-03-01"),
			recoveryDate:     date("2024-03-01"),
			expectedDowntime: 0,
		},
		{
			name:             "recomputed on edit, caller value discarded",
			failureDate:      date("2024-01-10"),
			recoveryDate:     date("2024-01-12"),
			initialDowntime:  99,
			expectedDowntime: 2,
		},
		{
			name:             "missing recovery date leaves downtime untouched",
			failureDate:      date("2024-03-01"),
			initialDowntime:  7,
			expectedDowntime: 7,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Complaint{
				FailureDate:  tc.failureDate,
				RecoveryDate: tc.recoveryDate,
				Downtime:     tc.initialDowntime,
			}
			require.NoError(t, c.BeforeSave(nil))
			assert.Equal(t, tc.expectedDowntime, c.Downtime)
		})
	}
}
