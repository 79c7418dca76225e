package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("  Interview1 ")
	require.NoError(t, err)
	assert.Equal(t, StatusInterview1, s)

	_, err = ParseStatus("offer")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestIsTransitionAllowed(t *testing.T) {
	tests := []struct {
		from, to CandidateStatus
		want     bool
	}{
		{StatusPending, StatusAssessment, true},
		{StatusAssessment, StatusInterview1, true},
		{StatusInterview1, StatusInterview2, true},
		{StatusInterview2, StatusHR, true},
		{StatusHR, StatusHired, true},
		{StatusPending, StatusHired, false},
		{StatusInterview2, StatusInterview1, false},
		{StatusPending, StatusRejected, true},
		{StatusHR, StatusRejected, true},
		{StatusHired, StatusRejected, false},
		{StatusRejected, StatusPending, false},
		{StatusPending, StatusPending, true},
		{StatusPending, CandidateStatus("offer"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransitionAllowed(tt.from, tt.to))
		})
	}
}

func TestAllStatusesOrder(t *testing.T) {
	all := AllStatuses()
	require.Len(t, all, 7)
	assert.Equal(t, StatusPending, all[0])
	assert.Equal(t, StatusRejected, all[6])
	assert.Equal(t, "hr", StatusValues()[4])
}

func TestIsResumeFile(t *testing.T) {
	assert.True(t, IsResumeFile("a.pdf"))
	assert.True(t, IsResumeFile("B.PDF"))
	assert.False(t, IsResumeFile("notes.txt"))
	assert.False(t, IsResumeFile("pdf"))
}
