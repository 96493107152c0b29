package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntitlementWindows(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name  string
		until *time.Time
		want  bool
	}{
		{name: "unset", until: nil, want: false},
		{name: "expired", until: &past, want: false},
		{name: "expires exactly now", until: &now, want: false},
		{name: "future", until: &future, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Master{SubUntil: tt.until, PriorityUntil: tt.until, PinUntil: tt.until}
			assert.Equal(t, tt.want, m.SubActive(now))
			assert.Equal(t, tt.want, m.PriorityActive(now))
			assert.Equal(t, tt.want, m.PinActive(now))
		})
	}
}

func TestLevelRank(t *testing.T) {
	verified := Master{Level: LevelVerified}
	checked := Master{Level: LevelChecked}
	candidate := Master{Level: LevelCandidate}
	unknown := Master{Level: "whatever"}

	assert.Greater(t, verified.LevelRank(), checked.LevelRank())
	assert.Greater(t, checked.LevelRank(), candidate.LevelRank())
	assert.Equal(t, candidate.LevelRank(), unknown.LevelRank())
}

func TestSkillTierFor(t *testing.T) {
	tests := []struct {
		completed int
		want      string
	}{
		{completed: 0, want: SkillTierNovice},
		{completed: 19, want: SkillTierNovice},
		{completed: 20, want: SkillTierMaster},
		{completed: 49, want: SkillTierMaster},
		{completed: 50, want: SkillTierProfessional},
		{completed: 500, want: SkillTierProfessional},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SkillTierFor(tt.completed), "completed=%d", tt.completed)
	}
}

func TestHasDocuments(t *testing.T) {
	assert.False(t, (&Master{}).HasDocuments())
	assert.True(t, (&Master{PassportScanFileID: "f1"}).HasDocuments())
	assert.True(t, (&Master{FacePhotoFileID: "f2"}).HasDocuments())
	assert.True(t, (&Master{TaxDocFileID: "f3"}).HasDocuments())
}
