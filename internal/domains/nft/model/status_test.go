package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusRank(t *testing.T) {
	assert.Less(t, StatusDraft.Rank(), StatusPublished.Rank())
	assert.Less(t, StatusPublished.Rank(), StatusArchived.Rank())
	assert.Equal(t, -1, Status("bogus").Rank())
}

func TestStatusCanAdvance(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusPublished, true},
		{StatusDraft, StatusArchived, true},
		{StatusPublished, StatusArchived, true},
		{StatusPublished, StatusDraft, false},
		{StatusArchived, StatusPublished, false},
		{StatusDraft, StatusDraft, false},
		{StatusDraft, Status("bogus"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanAdvance(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
