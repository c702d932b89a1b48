package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func videoSubject(videoID, channelID string) models.ApprovalSubject {
	return models.ApprovalSubject{
		Type:         models.RequestTypeVideo,
		VideoID:      videoID,
		ChannelID:    channelID,
		Title:        "Volcano experiment",
		ChannelTitle: "Science Kids",
	}
}

func TestRequestRejectsDuplicatePending(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.approvals()

	request, err := service.Request(child.ID, videoSubject("v1", "c1"), "please")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, parent.ID, request.ParentID)

	_, err = service.Request(child.ID, videoSubject("v1", "c1"), "please!!")
	assert.Equal(t, KindConflict, KindOf(err))

	// a different video is a different subject
	_, err = service.Request(child.ID, videoSubject("v2", "c1"), "")
	require.NoError(t, err)

	// once reviewed, the same video can be asked for again
	_, err = service.Review(request.ID, DecisionReject, parent.ID, "not today")
	require.NoError(t, err)
	_, err = service.Request(child.ID, videoSubject("v1", "c1"), "again")
	require.NoError(t, err)

	alerts := env.Notifier.ofType(models.NotificationApprovalRequest)
	assert.Len(t, alerts, 3)
	assert.Equal(t, 3, env.Hub.count(interfaces.EventApprovalRequested))
}

func TestRequestValidatesSubject(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.approvals()

	tests := []struct {
		name    string
		subject models.ApprovalSubject
	}{
		{"video without id", models.ApprovalSubject{Type: models.RequestTypeVideo}},
		{"channel without id", models.ApprovalSubject{Type: models.RequestTypeChannel, VideoID: "v1"}},
		{"unknown type", models.ApprovalSubject{Type: "playlist", VideoID: "v1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Request(child.ID, tt.subject, "")
			assert.Equal(t, KindInvalidInput, KindOf(err))
		})
	}
}

func TestApproveVideoWhitelistsOnlyTheVideo(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.approvals()

	request, err := service.Request(child.ID, videoSubject("v1", "c1"), "")
	require.NoError(t, err)

	reviewed, err := service.Review(request.ID, DecisionApprove, parent.ID, " enjoy ")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, reviewed.Status)
	assert.Equal(t, "enjoy", reviewed.ParentNotes)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, parent.ID, *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.Equal(t, env.Clock.Now(), *reviewed.ReviewedAt)

	videos, err := env.Whitelist.ListApprovedVideos(child.ID)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "v1", videos[0].VideoID)
	assert.Equal(t, parent.ID, videos[0].ApprovedBy)

	channels, err := env.Whitelist.ListApprovedChannels(child.ID)
	require.NoError(t, err)
	assert.Empty(t, channels)

	decisions := env.Notifier.ofType(models.NotificationApprovalDecision)
	require.Len(t, decisions, 1)
	assert.Equal(t, models.RecipientChild, decisions[0].Recipient)
	assert.Equal(t, 1, env.Hub.count(interfaces.EventApprovalDecided))

	// a reviewed request cannot be decided twice
	_, err = service.Review(request.ID, DecisionReject, parent.ID, "")
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestQuickApproveAlsoWhitelistsChannel(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.approvals()

	request, err := service.Request(child.ID, videoSubject("v1", "c1"), "")
	require.NoError(t, err)

	_, err = service.QuickApprove(request.ID, parent.ID)
	require.NoError(t, err)

	videos, err := env.Whitelist.ListApprovedVideos(child.ID)
	require.NoError(t, err)
	assert.Len(t, videos, 1)

	approved, err := env.Whitelist.IsChannelApproved(child.ID, "c1")
	require.NoError(t, err)
	assert.True(t, approved)
}

func TestQuickApproveRejectsChannelRequests(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.approvals()

	request, err := service.Request(child.ID, models.ApprovalSubject{Type: models.RequestTypeChannel, ChannelID: "c1"}, "")
	require.NoError(t, err)

	_, err = service.QuickApprove(request.ID, parent.ID)
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = service.Review(request.ID, DecisionApprove, parent.ID, "")
	require.NoError(t, err)
	approved, err := env.Whitelist.IsChannelApproved(child.ID, "c1")
	require.NoError(t, err)
	assert.True(t, approved)
}

func TestReviewChecksOwnership(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	stranger := env.createParent(t, "p2")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.approvals()

	request, err := service.Request(child.ID, videoSubject("v1", "c1"), "")
	require.NoError(t, err)

	_, err = service.Review(request.ID, DecisionApprove, stranger.ID, "")
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = service.Review(request.ID, "maybe", parent.ID, "")
	assert.Equal(t, KindInvalidInput, KindOf(err))

	err = service.Dismiss(request.ID, stranger.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, service.Dismiss(request.ID, parent.ID))
	pending, err := service.ListPending(parent.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestListPendingAndForChild(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.approvals()

	first, err := service.Request(child.ID, videoSubject("v1", "c1"), "")
	require.NoError(t, err)
	_, err = service.Request(child.ID, videoSubject("v2", "c1"), "")
	require.NoError(t, err)
	_, err = service.Review(first.ID, DecisionApprove, parent.ID, "")
	require.NoError(t, err)

	pending, err := service.ListPending(parent.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "v2", pending[0].VideoID)

	all, err := service.ListForChild(child.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
