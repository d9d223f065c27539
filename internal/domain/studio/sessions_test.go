package studio

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

func TestCreateSession(t *testing.T) {
	s, _ := newTestStore(t, nil)

	first := s.CreateSession()
	second := s.CreateSession()

	sessions := s.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, second, sessions[0].ID, "newest session comes first")
	assert.Equal(t, first, sessions[1].ID)
	assert.Equal(t, second, s.ActiveSessionID())
	assert.Equal(t, "New Chat", sessions[0].Title)
	assert.Empty(t, sessions[0].Messages)
	assert.Equal(t, epoch, sessions[0].CreatedAt)
}

func TestCreateSessionClearsCanvas(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", anyCtx, anyReq).Return(imageResponse("QUJD"), nil)
	s, _ := newTestStore(t, gen)

	s.SetOriginalImage("https://example.com/room.jpg")
	_, err := s.Generate(ctx(), "bright loft")
	require.NoError(t, err)

	s.CreateSession()

	_, ok := s.CurrentRender()
	assert.False(t, ok)
	assert.Empty(t, s.OriginalImage())
	assert.Empty(t, s.Variations())
	assert.Len(t, s.RecentRenders(), 1, "recent renders survive a new session")
}

func TestSendMessageCreatesSession(t *testing.T) {
	s, _ := newTestStore(t, nil)

	sessionID, msg, err := s.SendMessage("Make it brighter", nil)
	require.NoError(t, err)

	sessions := s.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, sessionID, sessions[0].ID)
	assert.Equal(t, sessionID, s.ActiveSessionID())
	require.Len(t, sessions[0].Messages, 1)
	assert.Equal(t, msg, sessions[0].Messages[0])
	assert.Equal(t, types.RoleUser, msg.Role)
	assert.Equal(t, "Make it brighter", msg.Content)
	assert.True(t, s.IsTyping())
}

func TestSendMessageTitleSetOnce(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.CreateSession()

	sessionID, _, err := s.SendMessage("Make it brighter", nil)
	require.NoError(t, err)
	session, _ := s.Session(sessionID)
	assert.Equal(t, "Make it brighter...", session.Title)

	_, _, err = s.SendMessage("Now add a rug near the sofa", nil)
	require.NoError(t, err)
	session, _ = s.Session(sessionID)
	assert.Equal(t, "Make it brighter...", session.Title)
}

func TestSendMessageTitleCountsRunes(t *testing.T) {
	s, _ := newTestStore(t, nil)

	content := strings.Repeat("ü", 40)
	sessionID, _, err := s.SendMessage(content, nil)
	require.NoError(t, err)

	session, _ := s.Session(sessionID)
	assert.Equal(t, strings.Repeat("ü", 30)+"...", session.Title)
}

func TestAssistantReply(t *testing.T) {
	s, clk := newTestStore(t, nil)

	content := "Design a calm living room with oak floors and linen curtains for a family"
	sessionID, _, err := s.SendMessage(content, nil)
	require.NoError(t, err)

	clk.Advance(1499 * time.Millisecond)
	session, _ := s.Session(sessionID)
	assert.Len(t, session.Messages, 1, "reply must wait for the delay")
	assert.True(t, s.IsTyping())

	clk.Advance(time.Millisecond)
	session, _ = s.Session(sessionID)
	require.Len(t, session.Messages, 2)

	reply := session.Messages[1]
	assert.Equal(t, types.RoleAssistant, reply.Role)
	assert.Equal(t,
		`I'll help you create that design. Based on your request "Design a calm living room with oak floors and line...", I'll generate a modern style interior with attention to lighting and composition.`,
		reply.Content)
	assert.Equal(t, []string{"Make it brighter", "Add more plants", "Try a different style", "Show variations"}, reply.SuggestedActions)
	assert.Equal(t, epoch.Add(1500*time.Millisecond), reply.Timestamp)
	assert.False(t, s.IsTyping())
}

func TestAssistantReplyUsesStyleAtSendTime(t *testing.T) {
	s, clk := newTestStore(t, nil)

	sessionID, _, err := s.SendMessage("cozy den", nil)
	require.NoError(t, err)
	require.NoError(t, s.SetStyleByID("industrial"))

	clk.Advance(1500 * time.Millisecond)

	session, _ := s.Session(sessionID)
	require.Len(t, session.Messages, 2)
	assert.Contains(t, session.Messages[1].Content, "generate a modern style interior")
}

func TestAssistantReplyAfterSessionDeleted(t *testing.T) {
	s, clk := newTestStore(t, nil)

	sessionID, _, err := s.SendMessage("hello", nil)
	require.NoError(t, err)
	require.True(t, s.DeleteSession(sessionID))

	assert.NotPanics(t, func() { clk.Advance(2 * time.Second) })
	assert.False(t, s.IsTyping())
	assert.Empty(t, s.Sessions())
}

func TestSendMessageHealsUnknownActiveSession(t *testing.T) {
	s, _ := newTestStore(t, nil)
	existing := s.CreateSession()

	assert.False(t, s.SelectSession("sess_missing"))
	assert.Equal(t, "sess_missing", s.ActiveSessionID())

	sessionID, _, err := s.SendMessage("hi", nil)
	require.NoError(t, err)

	assert.NotEqual(t, existing, sessionID)
	assert.Equal(t, sessionID, s.ActiveSessionID())
	assert.Len(t, s.Sessions(), 2)

	old, _ := s.Session(existing)
	assert.Empty(t, old.Messages)
}

func TestSendMessageAttachments(t *testing.T) {
	s, _ := newTestStore(t, nil)

	_, msg, err := s.SendMessage("use this room", []types.AttachmentInput{
		{Type: types.AttachmentImage, URL: "blob:01ARZ3NDEKTSV4RRFFQ69G5FAV", Name: "room.png"},
	})
	require.NoError(t, err)
	require.Len(t, msg.Attachments, 1)
	assert.True(t, strings.HasPrefix(msg.Attachments[0].ID, "att_"))
	assert.Equal(t, "room.png", msg.Attachments[0].Name)

	_, _, err = s.SendMessage("bad", []types.AttachmentInput{{Type: "video", URL: "x"}})
	assert.ErrorIs(t, err, ErrInvalidAttachment)
}

func TestSendMessageAcceptsEmptyContent(t *testing.T) {
	s, _ := newTestStore(t, nil)

	sessionID, msg, err := s.SendMessage("", nil)
	require.NoError(t, err)
	assert.Empty(t, msg.Content)

	session, ok := s.Session(sessionID)
	require.True(t, ok)
	assert.Equal(t, "...", session.Title)
	assert.Len(t, session.Messages, 1)
}

func TestValidateMessage(t *testing.T) {
	assert.ErrorIs(t, ValidateMessage("   ", nil), ErrEmptyMessage)
	assert.NoError(t, ValidateMessage("brighter", nil))
	assert.NoError(t, ValidateMessage("", []types.AttachmentInput{
		{Type: types.AttachmentImage, URL: "https://example.com/room.jpg"},
	}))
}

func TestDeleteSession(t *testing.T) {
	s, _ := newTestStore(t, nil)
	first := s.CreateSession()
	second := s.CreateSession()

	assert.True(t, s.DeleteSession(first))
	assert.Equal(t, second, s.ActiveSessionID(), "deleting an inactive session keeps the pointer")

	assert.True(t, s.DeleteSession(second))
	assert.Empty(t, s.ActiveSessionID())
	assert.False(t, s.DeleteSession(second))
}

func TestSessionAccessorsReturnCopies(t *testing.T) {
	s, _ := newTestStore(t, nil)
	sessionID, _, err := s.SendMessage("hello", nil)
	require.NoError(t, err)

	session, _ := s.Session(sessionID)
	session.Messages[0].Content = "changed"
	session.Title = "changed"

	again, _ := s.Session(sessionID)
	assert.Equal(t, "hello", again.Messages[0].Content)
	assert.Equal(t, "hello...", again.Title)
}

func TestSessionSummaries(t *testing.T) {
	s, _ := newTestStore(t, nil)
	_, _, err := s.SendMessage("hello", nil)
	require.NoError(t, err)

	summaries := s.SessionSummaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].MessageCount)
}

func TestCloseCancelsPendingReplies(t *testing.T) {
	s, clk := newTestStore(t, nil)
	sessionID, _, err := s.SendMessage("hello", nil)
	require.NoError(t, err)

	s.Close()
	clk.Advance(2 * time.Second)

	session, _ := s.Session(sessionID)
	assert.Len(t, session.Messages, 1)
	assert.False(t, s.IsTyping())
	assert.Zero(t, clk.Pending())
}

func TestMutationsAfterClose(t *testing.T) {
	s, clk := newTestStore(t, &mockGenerator{})
	sessionID := s.CreateSession()
	collections := s.Collections()
	before := s.Snapshot()

	s.Close()
	assert.True(t, s.Closed())

	_, _, err := s.SendMessage("hi", nil)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.CreateCollection("Loft")
	assert.ErrorIs(t, err, ErrClosed)
	quality := types.QualityUltra
	assert.ErrorIs(t, s.UpdateSettings(types.SettingsPatch{Quality: &quality}), ErrClosed)
	assert.ErrorIs(t, s.SetStyleByID("coastal"), ErrClosed)
	open := false
	assert.ErrorIs(t, s.UpdateUI(types.UIPatch{RightPanelOpen: &open}), ErrClosed)
	_, err = s.Edit(ctx(), "add plants")
	assert.ErrorIs(t, err, ErrClosed)

	assert.Empty(t, s.CreateSession())
	assert.False(t, s.SelectSession(sessionID))
	assert.False(t, s.DeleteSession(sessionID))
	assert.False(t, s.AddToCollection(collections[0].ID, "rnd_1"))
	assert.False(t, s.RemoveFromCollection(collections[0].ID, "rnd_1"))
	assert.False(t, s.DeleteCollection(collections[0].ID))
	assert.False(t, s.SelectVariation("var_1"))
	s.SetOriginalImage("https://example.com/room.jpg")

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, sessionID, s.ActiveSessionID())
	assert.Empty(t, s.OriginalImage())
	assert.True(t, s.UI().RightPanelOpen)
	assert.Zero(t, clk.Pending())
}
