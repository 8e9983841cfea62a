package viewstate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"notes-app/internal/model"
	"notes-app/internal/service"
	"notes-app/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEditController_NewNote(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		opts []EditOption
		want func(*testing.T, model.Color)
	}{
		{
			name: "sentinel id picks a palette color",
			id:   -1,
			opts: []EditOption{WithRand(rand.New(rand.NewPCG(1, 2)))},
			want: func(t *testing.T, c model.Color) {
				assert.True(t, c.InPalette(), "color %s should be in the palette", c.Hex())
			},
		},
		{
			name: "zero id with default random source",
			id:   0,
			want: func(t *testing.T, c model.Color) {
				assert.True(t, c.InPalette(), "color %s should be in the palette", c.Hex())
			},
		},
		{
			name: "initial color is kept",
			id:   -1,
			opts: []EditOption{WithInitialColor(model.Violet)},
			want: func(t *testing.T, c model.Color) {
				assert.Equal(t, model.Violet, c)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			c := NewEditController(context.Background(), mocks.NewMockNoteService(ctrl), tt.id, tt.opts...)
			defer c.Close()

			d := c.Draft()
			assert.Empty(t, d.Title.Text)
			assert.Empty(t, d.Content.Text)
			assert.True(t, d.Title.HintVisible)
			assert.True(t, d.Content.HintVisible)
			assert.Equal(t, "Enter a title...", d.Title.Hint)
			assert.Equal(t, "Enter some content...", d.Content.Hint)
			assert.Zero(t, d.NoteID)
			tt.want(t, d.Color)
		})
	}
}

func TestEditController_RandomColorIsDeterministicWithSeed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mocks.NewMockNoteService(ctrl)

	first := NewEditController(context.Background(), svc, -1, WithRand(rand.New(rand.NewPCG(7, 7))))
	defer first.Close()
	second := NewEditController(context.Background(), svc, -1, WithRand(rand.New(rand.NewPCG(7, 7))))
	defer second.Close()

	assert.Equal(t, first.Draft().Color, second.Draft().Color)
}

func TestEditController_LoadsExistingNote(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	note := model.Note{Title: "Stored", Content: "body", Color: model.LightGreen}
	require.NoError(t, svc.AddNote(ctx, &note))

	c := NewEditController(ctx, svc, note.ID, WithInitialColor(model.LightGreen))
	defer c.Close()

	require.Eventually(t, func() bool { return c.Draft().NoteID == note.ID }, waitFor, tick)

	d := c.Draft()
	assert.Equal(t, "Stored", d.Title.Text)
	assert.Equal(t, "body", d.Content.Text)
	assert.False(t, d.Title.HintVisible)
	assert.False(t, d.Content.HintVisible)
	assert.Equal(t, model.LightGreen, d.Color)
}

func TestEditController_MissingNoteStaysNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loaded := make(chan struct{})
	svc := mocks.NewMockNoteService(ctrl)
	svc.EXPECT().
		GetNote(gomock.Any(), int64(99)).
		DoAndReturn(func(context.Context, int64) (*model.Note, error) {
			close(loaded)
			return nil, nil
		})

	c := NewEditController(context.Background(), svc, 99, WithInitialColor(model.BabyBlue))

	select {
	case <-loaded:
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for load")
	}
	c.Close()

	d := c.Draft()
	assert.Zero(t, d.NoteID)
	assert.Empty(t, d.Title.Text)
	assert.True(t, d.Title.HintVisible)
	assert.Equal(t, model.BabyBlue, d.Color)
}

func TestEditController_LoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockNoteService(ctrl)
	svc.EXPECT().
		GetNote(gomock.Any(), int64(5)).
		Return(nil, fmt.Errorf("get: %w", service.ErrStorage))

	c := NewEditController(context.Background(), svc, 5)
	defer c.Close()

	ev := nextEvent(t, c.Events())
	assert.Equal(t, ShowMessage("Couldn't load note"), ev)
	assert.Zero(t, c.Draft().NoteID)
}

func TestEditController_HintVisibility(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := NewEditController(context.Background(), mocks.NewMockNoteService(ctrl), -1)
	defer c.Close()

	c.TitleFocusChanged(true)
	assert.False(t, c.Draft().Title.HintVisible, "focused field hides the hint")

	c.TitleFocusChanged(false)
	assert.True(t, c.Draft().Title.HintVisible, "blurred blank field shows the hint")

	c.EnterTitle("Groceries")
	assert.True(t, c.Draft().Title.HintVisible, "typing leaves hint visibility alone")

	c.TitleFocusChanged(false)
	assert.False(t, c.Draft().Title.HintVisible, "blurred non-blank field hides the hint")

	c.EnterContent("   ")
	c.ContentFocusChanged(false)
	assert.True(t, c.Draft().Content.HintVisible, "whitespace counts as blank")

	c.ContentFocusChanged(true)
	assert.False(t, c.Draft().Content.HintVisible)
}

func TestEditController_ChangeColor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := NewEditController(context.Background(), mocks.NewMockNoteService(ctrl), -1, WithInitialColor(model.RedOrange))
	defer c.Close()

	updates, unsubscribe := c.Updates()
	defer unsubscribe()
	<-updates

	c.ChangeColor(model.RedPink)
	assert.Equal(t, model.RedPink, c.Draft().Color)
	assert.Equal(t, model.RedPink, (<-updates).Color)
}

func TestEditController_Save(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		content     string
		wantKind    EventKind
		wantMessage string
	}{
		{
			name:     "valid note is saved",
			title:    "Groceries",
			content:  "milk, eggs",
			wantKind: EventSaved,
		},
		{
			name:        "blank title",
			title:       " ",
			content:     "milk",
			wantKind:    EventShowMessage,
			wantMessage: "The title of the note can't be empty.",
		},
		{
			name:        "blank content",
			title:       "Groceries",
			content:     "",
			wantKind:    EventShowMessage,
			wantMessage: "The note has no content.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc := newTestService(t)

			c := NewEditController(ctx, svc, -1, WithInitialColor(model.Violet))
			defer c.Close()

			c.EnterTitle(tt.title)
			c.EnterContent(tt.content)
			c.Save()

			ev := nextEvent(t, c.Events())
			assert.Equal(t, tt.wantKind, ev.Kind)
			assert.Equal(t, tt.wantMessage, ev.Message)

			if tt.wantKind != EventSaved {
				assert.Zero(t, c.Draft().NoteID)
				return
			}

			id := c.Draft().NoteID
			require.NotZero(t, id)
			stored, err := svc.GetNote(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, tt.title, stored.Title)
			assert.Equal(t, tt.content, stored.Content)
			assert.Equal(t, model.Violet, stored.Color)
			assert.NotZero(t, stored.Timestamp)
		})
	}
}

func TestEditController_SaveReplacesExistingNote(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	note := model.Note{Title: "Draft", Content: "v1", Timestamp: 1}
	require.NoError(t, svc.AddNote(ctx, &note))

	c := NewEditController(ctx, svc, note.ID)
	defer c.Close()
	require.Eventually(t, func() bool { return c.Draft().NoteID == note.ID }, waitFor, tick)

	c.EnterContent("v2")
	c.Save()
	require.Equal(t, EventSaved, nextEvent(t, c.Events()).Kind)

	feedCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	feed, err := svc.ListNotes(feedCtx, model.DefaultOrder)
	require.NoError(t, err)

	notes := <-feed
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)
	assert.Equal(t, "v2", notes[0].Content)
	assert.Greater(t, notes[0].Timestamp, int64(1), "saving stamps a new timestamp")
}

func TestEditController_SaveStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockNoteService(ctrl)
	svc.EXPECT().
		AddNote(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("failed to save note: %w", service.ErrStorage))

	c := NewEditController(context.Background(), svc, -1)
	defer c.Close()

	c.EnterTitle("t")
	c.EnterContent("c")
	c.Save()

	assert.Equal(t, ShowMessage("Couldn't save note"), nextEvent(t, c.Events()))
}

func TestEditController_SaveReturnsItsOwnOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockNoteService(ctrl)
	gomock.InOrder(
		svc.EXPECT().
			AddNote(gomock.Any(), gomock.Any()).
			Return(&service.ValidationError{Field: "title", Message: "The title of the note can't be empty."}),
		svc.EXPECT().
			AddNote(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n *model.Note) error {
				n.ID = 11
				return nil
			}),
	)

	c := NewEditController(context.Background(), svc, -1)
	defer c.Close()

	first := c.Save()
	assert.Equal(t, EventShowMessage, (<-first).Kind)
	_, ok := <-first
	assert.False(t, ok, "result channel is closed after its outcome")

	// The first outcome is still buffered on Events; the second call must
	// not be confused by it.
	second := c.Save()
	assert.Equal(t, UIEvent{Kind: EventSaved}, <-second)
	assert.Equal(t, int64(11), c.Draft().NoteID)

	assert.Equal(t, EventShowMessage, nextEvent(t, c.Events()).Kind)
	assert.Equal(t, EventSaved, nextEvent(t, c.Events()).Kind)
}

func TestEditController_SaveAfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := NewEditController(context.Background(), mocks.NewMockNoteService(ctrl), -1)
	c.Close()

	_, ok := <-c.Save()
	assert.False(t, ok)
}

func TestEditController_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := NewEditController(context.Background(), mocks.NewMockNoteService(ctrl), -1)
	c.Close()
	c.Close()

	_, ok := <-c.Events()
	assert.False(t, ok)

	// Intents after Close are ignored.
	c.EnterTitle("ignored")
	c.Save()
	assert.Empty(t, c.Draft().Title.Text)
}
