package handlers

import (
	"notes-app/internal/model"
	"notes-app/internal/viewstate"
)

// NoteResponse is the JSON form of a note.
//
// swagger:model NoteResponse
type NoteResponse struct {
	// Note ID
	ID int64 `json:"id"`
	// Note title
	Title string `json:"title"`
	// Note content (markdown)
	Content string `json:"content"`
	// Milliseconds since epoch
	Timestamp int64 `json:"timestamp"`
	// Color as #rrggbb
	Color string `json:"color"`
	// Palette name of the color, or its hex form
	ColorName string `json:"color_name"`
}

// OrderDTO is the JSON form of a list order.
type OrderDTO struct {
	// One of "date", "title", "color"
	Field string `json:"field"`
	// One of "asc", "desc"
	Direction string `json:"direction"`
}

// ListStateResponse is the JSON form of the notes list state.
//
// swagger:model ListStateResponse
type ListStateResponse struct {
	Notes             []NoteResponse `json:"notes"`
	Order             OrderDTO       `json:"order"`
	OrderPanelVisible bool           `json:"order_panel_visible"`
}

// TextFieldResponse is the JSON form of an editor text field.
type TextFieldResponse struct {
	Text        string `json:"text"`
	Hint        string `json:"hint"`
	HintVisible bool   `json:"hint_visible"`
}

// DraftResponse is the JSON form of an edit session.
//
// swagger:model DraftResponse
type DraftResponse struct {
	Session   string            `json:"session"`
	NoteID    int64             `json:"note_id,omitempty"`
	Title     TextFieldResponse `json:"title"`
	Content   TextFieldResponse `json:"content"`
	Color     string            `json:"color"`
	ColorName string            `json:"color_name"`
}

// MessageResponse carries a one-shot UI message.
type MessageResponse struct {
	Message string `json:"message"`
}

func toNoteResponse(n model.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Timestamp: n.Timestamp,
		Color:     n.Color.Hex(),
		ColorName: n.Color.Name(),
	}
}

func toOrderDTO(o model.Order) OrderDTO {
	return OrderDTO{Field: o.Field.String(), Direction: o.Direction.String()}
}

func (o OrderDTO) toOrder() (model.Order, error) {
	field, err := model.ParseOrderField(o.Field)
	if err != nil {
		return model.Order{}, err
	}
	dir := model.Descending
	if o.Direction != "" {
		if dir, err = model.ParseDirection(o.Direction); err != nil {
			return model.Order{}, err
		}
	}
	return model.Order{Field: field, Direction: dir}, nil
}

func toListStateResponse(s viewstate.ListState) ListStateResponse {
	notes := make([]NoteResponse, len(s.Notes))
	for i, n := range s.Notes {
		notes[i] = toNoteResponse(n)
	}
	return ListStateResponse{
		Notes:             notes,
		Order:             toOrderDTO(s.Order),
		OrderPanelVisible: s.OrderPanelVisible,
	}
}

func toDraftResponse(session string, d viewstate.EditDraft) DraftResponse {
	return DraftResponse{
		Session:   session,
		NoteID:    d.NoteID,
		Title:     TextFieldResponse{Text: d.Title.Text, Hint: d.Title.Hint, HintVisible: d.Title.HintVisible},
		Content:   TextFieldResponse{Text: d.Content.Text, Hint: d.Content.Hint, HintVisible: d.Content.HintVisible},
		Color:     d.Color.Hex(),
		ColorName: d.Color.Name(),
	}
}
