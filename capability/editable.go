package capability

import "time"

// EditableView exposes edit state for models the author can edit.
type EditableView struct {
	editedAt time.Time
	edited   bool
}

var _ View = EditableView{}

// EditPrecision is the resolution edit times are kept at. Stored timestamps
// are fractional seconds and cannot carry finer detail.
const EditPrecision = time.Millisecond

// NewEditableView creates an editable view. editedAt is ignored when edited is
// false and truncated to EditPrecision otherwise.
func NewEditableView(edited bool, editedAt time.Time) EditableView {
	if !edited {
		return EditableView{}
	}
	return EditableView{edited: true, editedAt: editedAt.Truncate(EditPrecision).UTC()}
}

// Tag returns Editable.
func (v EditableView) Tag() Tag {
	return Editable
}

// Edited reports whether the model was edited.
func (v EditableView) Edited() bool {
	return v.edited
}

// EditedAt returns the edit time, zero when unknown or not edited.
func (v EditableView) EditedAt() time.Time {
	return v.editedAt
}

// Equal implements View.
func (v EditableView) Equal(other View) bool {
	o, ok := other.(EditableView)
	if !ok {
		return false
	}
	return v.edited == o.edited && v.editedAt.Equal(o.editedAt)
}
