package views

import (
	"context"

	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/logging"
)

// Input is a form payload that can check its own required fields.
type Input interface {
	Validate() error
}

// Form is the create/edit form of a view. Values holds what the user has
// entered; Error holds the message of the last failed submit.
type Form[In Input] struct {
	Values In
	Error  string

	open       bool
	editing    int64
	submitting bool
}

// IsOpen reports whether the form is shown.
func (f *Form[In]) IsOpen() bool { return f.open }

// EditingID returns the id of the record being edited, or false when the
// form creates a new record.
func (f *Form[In]) EditingID() (int64, bool) { return f.editing, f.editing != 0 }

// Submitting reports whether a submit is in flight.
func (f *Form[In]) Submitting() bool { return f.submitting }

// SubmitFunc performs a create, update or delete call. Like LoadFunc it
// reads no view state.
type SubmitFunc func(ctx context.Context) error

// editor implements the form and delete-confirmation flow shared by the
// Accounts, Categories and Transactions views.
type editor[T any, In Input] struct {
	logger *logging.Logger

	blank  func() In
	from   func(T) In
	id     func(T) int64
	create func(context.Context, In) error
	update func(context.Context, int64, In) error
	remove func(context.Context, int64) error
	reload func(context.Context) error

	form       Form[In]
	pending    int64
	hasPending bool
}

// Form returns the view's form. Callers edit Values in place.
func (e *editor[T, In]) Form() *Form[In] {
	return &e.form
}

// OpenCreate opens an empty form.
func (e *editor[T, In]) OpenCreate() {
	e.form = Form[In]{Values: e.blank(), open: true}
}

// OpenEdit opens the form filled from item.
func (e *editor[T, In]) OpenEdit(item T) {
	e.form = Form[In]{Values: e.from(item), open: true, editing: e.id(item)}
}

// CloseForm discards the form.
func (e *editor[T, In]) CloseForm() {
	e.form = Form[In]{Values: e.blank()}
}

// StartSubmit checks the form and returns the call to run. A local failure
// is returned directly, recorded in Form().Error, and nothing is sent.
func (e *editor[T, In]) StartSubmit() (SubmitFunc, error) {
	if !e.form.open {
		return nil, errors.ErrNoOpenForm
	}
	if err := e.form.Values.Validate(); err != nil {
		e.form.Error = errors.Reduce(err)
		return nil, err
	}
	e.form.Error = ""
	e.form.submitting = true

	values, id := e.form.Values, e.form.editing
	create, update := e.create, e.update
	return func(ctx context.Context) error {
		if id != 0 {
			return update(ctx, id, values)
		}
		return create(ctx, values)
	}, nil
}

// FinishSubmit records the outcome of a submit. On success the form is
// closed and true is returned; the caller then reloads. On failure the
// values are kept and Form().Error holds the reduced message.
func (e *editor[T, In]) FinishSubmit(err error) bool {
	e.form.submitting = false
	if err != nil {
		e.form.Error = errors.Reduce(err)
		e.logger.Warn("submit failed", "error", err.Error())
		return false
	}
	e.CloseForm()
	return true
}

// Submit runs StartSubmit, the call and FinishSubmit, then reloads the view.
func (e *editor[T, In]) Submit(ctx context.Context) error {
	run, err := e.StartSubmit()
	if err != nil {
		return err
	}
	err = run(ctx)
	if !e.FinishSubmit(err) {
		return err
	}
	return e.reload(ctx)
}

// RequestDelete stages id for deletion. Nothing is deleted until
// ConfirmDelete.
func (e *editor[T, In]) RequestDelete(id int64) {
	e.pending = id
	e.hasPending = true
}

// PendingDelete returns the staged id.
func (e *editor[T, In]) PendingDelete() (int64, bool) {
	return e.pending, e.hasPending
}

// CancelDelete drops the staged delete.
func (e *editor[T, In]) CancelDelete() {
	e.pending = 0
	e.hasPending = false
}

// StartDelete consumes the staged delete and returns the call to run.
func (e *editor[T, In]) StartDelete() (SubmitFunc, error) {
	if !e.hasPending {
		return nil, errors.ErrNoPendingDelete
	}
	id, remove := e.pending, e.remove
	e.CancelDelete()
	return func(ctx context.Context) error {
		return remove(ctx, id)
	}, nil
}

// FinishDelete records the outcome of a delete and reports success.
func (e *editor[T, In]) FinishDelete(err error) bool {
	if err != nil {
		e.logger.Error("delete failed", "error", err.Error())
		return false
	}
	return true
}

// ConfirmDelete deletes the staged record and reloads the view.
func (e *editor[T, In]) ConfirmDelete(ctx context.Context) error {
	run, err := e.StartDelete()
	if err != nil {
		return err
	}
	err = run(ctx)
	if !e.FinishDelete(err) {
		return err
	}
	return e.reload(ctx)
}
