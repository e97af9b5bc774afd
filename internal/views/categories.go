package views

import (
	"context"

	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
)

// Categories lists, creates, edits and deletes categories.
type Categories struct {
	*editor[models.Category, models.CategoryInput]

	svc   Service
	state loadState[[]models.Category]
}

// NewCategories creates a Categories view.
func NewCategories(svc Service, logger *logging.Logger) *Categories {
	logger = pageLogger(logger, "categories")
	v := &Categories{
		svc:   svc,
		state: loadState[[]models.Category]{logger: logger},
	}
	v.editor = &editor[models.Category, models.CategoryInput]{
		logger: logger,
		blank:  models.NewCategoryInput,
		from:   models.CategoryInputFrom,
		id:     func(c models.Category) int64 { return c.ID },
		create: func(ctx context.Context, in models.CategoryInput) error {
			_, err := svc.CreateCategory(ctx, in)
			return err
		},
		update: func(ctx context.Context, id int64, in models.CategoryInput) error {
			_, err := svc.UpdateCategory(ctx, id, in)
			return err
		},
		remove: svc.DeleteCategory,
		reload: v.Load,
	}
	v.CloseForm()
	return v
}

func (v *Categories) Loading() bool            { return v.state.loading }
func (v *Categories) Loaded() bool             { return v.state.loaded }
func (v *Categories) Items() []models.Category { return v.state.data }

// StartLoad marks the view loading and returns its fetch.
func (v *Categories) StartLoad() (Ticket, LoadFunc[[]models.Category]) {
	t := v.state.begin()
	svc := v.svc
	return t, func(ctx context.Context) ([]models.Category, error) {
		var items []models.Category
		err := fetchAll(ctx, func(ctx context.Context) error {
			var err error
			items, err = svc.Categories(ctx)
			return err
		})
		return items, err
	}
}

// ApplyLoad stores a finished load unless a later StartLoad superseded it.
func (v *Categories) ApplyLoad(t Ticket, items []models.Category, err error) error {
	return v.state.apply(t, items, err)
}

// Load fetches and applies in one step.
func (v *Categories) Load(ctx context.Context) error {
	return runLoad(ctx, v.StartLoad, v.ApplyLoad)
}
