package views

import (
	"context"

	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
)

// Accounts lists, creates, edits and deletes accounts.
type Accounts struct {
	*editor[models.Account, models.AccountInput]

	svc   Service
	state loadState[[]models.Account]
}

// NewAccounts creates an Accounts view.
func NewAccounts(svc Service, logger *logging.Logger) *Accounts {
	logger = pageLogger(logger, "accounts")
	v := &Accounts{
		svc:   svc,
		state: loadState[[]models.Account]{logger: logger},
	}
	v.editor = &editor[models.Account, models.AccountInput]{
		logger: logger,
		blank:  models.NewAccountInput,
		from:   models.AccountInputFrom,
		id:     func(a models.Account) int64 { return a.ID },
		create: func(ctx context.Context, in models.AccountInput) error {
			_, err := svc.CreateAccount(ctx, in)
			return err
		},
		update: func(ctx context.Context, id int64, in models.AccountInput) error {
			_, err := svc.UpdateAccount(ctx, id, in)
			return err
		},
		remove: svc.DeleteAccount,
		reload: v.Load,
	}
	v.CloseForm()
	return v
}

func (v *Accounts) Loading() bool           { return v.state.loading }
func (v *Accounts) Loaded() bool            { return v.state.loaded }
func (v *Accounts) Items() []models.Account { return v.state.data }

// StartLoad marks the view loading and returns its fetch.
func (v *Accounts) StartLoad() (Ticket, LoadFunc[[]models.Account]) {
	t := v.state.begin()
	svc := v.svc
	return t, func(ctx context.Context) ([]models.Account, error) {
		var items []models.Account
		err := fetchAll(ctx, func(ctx context.Context) error {
			var err error
			items, err = svc.Accounts(ctx)
			return err
		})
		return items, err
	}
}

// ApplyLoad stores a finished load unless a later StartLoad superseded it.
func (v *Accounts) ApplyLoad(t Ticket, items []models.Account, err error) error {
	return v.state.apply(t, items, err)
}

// Load fetches and applies in one step.
func (v *Accounts) Load(ctx context.Context) error {
	return runLoad(ctx, v.StartLoad, v.ApplyLoad)
}
