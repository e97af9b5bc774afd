package views

import (
	"context"
	"time"

	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
)

// TransactionsData is what the transactions page shows. Accounts and
// Categories feed the form's pickers and the filter bar.
type TransactionsData struct {
	Transactions []models.Transaction
	Accounts     []models.Account
	Categories   []models.Category
	Summary      models.TransactionSummary
}

// Transactions lists transactions with an optional category/type filter.
type Transactions struct {
	*editor[models.Transaction, models.TransactionInput]

	svc    Service
	state  loadState[TransactionsData]
	filter models.TransactionFilter
}

// NewTransactions creates a Transactions view. now dates new transactions;
// nil means time.Now.
func NewTransactions(svc Service, logger *logging.Logger, now func() time.Time) *Transactions {
	if now == nil {
		now = time.Now
	}
	logger = pageLogger(logger, "transactions")
	v := &Transactions{
		svc:   svc,
		state: loadState[TransactionsData]{logger: logger},
	}
	v.editor = &editor[models.Transaction, models.TransactionInput]{
		logger: logger,
		blank:  func() models.TransactionInput { return models.NewTransactionInput(now()) },
		from:   models.TransactionInputFrom,
		id:     func(t models.Transaction) int64 { return t.ID },
		create: func(ctx context.Context, in models.TransactionInput) error {
			_, err := svc.CreateTransaction(ctx, in)
			return err
		},
		update: func(ctx context.Context, id int64, in models.TransactionInput) error {
			_, err := svc.UpdateTransaction(ctx, id, in)
			return err
		},
		remove: svc.DeleteTransaction,
		reload: v.Load,
	}
	v.CloseForm()
	return v
}

func (v *Transactions) Loading() bool                    { return v.state.loading }
func (v *Transactions) Loaded() bool                     { return v.state.loaded }
func (v *Transactions) Data() TransactionsData           { return v.state.data }
func (v *Transactions) Filter() models.TransactionFilter { return v.filter }

// SetFilter replaces the filter and reports whether it changed. A change
// requires a reload.
func (v *Transactions) SetFilter(f models.TransactionFilter) bool {
	if f == v.filter {
		return false
	}
	v.filter = f
	return true
}

// ClearFilter removes the filter and reports whether one was set.
func (v *Transactions) ClearFilter() bool {
	return v.SetFilter(models.TransactionFilter{})
}

// StartLoad marks the view loading and returns its fetch, restricted by the
// current filter.
func (v *Transactions) StartLoad() (Ticket, LoadFunc[TransactionsData]) {
	t := v.state.begin()
	svc, filter := v.svc, v.filter
	return t, func(ctx context.Context) (TransactionsData, error) {
		var data TransactionsData
		err := fetchAll(ctx,
			func(ctx context.Context) error {
				txs, err := svc.Transactions(ctx, filter)
				data.Transactions = txs
				return err
			},
			func(ctx context.Context) error {
				accounts, err := svc.Accounts(ctx)
				data.Accounts = accounts
				return err
			},
			func(ctx context.Context) error {
				categories, err := svc.Categories(ctx)
				data.Categories = categories
				return err
			},
			func(ctx context.Context) error {
				summary, err := svc.TransactionSummary(ctx)
				if err != nil {
					return err
				}
				data.Summary = *summary
				return nil
			},
		)
		return data, err
	}
}

// ApplyLoad stores a finished load unless a later StartLoad superseded it.
func (v *Transactions) ApplyLoad(t Ticket, data TransactionsData, err error) error {
	return v.state.apply(t, data, err)
}

// Load fetches and applies in one step.
func (v *Transactions) Load(ctx context.Context) error {
	return runLoad(ctx, v.StartLoad, v.ApplyLoad)
}
