package views

import (
	"context"

	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
)

// DashboardData is what the dashboard shows.
type DashboardData struct {
	Summary  models.TransactionSummary
	Accounts []models.Account
}

// Dashboard shows the transaction summary and the account list.
type Dashboard struct {
	svc   Service
	state loadState[DashboardData]
}

// NewDashboard creates a Dashboard.
func NewDashboard(svc Service, logger *logging.Logger) *Dashboard {
	return &Dashboard{
		svc:   svc,
		state: loadState[DashboardData]{logger: pageLogger(logger, "dashboard")},
	}
}

func (d *Dashboard) Loading() bool       { return d.state.loading }
func (d *Dashboard) Loaded() bool        { return d.state.loaded }
func (d *Dashboard) Data() DashboardData { return d.state.data }

// StartLoad marks the dashboard loading and returns its fetch.
func (d *Dashboard) StartLoad() (Ticket, LoadFunc[DashboardData]) {
	t := d.state.begin()
	svc := d.svc
	return t, func(ctx context.Context) (DashboardData, error) {
		var data DashboardData
		err := fetchAll(ctx,
			func(ctx context.Context) error {
				summary, err := svc.TransactionSummary(ctx)
				if err != nil {
					return err
				}
				data.Summary = *summary
				return nil
			},
			func(ctx context.Context) error {
				accounts, err := svc.Accounts(ctx)
				data.Accounts = accounts
				return err
			},
		)
		return data, err
	}
}

// ApplyLoad stores a finished load unless a later StartLoad superseded it.
func (d *Dashboard) ApplyLoad(t Ticket, data DashboardData, err error) error {
	return d.state.apply(t, data, err)
}

// Load fetches and applies in one step.
func (d *Dashboard) Load(ctx context.Context) error {
	return runLoad(ctx, d.StartLoad, d.ApplyLoad)
}

func pageLogger(logger *logging.Logger, page string) *logging.Logger {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return logger.WithComponent("views").WithPage(page)
}
