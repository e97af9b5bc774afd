package views

import (
	"context"

	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
)

// DefaultInsightsError is shown when the server gives no reason.
const DefaultInsightsError = "Failed to generate insights. Please try again."

// Insights shows the AI spending report. Unlike the other views it exposes
// its failures.
type Insights struct {
	svc   Service
	state loadState[models.InsightsReport]
	err   string
}

// NewInsights creates an Insights view.
func NewInsights(svc Service, logger *logging.Logger) *Insights {
	return &Insights{
		svc:   svc,
		state: loadState[models.InsightsReport]{logger: pageLogger(logger, "insights")},
	}
}

func (v *Insights) Loading() bool                 { return v.state.loading }
func (v *Insights) Loaded() bool                  { return v.state.loaded }
func (v *Insights) Report() models.InsightsReport { return v.state.data }

// Err returns the message of the last failed load, or "".
func (v *Insights) Err() string { return v.err }

// StartLoad marks the view loading and returns its fetch. Refreshing the
// report is another load.
func (v *Insights) StartLoad() (Ticket, LoadFunc[models.InsightsReport]) {
	t := v.state.begin()
	v.err = ""
	svc := v.svc
	return t, func(ctx context.Context) (models.InsightsReport, error) {
		report, err := svc.Insights(ctx)
		if err != nil {
			return models.InsightsReport{}, err
		}
		return *report, nil
	}
}

// ApplyLoad stores a finished load. A load superseded by a later StartLoad
// is dropped.
func (v *Insights) ApplyLoad(t Ticket, report models.InsightsReport, err error) error {
	if err != nil && !v.state.stale(t) {
		v.err = insightsMessage(err)
	}
	return v.state.apply(t, report, err)
}

// Load fetches and applies in one step.
func (v *Insights) Load(ctx context.Context) error {
	return runLoad(ctx, v.StartLoad, v.ApplyLoad)
}

func insightsMessage(err error) string {
	var apiErr *errors.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorText != "" {
		return apiErr.ErrorText
	}
	return DefaultInsightsError
}
