package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pitchbook/internal/domain/payments"
	"pitchbook/internal/earnings"
	"pitchbook/internal/params"

	"github.com/go-chi/chi/v5"
)

func toAggregatorPayments(records []payments.Payment) []earnings.Payment {
	out := make([]earnings.Payment, 0, len(records))
	for _, p := range records {
		out = append(out, earnings.Payment{
			OwnerID:   p.OwnerID,
			VenueID:   p.VenueID,
			Amount:    p.Amount,
			Status:    p.Status,
			Method:    p.Method,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}

// getOwnerEarningsHandler godoc
//
//	@Summary		Owner earnings dashboard
//	@Description	Returns the windowed revenue summary (total, pending, today, this week, this month, all in paisa) plus a paginated transaction list. The week starts on Sunday; today/this-week/this-month overlap rather than partition.
//	@Tags			owner
//	@Produce		json
//	@Param			status	query		string	false	"Filter transactions by status"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	earnings.Summary
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/owner/earnings [get]
func (app *application) getOwnerEarningsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	// summary folds over the full payment set, not just the visible page
	all, err := app.store.Payments.GetByOwner(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	summary := earnings.Aggregate(toAggregatorPayments(all), app.now())

	p := params.ParsePagination(r.URL.Query())
	filter := payments.PaymentFilter{
		Page:  p.Page,
		Limit: p.Limit,
	}
	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = &s
	}

	transactions, total, err := app.store.Payments.ListByOwner(r.Context(), user.ID, filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	response := map[string]any{
		"summary":      summary,
		"transactions": transactions,
		"pagination":   p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// markPaymentPaidHandler godoc
//
//	@Summary		Mark a pending payment as paid
//	@Description	Settles a cash payment: the amount moves from the pending bucket into the paid totals.
//	@Tags			owner
//	@Produce		json
//	@Param			paymentID	path		int	true	"Payment ID"
//	@Success		204			{string}	string
//	@Failure		404			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/owner/payments/{paymentID}/paid [patch]
func (app *application) markPaymentPaidHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	paymentID, err := strconv.ParseInt(chi.URLParam(r, "paymentID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid payment ID"))
		return
	}

	if err := app.store.Payments.MarkPaid(r.Context(), user.ID, paymentID); err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
