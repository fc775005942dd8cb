package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/puckline/internal/models"
)

// Portfolio derives the invested-versus-value view from ledger entries. The
// timeseries has one point per calendar date that either received stakes or
// saw settlements; nothing here is persisted. Stake counts as invested on
// the bet date, payout counts as returned on the settlement date, and the
// running value is settled returns plus stake still at risk.
func Portfolio(entries []models.BetEntry) models.PortfolioReport {
	byBetDate := make(map[string][]models.BetEntry)
	bySettleDate := make(map[string][]models.BetEntry)

	for _, entry := range entries {
		if entry.Date != "" {
			byBetDate[entry.Date] = append(byBetDate[entry.Date], entry)
		}
		if !entry.IsPending() && len(entry.UpdatedAt) >= 10 {
			settleDay := entry.UpdatedAt[:10]
			bySettleDate[settleDay] = append(bySettleDate[settleDay], entry)
		}
	}

	dateSet := make(map[string]struct{}, len(byBetDate)+len(bySettleDate))
	for d := range byBetDate {
		dateSet[d] = struct{}{}
	}
	for d := range bySettleDate {
		dateSet[d] = struct{}{}
	}
	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	totalStaked := decimal.Zero
	settledReturn := decimal.Zero
	series := make([]models.PortfolioPoint, 0, len(dates))

	for _, d := range dates {
		for _, b := range byBetDate[d] {
			totalStaked = totalStaked.Add(decimal.NewFromFloat(b.Stake))
		}
		for _, b := range bySettleDate[d] {
			settledReturn = settledReturn.Add(decimal.NewFromFloat(b.Payout))
		}

		open := decimal.Zero
		openBets := 0
		for _, b := range entries {
			if b.IsPending() && b.Date != "" && b.Date <= d {
				open = open.Add(decimal.NewFromFloat(b.Stake))
				openBets++
			}
		}
		value := settledReturn.Add(open)

		series = append(series, models.PortfolioPoint{
			Date:          d,
			Invested:      round2(totalStaked),
			Value:         round2(value),
			SettledReturn: round2(settledReturn),
			OpenStake:     round2(open),
			OpenBets:      openBets,
		})
	}

	pending := 0
	for _, entry := range entries {
		if entry.IsPending() {
			pending++
		}
	}

	summary := models.PortfolioSummary{
		TotalBets:     len(entries),
		OpenBets:      pending,
		TotalStaked:   round2(totalStaked),
		SettledReturn: round2(settledReturn),
	}
	if len(series) > 0 {
		last := series[len(series)-1]
		summary.CurrentValue = last.Value
		profit := decimal.NewFromFloat(last.Value).Sub(decimal.NewFromFloat(last.Invested))
		summary.Profit = round2(profit)
		if last.Invested != 0 {
			roi := profit.Div(decimal.NewFromFloat(last.Invested)).Round(3)
			summary.ROI, _ = roi.Float64()
		}
	}

	return models.PortfolioReport{
		Timeseries: series,
		Summary:    summary,
		Bets:       entries,
	}
}

func round2(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}
