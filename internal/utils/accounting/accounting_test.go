package accounting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/SscSPs/ledger_ingest/internal/utils/accounting"
)

var tolerance = decimal.RequireFromString("0.01")

func leg(date string, setID string, code domain.SubjectCode, amount string, kind domain.LegKind) domain.Entry {
	d, _ := time.Parse("2006-01-02", date)
	return domain.Entry{
		EntryID:     setID + "_" + code.String(),
		SetID:       setID,
		Date:        d,
		SubjectCode: code,
		Subject:     code.String(),
		Amount:      decimal.RequireFromString(amount),
		Kind:        kind,
		Year:        d.Year(),
		Month:       int(d.Month()),
	}
}

func TestValidateSets_Balanced(t *testing.T) {
	entries := []domain.Entry{
		leg("2024-03-01", "S1", 500, "1000", domain.LegImport),
		leg("2024-03-01", "S1", 100, "-1000", domain.LegImport),
	}
	report := accounting.ValidateSets(entries, tolerance)

	assert.True(t, report.Balanced)
	assert.Equal(t, 1, report.SetCount)
	assert.Empty(t, report.Unbalanced)
	assert.Equal(t, "all 1 sets balanced", report.Message)
}

func TestValidateSets_Tolerance(t *testing.T) {
	within := []domain.Entry{
		leg("2024-03-01", "S1", 500, "100.01", domain.LegImport),
		leg("2024-03-01", "S1", 100, "-100", domain.LegImport),
	}
	assert.True(t, accounting.ValidateSets(within, tolerance).Balanced)

	outside := []domain.Entry{
		leg("2024-03-01", "S1", 500, "100.02", domain.LegImport),
		leg("2024-03-01", "S1", 100, "-100", domain.LegImport),
	}
	report := accounting.ValidateSets(outside, tolerance)
	require.False(t, report.Balanced)
	require.Len(t, report.Unbalanced, 1)
	assert.True(t, decimal.RequireFromString("0.02").Equal(report.Unbalanced[0].Balance))
	assert.Equal(t, "500:100.02, 100:-100.00", report.Unbalanced[0].RenderedLegs)
}

func TestValidateSets_GroupsByDateAndSet(t *testing.T) {
	// The same set id on two dates forms two sets, neither of which balances.
	entries := []domain.Entry{
		leg("2024-03-01", "S1", 500, "50", domain.LegImport),
		leg("2024-03-02", "S1", 100, "-50", domain.LegImport),
	}
	report := accounting.ValidateSets(entries, tolerance)

	assert.Equal(t, 2, report.SetCount)
	assert.Len(t, report.Unbalanced, 2)
	assert.Equal(t, "2 of 2 sets unbalanced", report.Message)
}

func TestValidateSets_SkipsCarryForwardSets(t *testing.T) {
	entries := []domain.Entry{
		leg("2024-01-01", "OPEN", 100, "5000", domain.LegCarryForward),
		leg("2024-01-01", "OPEN", 200, "-300", domain.LegImport),
		leg("2024-01-02", "S1", 500, "10", domain.LegImport),
		leg("2024-01-02", "S1", 100, "-10", domain.LegImport),
	}
	report := accounting.ValidateSets(entries, tolerance)

	assert.True(t, report.Balanced)
	assert.Equal(t, 1, report.SetCount)
}

func TestBuildClosingLegs(t *testing.T) {
	period := domain.Period{Year: 2024, Month: 3}
	balances := []domain.AccountAmount{
		{SubjectCode: 400, Subject: "Salary", Amount: decimal.RequireFromString("-3000")},
		{SubjectCode: 500, Subject: "Food", Amount: decimal.RequireFromString("1000")},
	}
	retained := domain.AccountAmount{SubjectCode: 300, Subject: "Retained Earnings"}

	legs, net := accounting.BuildClosingLegs(period, balances, retained)

	require.Len(t, legs, 3)
	assert.True(t, decimal.RequireFromString("-2000").Equal(net))

	assert.Equal(t, domain.LegClosingZero, legs[0].Kind)
	assert.True(t, decimal.RequireFromString("3000").Equal(legs[0].Amount))
	assert.Equal(t, domain.RemarksClose, legs[0].Remarks)
	assert.True(t, decimal.RequireFromString("-1000").Equal(legs[1].Amount))

	transfer := legs[2]
	assert.Equal(t, domain.LegClosingTransfer, transfer.Kind)
	assert.Equal(t, domain.SubjectCode(300), transfer.SubjectCode)
	assert.True(t, net.Equal(transfer.Amount))
	assert.Equal(t, domain.RemarksLossAndBenefit, transfer.Remarks)

	for _, l := range legs {
		assert.Equal(t, "CLOSE-2024-03", l.SetID)
		assert.Equal(t, period.LastDay(), l.Date)
	}
	assert.True(t, accounting.Sum(legs).IsZero())
}

func TestBuildClosingLegs_ZeroNetHasNoTransfer(t *testing.T) {
	period := domain.Period{Year: 2024, Month: 3}
	balances := []domain.AccountAmount{
		{SubjectCode: 400, Amount: decimal.RequireFromString("-500")},
		{SubjectCode: 500, Amount: decimal.RequireFromString("500")},
	}
	legs, net := accounting.BuildClosingLegs(period, balances, domain.AccountAmount{SubjectCode: 300})

	assert.True(t, net.IsZero())
	require.Len(t, legs, 2)
	for _, l := range legs {
		assert.Equal(t, domain.LegClosingZero, l.Kind)
	}
}

func TestProfitAndLossBalances(t *testing.T) {
	period := domain.Period{Year: 2024, Month: 3}
	entries := []domain.Entry{
		leg("2024-03-05", "S1", 500, "120", domain.LegImport),
		leg("2024-03-05", "S1", 100, "-120", domain.LegImport),
		leg("2024-03-09", "S2", 500, "30", domain.LegImport),
		leg("2024-03-09", "S2", 510, "0", domain.LegImport),
		leg("2024-04-01", "S3", 500, "999", domain.LegImport),
		leg("2024-03-31", "CLOSE-2024-03", 500, "-150", domain.LegClosingZero),
	}
	got := accounting.ProfitAndLossBalances(entries, period)

	require.Len(t, got, 1)
	assert.Equal(t, domain.SubjectCode(500), got[0].SubjectCode)
	assert.True(t, decimal.RequireFromString("150").Equal(got[0].Amount))
}

func TestBuildTrialBalance(t *testing.T) {
	entries := []domain.Entry{
		leg("2024-03-01", "S1", 500, "1000", domain.LegImport),
		leg("2024-03-01", "S1", 100, "-1000", domain.LegImport),
		leg("2024-03-02", "S2", 100, "200", domain.LegImport),
		leg("2024-03-02", "S2", 400, "-200", domain.LegImport),
		leg("2024-03-31", "CLOSE-2024-03", 500, "-1000", domain.LegClosingZero),
	}
	tb := accounting.BuildTrialBalance(entries, nil)

	require.Len(t, tb.Rows, 3)
	assert.Equal(t, domain.SubjectCode(100), tb.Rows[0].SubjectCode)
	assert.True(t, decimal.RequireFromString("200").Equal(tb.Rows[0].Debit))
	assert.True(t, decimal.RequireFromString("1000").Equal(tb.Rows[0].Credit))
	assert.True(t, decimal.RequireFromString("-800").Equal(tb.Rows[0].Net))

	food := tb.Rows[2]
	assert.Equal(t, domain.SubjectCode(500), food.SubjectCode)
	assert.True(t, decimal.RequireFromString("1000").Equal(food.Net), "zeroing legs are excluded")

	assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit))
	assert.True(t, decimal.RequireFromString("1200").Equal(tb.TotalDebit))
}

func TestBuildTrialBalance_AsOf(t *testing.T) {
	entries := []domain.Entry{
		leg("2024-02-10", "S1", 500, "10", domain.LegImport),
		leg("2024-02-10", "S1", 100, "-10", domain.LegImport),
		leg("2024-03-10", "S2", 500, "20", domain.LegImport),
		leg("2024-03-10", "S2", 100, "-20", domain.LegImport),
		leg("2024-04-10", "S3", 500, "40", domain.LegImport),
		leg("2024-04-10", "S3", 100, "-40", domain.LegImport),
	}
	asOf := domain.Period{Year: 2024, Month: 3}
	tb := accounting.BuildTrialBalance(entries, &asOf)

	require.Len(t, tb.Rows, 2)
	assert.True(t, decimal.RequireFromString("-30").Equal(tb.Rows[0].Net), "balance sheet codes run through asOf")
	assert.True(t, decimal.RequireFromString("20").Equal(tb.Rows[1].Net), "P/L codes cover asOf only")
}

func TestSplitDebitCredit(t *testing.T) {
	d, c := accounting.SplitDebitCredit(decimal.RequireFromString("12.50"))
	assert.True(t, d.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, c.IsZero())

	d, c = accounting.SplitDebitCredit(decimal.RequireFromString("-7"))
	assert.True(t, d.IsZero())
	assert.True(t, c.Equal(decimal.RequireFromString("7")))
}

func TestReportingSign(t *testing.T) {
	tests := []struct {
		code domain.SubjectCode
		want string
	}{
		{100, "-50"},
		{200, "50"},
		{300, "50"},
		{400, "50"},
		{500, "-50"},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			got := accounting.ReportingSign(tt.code, decimal.RequireFromString("-50"))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestBuildMonthlyTrend(t *testing.T) {
	entries := []domain.Entry{
		leg("2024-02-25", "S1", 400, "-3000", domain.LegImport),
		leg("2024-02-25", "S1", 100, "3000", domain.LegImport),
		leg("2024-03-05", "S2", 500, "800", domain.LegImport),
		leg("2024-03-05", "S2", 100, "-800", domain.LegImport),
		leg("2024-03-31", "CLOSE-2024-03", 500, "-800", domain.LegClosingZero),
	}
	rows := accounting.BuildMonthlyTrend(entries, 12)

	require.Len(t, rows, 2)
	assert.Equal(t, domain.Period{Year: 2024, Month: 2}, rows[0].Period)
	assert.True(t, decimal.RequireFromString("3000").Equal(rows[0].Income))
	assert.True(t, decimal.RequireFromString("800").Equal(rows[1].Expense))
	assert.True(t, decimal.RequireFromString("-800").Equal(rows[1].Net))

	assert.Len(t, accounting.BuildMonthlyTrend(entries, 1), 1)
}

func TestBuildCashflow(t *testing.T) {
	entries := []domain.Entry{
		leg("2024-03-05", "S2", 500, "800", domain.LegImport),
		leg("2024-03-05", "S2", 101, "-800", domain.LegImport),
		leg("2024-03-01", "S1", 400, "-3000", domain.LegImport),
		leg("2024-03-01", "S1", 100, "3000", domain.LegImport),
		leg("2024-03-02", "MOVE", 100, "-50", domain.LegImport),
		leg("2024-03-02", "MOVE", 102, "50", domain.LegImport),
		leg("2024-03-03", "CARD", 500, "20", domain.LegImport),
		leg("2024-03-03", "CARD", 200, "-20", domain.LegImport),
	}
	rows := accounting.BuildCashflow(entries)

	require.Len(t, rows, 2)
	assert.Equal(t, "S1", rows[0].SetID)
	assert.True(t, decimal.RequireFromString("3000").Equal(rows[0].CashChange))
	assert.Equal(t, "S2", rows[1].SetID)
	assert.True(t, decimal.RequireFromString("-800").Equal(rows[1].CashChange))
}

func TestBuildClosingStatus(t *testing.T) {
	entries := []domain.Entry{
		leg("2024-02-25", "S1", 400, "-3000", domain.LegImport),
		leg("2024-03-05", "S2", 500, "800", domain.LegImport),
		leg("2024-03-31", "CLOSE-2024-03", 500, "-800", domain.LegClosingZero),
	}
	status := accounting.BuildClosingStatus(entries)

	require.Len(t, status.Closed, 1)
	assert.Equal(t, domain.Period{Year: 2024, Month: 3}, status.Closed[0].Period)
	assert.Equal(t, 1, status.Closed[0].ClosingLegs)
	assert.Equal(t, []domain.Period{{Year: 2024, Month: 2}}, status.Unclosed)
}
