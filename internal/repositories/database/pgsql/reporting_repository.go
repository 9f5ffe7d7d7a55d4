package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// legsExpr renders a set's legs as "subject:amount" ordered by amount descending.
const legsExpr = `STRING_AGG(subject || ':' || TO_CHAR(amount, 'FM999999999990.00'), ', ' ORDER BY amount DESC, entry_id)`

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetTrialBalanceData retrieves per-code debit, credit and net. Zeroing legs of a close are left out.
// With asOf, balance sheet codes are cumulative through asOf and the rest cover asOf only.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf *domain.Period) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			subject_code,
			MAX(subject),
			SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END) AS total_debit,
			SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END) AS total_credit,
			SUM(amount) AS net
		FROM journal_entries
		WHERE leg_kind <> 'CLOSING_ZERO'
	`
	var args []any
	if asOf != nil {
		query += ` AND year * 100 + month <= $1 AND (subject_code < 400 OR year * 100 + month = $1)`
		args = append(args, asOf.Key())
	}
	query += ` GROUP BY subject_code ORDER BY subject_code`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var code int
		if err := rows.Scan(&code, &row.Subject, &row.Debit, &row.Credit, &row.Net); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		row.SubjectCode = domain.SubjectCode(code)
		row.Category = row.SubjectCode.Category()
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// GetSetSummaries aggregates one relation per (date, set_id) over the legs matched by filter.
// The unfiltered ledger is served by the transaction_sets view.
func (r *reportingRepository) GetSetSummaries(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.SetSummary, error) {
	var query string
	var args []any
	switch {
	case relation == domain.RelationLedger && isUnfiltered(filter):
		query = `SELECT date, set_id, entry_count, balance, legs FROM transaction_sets ORDER BY date, set_id`
	default:
		table := "journal_entries"
		if relation == domain.RelationStaging {
			table = "staging_entries"
		}
		var where string
		where, args = entryFilterClause(filter, nil)
		query = `SELECT date, set_id, COUNT(*), SUM(amount), ` + legsExpr +
			` FROM ` + table + where + ` GROUP BY date, set_id ORDER BY date, set_id`
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying set summaries: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SetSummary, error) {
		var s domain.SetSummary
		err := row.Scan(&s.Date, &s.SetID, &s.EntryCount, &s.Balance, &s.RenderedLegs)
		return s, err
	})
}

// GetCashflow nets the cash legs (codes 100-102) of one relation per date, set and remark.
func (r *reportingRepository) GetCashflow(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.CashflowRow, error) {
	table := "journal_entries"
	if relation == domain.RelationStaging {
		table = "staging_entries"
	}
	where, args := entryFilterClause(filter, nil)
	query := `
		SELECT date, set_id, remarks,
			SUM(CASE WHEN subject_code BETWEEN 100 AND 102 THEN amount ELSE 0 END) AS cash_change
		FROM ` + table + where + `
		GROUP BY date, set_id, remarks
		HAVING SUM(CASE WHEN subject_code BETWEEN 100 AND 102 THEN amount ELSE 0 END) <> 0
		ORDER BY date, set_id, remarks
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying cashflow: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CashflowRow, error) {
		var c domain.CashflowRow
		err := row.Scan(&c.Date, &c.SetID, &c.Remarks, &c.CashChange)
		return c, err
	})
}

func isUnfiltered(f domain.EntryFilter) bool {
	return f.From == nil && f.To == nil && f.SetID == "" && f.Code == 0 && len(f.Kinds) == 0
}

// GetAccountBalances reads the account_balances view.
func (r *reportingRepository) GetAccountBalances(ctx context.Context, from, to *domain.Period) ([]domain.AccountPeriodBalance, error) {
	query := `SELECT subject_code, subject, year, month, entry_count, balance FROM account_balances WHERE TRUE`
	var args []any
	if from != nil {
		args = append(args, from.Key())
		query += fmt.Sprintf(` AND year * 100 + month >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, to.Key())
		query += fmt.Sprintf(` AND year * 100 + month <= $%d`, len(args))
	}
	query += ` ORDER BY year, month, subject_code`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying account balances: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AccountPeriodBalance, error) {
		var b domain.AccountPeriodBalance
		var code int
		err := row.Scan(&code, &b.Subject, &b.Year, &b.Month, &b.EntryCount, &b.Balance)
		b.SubjectCode = domain.SubjectCode(code)
		return b, err
	})
}

func (r *reportingRepository) GetTableSummary(ctx context.Context, relation domain.Relation) (*domain.TableSummary, error) {
	query := `SELECT COUNT(*), COUNT(DISTINCT set_id), 0, MIN(date), MAX(date) FROM journal_entries`
	if relation == domain.RelationStaging {
		query = `SELECT COUNT(*), COUNT(DISTINCT set_id), COUNT(DISTINCT NULLIF(source_file, '')), MIN(date), MAX(date) FROM staging_entries`
	}
	s := &domain.TableSummary{Relation: relation}
	err := r.Pool.QueryRow(ctx, query).Scan(&s.RecordCount, &s.UniqueSets, &s.SourceFiles, &s.EarliestDate, &s.LatestDate)
	if err != nil {
		return nil, fmt.Errorf("error summarizing %s: %w", relation, err)
	}
	return s, nil
}

func (r *reportingRepository) GetSourceFiles(ctx context.Context) ([]domain.SourceFileSummary, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT source_file, COUNT(*), MIN(date), MAX(date)
		FROM staging_entries
		GROUP BY source_file
		ORDER BY source_file
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying staged source files: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SourceFileSummary, error) {
		var f domain.SourceFileSummary
		err := row.Scan(&f.SourceFile, &f.EntryCount, &f.EarliestDate, &f.LatestDate)
		return f, err
	})
}

// GetStagedDuplicates lists staged rows whose entry id is already in the ledger.
func (r *reportingRepository) GetStagedDuplicates(ctx context.Context) ([]domain.StagedDuplicate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT s.entry_id, s.set_id, s.date, s.remarks, s.amount
		FROM staging_entries s
		JOIN journal_entries j ON j.entry_id = s.entry_id
		ORDER BY s.date, s.set_id, s.entry_id, s.staging_seq
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying staged duplicates: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StagedDuplicate, error) {
		var d domain.StagedDuplicate
		err := row.Scan(&d.EntryID, &d.SetID, &d.Date, &d.Remarks, &d.Amount)
		return d, err
	})
}

func (r *reportingRepository) GetRecentConfirmations(ctx context.Context, since time.Time) ([]domain.ConfirmationDay, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT (confirmed_at AT TIME ZONE 'UTC')::date AS day, COUNT(*), COUNT(DISTINCT set_id), SUM(ABS(amount))
		FROM journal_entries
		WHERE confirmed_at >= $1
		GROUP BY day
		ORDER BY day DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("error querying recent confirmations: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ConfirmationDay, error) {
		var d domain.ConfirmationDay
		err := row.Scan(&d.Date, &d.EntryCount, &d.SetCount, &d.Total)
		return d, err
	})
}

func (r *reportingRepository) GetFinancialStatus(ctx context.Context) ([]domain.FinancialStatusRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT subject_code, MAX(subject), SUM(amount)
		FROM journal_entries
		GROUP BY subject_code
		HAVING SUM(amount) <> 0
		ORDER BY subject_code
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying financial status: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FinancialStatusRow, error) {
		var f domain.FinancialStatusRow
		var code int
		err := row.Scan(&code, &f.Subject, &f.Balance)
		f.SubjectCode = domain.SubjectCode(code)
		f.Category = f.SubjectCode.Category()
		return f, err
	})
}

// GetMonthlyTrend returns the latest months with P/L activity, oldest first, closing legs excluded.
func (r *reportingRepository) GetMonthlyTrend(ctx context.Context, months int) ([]domain.MonthlyTrendRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT year, month, income, expense FROM (
			SELECT
				year,
				month,
				SUM(CASE WHEN subject_code BETWEEN 400 AND 499 THEN -amount ELSE 0 END) AS income,
				SUM(CASE WHEN subject_code BETWEEN 500 AND 599 THEN amount ELSE 0 END) AS expense
			FROM journal_entries
			WHERE subject_code BETWEEN 400 AND 599
				AND leg_kind NOT IN ('CLOSING_ZERO', 'CLOSING_TRANSFER')
			GROUP BY year, month
			ORDER BY year DESC, month DESC
			LIMIT $1
		) latest
		ORDER BY year, month
	`, months)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly trend: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MonthlyTrendRow, error) {
		var t domain.MonthlyTrendRow
		err := row.Scan(&t.Period.Year, &t.Period.Month, &t.Income, &t.Expense)
		t.Net = t.Income.Sub(t.Expense)
		return t, err
	})
}

func (r *reportingRepository) GetClosingStatus(ctx context.Context) (*domain.ClosingStatus, error) {
	status := &domain.ClosingStatus{Closed: []domain.ClosedPeriod{}, Unclosed: []domain.Period{}}

	rows, err := r.Pool.Query(ctx, `
		SELECT year, month, COUNT(*), SUM(amount)
		FROM journal_entries
		WHERE leg_kind = 'CLOSING_ZERO'
		GROUP BY year, month
		ORDER BY year, month
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying closed periods: %w", err)
	}
	for rows.Next() {
		var c domain.ClosedPeriod
		var total decimal.Decimal
		if err := rows.Scan(&c.Period.Year, &c.Period.Month, &c.ClosingLegs, &total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning closed period: %w", err)
		}
		c.Total = total
		status.Closed = append(status.Closed, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating closed periods: %w", err)
	}

	rows, err = r.Pool.Query(ctx, `
		SELECT DISTINCT year, month
		FROM journal_entries j
		WHERE subject_code BETWEEN 400 AND 599
			AND leg_kind NOT IN ('CLOSING_ZERO', 'CLOSING_TRANSFER')
			AND NOT EXISTS (
				SELECT 1 FROM journal_entries c
				WHERE c.year = j.year AND c.month = j.month AND c.leg_kind = 'CLOSING_ZERO'
			)
		ORDER BY year, month
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying unclosed periods: %w", err)
	}
	unclosed, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Period, error) {
		var p domain.Period
		err := row.Scan(&p.Year, &p.Month)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning unclosed periods: %w", err)
	}
	status.Unclosed = unclosed
	return status, nil
}
