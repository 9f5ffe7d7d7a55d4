package dto

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/SscSPs/ledger_ingest/internal/importer"
	"github.com/shopspring/decimal"
)

// StageEntryRequest is one leg of a JSON staging request
type StageEntryRequest struct {
	Date        string          `json:"date" binding:"required" example:"2024-03-15"`
	SetID       string          `json:"setID" binding:"required,max=40" example:"20240315-001"`
	EntryID     string          `json:"entryID,omitempty" binding:"omitempty,max=48"`
	SubjectCode int             `json:"subjectCode" binding:"required,min=100,max=999" example:"500"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"1200.00"`
	Remarks     string          `json:"remarks,omitempty" binding:"max=500"`
	Kind        string          `json:"kind,omitempty" binding:"omitempty,oneof=IMPORT CARRY_FORWARD import carry_forward"`
}

// StageRequest is the JSON alternative to a multipart CSV upload
type StageRequest struct {
	SourceFile string              `json:"sourceFile" binding:"required,max=255" example:"card-2024-03.csv"`
	Clear      bool                `json:"clear"`
	Force      bool                `json:"force"`
	Entries    []StageEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// ToDomain converts the request into a staging request.
func (r StageRequest) ToDomain() (domain.StageRequest, error) {
	entries := make([]domain.Entry, 0, len(r.Entries))
	for i, e := range r.Entries {
		date, err := importer.ParseDate(e.Date)
		if err != nil {
			return domain.StageRequest{}, fmt.Errorf("entries[%d]: %w", i, err)
		}
		code, err := domain.NewSubjectCode(e.SubjectCode)
		if err != nil {
			return domain.StageRequest{}, fmt.Errorf("entries[%d]: %w", i, err)
		}
		var kind domain.LegKind
		if strings.TrimSpace(e.Kind) != "" {
			if kind, err = domain.ParseLegKind(e.Kind); err != nil {
				return domain.StageRequest{}, fmt.Errorf("entries[%d]: %w", i, err)
			}
		}
		entries = append(entries, domain.Entry{
			EntryID:     e.EntryID,
			SetID:       e.SetID,
			Date:        date,
			SubjectCode: code,
			Amount:      e.Amount,
			Remarks:     e.Remarks,
			Kind:        kind,
			SourceFile:  r.SourceFile,
		})
	}
	if len(entries) == 0 {
		return domain.StageRequest{}, fmt.Errorf("%w: no entries", apperrors.ErrValidation)
	}
	return domain.StageRequest{
		SourceFile: r.SourceFile,
		Entries:    entries,
		Clear:      r.Clear,
		Force:      r.Force,
	}, nil
}

// ConfirmResponse reports a confirmation. Warning is set when confirmed files could not be moved.
type ConfirmResponse struct {
	domain.ConfirmResult
	Warning string `json:"warning,omitempty"`
}

// ToConfirmResponse converts a confirmation result to a DTO response
func ToConfirmResponse(r *domain.ConfirmResult) ConfirmResponse {
	resp := ConfirmResponse{ConfirmResult: *r}
	if r.FileWarning != nil {
		resp.Warning = r.FileWarning.Error()
	}
	return resp
}

// UnbalancedResponse is returned with 422 when a confirmation is rejected
type UnbalancedResponse struct {
	Error  string                   `json:"error"`
	Report *domain.ValidationReport `json:"report"`
}

// PeriodStateResponse reports the closing state of one month
type PeriodStateResponse struct {
	Period string             `json:"period" example:"2024-03"`
	State  domain.PeriodState `json:"state" example:"OPEN"`
}

// ListEntriesResponse is one page of permanent ledger entries
type ListEntriesResponse struct {
	Entries   []domain.Entry `json:"entries"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ListEntriesParams holds the query parameters of the entry listing
type ListEntriesParams struct {
	From      string `form:"from"`
	To        string `form:"to"`
	SetID     string `form:"setID"`
	Code      int    `form:"code" binding:"omitempty,min=100,max=999"`
	Kind      string `form:"kind"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ToFilter converts the query parameters into a ledger filter.
func (p ListEntriesParams) ToFilter() (domain.EntryFilter, error) {
	var filter domain.EntryFilter
	var err error
	if filter.From, err = optionalPeriod(p.From); err != nil {
		return filter, err
	}
	if filter.To, err = optionalPeriod(p.To); err != nil {
		return filter, err
	}
	filter.SetID = strings.TrimSpace(p.SetID)
	filter.Code = domain.SubjectCode(p.Code)
	if p.Kind != "" {
		for _, k := range strings.Split(p.Kind, ",") {
			kind, err := domain.ParseLegKind(k)
			if err != nil {
				return filter, err
			}
			filter.Kinds = append(filter.Kinds, kind)
		}
	}
	return filter, nil
}

// Token returns the page token or nil.
func (p ListEntriesParams) Token() *string {
	if p.NextToken == "" {
		return nil
	}
	return &p.NextToken
}

// ClearStagingResponse reports how many staged rows were removed
type ClearStagingResponse struct {
	Deleted int64 `json:"deleted"`
}

// SyncFilesResponse lists the uploads moved to the confirmed area
type SyncFilesResponse struct {
	Moved []string `json:"moved"`
}

// ParseOptionalPeriod parses a "YYYY-MM" query value; empty means no bound.
func ParseOptionalPeriod(s string) (*domain.Period, error) {
	return optionalPeriod(s)
}

func optionalPeriod(s string) (*domain.Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	p, err := domain.ParsePeriod(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// StageResponse reports a staging call. Warning is set when the provenance copy could not be kept.
type StageResponse struct {
	domain.StageResult
	Warning string `json:"warning,omitempty"`
}
