package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/SscSPs/ledger_ingest/internal/commands"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/SscSPs/ledger_ingest/internal/dto"
	"github.com/SscSPs/ledger_ingest/internal/repositories/filesystem"
	"github.com/SscSPs/ledger_ingest/internal/repositories/memory"
	"github.com/SscSPs/ledger_ingest/internal/utils"
)

const marchCSV = "date,set_id,subject_code,amount,remarks\n" +
	"2024-03-25,SAL,100,5000,salary\n" +
	"2024-03-25,SAL,400,-5000,salary\n" +
	"2024-03-01,RENT,500,3000,rent\n" +
	"2024-03-01,RENT,100,-3000,rent\n"

const unbalancedCSV = "date,set_id,subject_code,amount,remarks\n" +
	"2024-03-05,LUNCH,500,12.50,lunch\n" +
	"2024-03-05,LUNCH,100,-12.00,lunch\n"

type CommandsTestSuite struct {
	suite.Suite
	dir          string
	uploadsDir   string
	confirmedDir string
	store        *memory.Store
	uploads      *filesystem.UploadStore
}

func TestCommandsTestSuite(t *testing.T) {
	suite.Run(t, new(CommandsTestSuite))
}

func (suite *CommandsTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.uploadsDir = filepath.Join(suite.dir, "uploads")
	suite.confirmedDir = filepath.Join(suite.dir, "confirmed")
	suite.store = memory.NewStore()

	uploads, err := filesystem.NewUploadStore(suite.uploadsDir, suite.confirmedDir)
	suite.Require().NoError(err)
	suite.uploads = uploads
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) code() int {
	return commands.ExitCode(r.err)
}

// run executes one CLI invocation against the suite's shared store.
func (suite *CommandsTestSuite) run(args ...string) result {
	v := viper.New()
	v.Set("UPLOADS_DIR", suite.uploadsDir)
	v.Set("CONFIRMED_DIR", suite.confirmedDir)
	v.Set("JWT_SECRET", "cli-test-secret")
	v.Set("LOG_LEVEL", "ERROR")

	root := commands.NewRootCommand(
		commands.WithBootstrapper(commands.MemoryBootstrapper(suite.store, suite.uploads)),
		commands.WithViper(v),
	)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (suite *CommandsTestSuite) writeCSV(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (suite *CommandsTestSuite) stageAndConfirmMarch() {
	r := suite.run("stage", suite.writeCSV("march.csv", marchCSV))
	suite.Require().NoError(r.err, r.stderr)
	r = suite.run("confirm")
	suite.Require().NoError(r.err, r.stderr)
}

func (suite *CommandsTestSuite) TestStage() {
	r := suite.run("stage", suite.writeCSV("march.csv", marchCSV))

	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "staged 4 entries from march.csv")
	suite.Contains(r.stdout, "all 2 sets balanced")
	suite.FileExists(filepath.Join(suite.uploadsDir, "march.csv"))
}

func (suite *CommandsTestSuite) TestStage_MissingFile() {
	r := suite.run("stage", filepath.Join(suite.dir, "nope.csv"))

	suite.Equal(2, r.code())
}

func (suite *CommandsTestSuite) TestStage_BadCSV() {
	r := suite.run("stage", suite.writeCSV("bad.csv", "date,set_id,amount\n2024-03-01,S,1\n"))

	suite.Equal(2, r.code())
	suite.Contains(r.err.Error(), "subject_code")
}

func (suite *CommandsTestSuite) TestStage_DryRunLeavesStagingEmpty() {
	r := suite.run("stage", "--dry-run", suite.writeCSV("lunch.csv", unbalancedCSV))

	suite.Equal(1, r.code())
	suite.Contains(r.stdout, "dry run: 2 entries parsed from lunch.csv")
	suite.Contains(r.stdout, "LUNCH")

	r = suite.run("validate")
	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "all 0 sets balanced")
	suite.NoFileExists(filepath.Join(suite.uploadsDir, "lunch.csv"))
}

func (suite *CommandsTestSuite) TestValidate_Unbalanced() {
	suite.Require().NoError(suite.run("stage", suite.writeCSV("lunch.csv", unbalancedCSV)).err)

	r := suite.run("validate")

	suite.Equal(1, r.code())
	suite.Contains(r.stdout, "1 of 1 sets unbalanced")
	suite.Contains(r.stdout, "0.50")
}

func (suite *CommandsTestSuite) TestConfirm() {
	suite.Require().NoError(suite.run("stage", suite.writeCSV("march.csv", marchCSV)).err)

	r := suite.run("confirm")

	suite.Require().NoError(r.err, r.stderr)
	suite.Contains(r.stdout, "confirmed 4 entries")
	suite.FileExists(filepath.Join(suite.confirmedDir, "march.csv"))
	suite.NoFileExists(filepath.Join(suite.uploadsDir, "march.csv"))

	r = suite.run("confirm")
	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "nothing staged to confirm")
}

func (suite *CommandsTestSuite) TestConfirm_UnbalancedExitsOne() {
	suite.Require().NoError(suite.run("stage", suite.writeCSV("lunch.csv", unbalancedCSV)).err)

	r := suite.run("confirm")

	suite.Equal(1, r.code())
	suite.Contains(r.stdout, "LUNCH")

	r = suite.run("entries", "--format", "json")
	suite.Require().NoError(r.err)
	var page dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal([]byte(r.stdout), &page))
	suite.Empty(page.Entries)
}

func (suite *CommandsTestSuite) TestClose() {
	suite.stageAndConfirmMarch()

	r := suite.run("close", "2024-03")
	suite.Require().NoError(r.err, r.stderr)
	suite.Contains(r.stdout, "Closing set CLOSE-2024-03")
	suite.Contains(r.stdout, "2024-03 CLOSED: profit 2000.00")

	r = suite.run("period", "2024-03")
	suite.Require().NoError(r.err)
	suite.Equal("2024-03 CLOSED\n", r.stdout)

	r = suite.run("close", "2024-03")
	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "already closed")

	r = suite.run("close", "2024-03", "--reclose")
	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "removed 3 previous closing legs")
	suite.Contains(r.stdout, "2024-03 RECLOSED: profit 2000.00")
}

func (suite *CommandsTestSuite) TestClose_NothingToClose() {
	r := suite.run("close", "2024-02")

	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "nothing to close for 2024-02")
}

func (suite *CommandsTestSuite) TestClose_InvalidPeriod() {
	for _, p := range []string{"2024-13", "24-03", "march"} {
		suite.Run(p, func() {
			r := suite.run("close", p)
			suite.Equal(2, r.code())
		})
	}
}

func (suite *CommandsTestSuite) TestTrialBalance_JSON() {
	suite.stageAndConfirmMarch()
	suite.Require().NoError(suite.run("close", "2024-03").err)

	r := suite.run("trial-balance", "--format", "json")

	suite.Require().NoError(r.err, r.stderr)
	var tb domain.TrialBalance
	suite.Require().NoError(json.Unmarshal([]byte(r.stdout), &tb))
	suite.True(tb.TotalDebit.Equal(tb.TotalCredit))
	codes := make([]domain.SubjectCode, 0, len(tb.Rows))
	for _, row := range tb.Rows {
		codes = append(codes, row.SubjectCode)
	}
	suite.Equal([]domain.SubjectCode{100, 300, 400, 500}, codes)
}

func (suite *CommandsTestSuite) TestTrialBalance_Text() {
	suite.stageAndConfirmMarch()

	r := suite.run("trial-balance", "--period", "2024-03")

	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "Trial balance as of 2024-03")
	suite.Contains(r.stdout, "TOTAL")
	suite.Contains(r.stdout, "8000.00")
}

func (suite *CommandsTestSuite) TestTrialBalance_XLSX() {
	suite.stageAndConfirmMarch()
	path := filepath.Join(suite.dir, "tb.xlsx")

	r := suite.run("trial-balance", "--xlsx", path)

	suite.Require().NoError(r.err)
	suite.Contains(r.stderr, "wrote "+path)

	f, err := excelize.OpenFile(path)
	suite.Require().NoError(err)
	defer f.Close()
	header, err := f.GetCellValue("Trial Balance", "A1")
	suite.Require().NoError(err)
	suite.Equal("CODE", header)
	code, err := f.GetCellValue("Trial Balance", "A2")
	suite.Require().NoError(err)
	suite.Equal("100", code)
}

func (suite *CommandsTestSuite) TestTrialBalance_BadFormat() {
	r := suite.run("trial-balance", "--format", "yaml")

	suite.Equal(2, r.code())
}

func (suite *CommandsTestSuite) TestStatus() {
	suite.Require().NoError(suite.run("stage", suite.writeCSV("lunch.csv", unbalancedCSV)).err)

	r := suite.run("status", "sources")
	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "lunch.csv")

	r = suite.run("status", "sets", "--relation", "staging", "--format", "json")
	suite.Require().NoError(r.err)
	var sets []domain.SetSummary
	suite.Require().NoError(json.Unmarshal([]byte(r.stdout), &sets))
	suite.Require().Len(sets, 1)
	suite.Equal("LUNCH", sets[0].SetID)

	r = suite.run("status", "cashflow", "--relation", "staging")
	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "Cash movement (staging)")
	suite.Contains(r.stdout, "LUNCH")
	suite.Contains(r.stdout, "-12.00")

	suite.Equal(2, suite.run("status", "cashflow", "--relation", "archive").code())
	suite.Equal(2, suite.run("status", "sets", "--relation", "archive").code())
	suite.Equal(2, suite.run("status", "nonsense").code())
	suite.Equal(2, suite.run("status", "balances", "--from", "2024-3x").code())
}

func (suite *CommandsTestSuite) TestEntries_Paging() {
	suite.stageAndConfirmMarch()

	r := suite.run("entries", "--limit", "3", "--format", "json")
	suite.Require().NoError(r.err)
	var first dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal([]byte(r.stdout), &first))
	suite.Len(first.Entries, 3)
	suite.Require().NotNil(first.NextToken)

	r = suite.run("entries", "--limit", "3", "--format", "json", "--next", *first.NextToken)
	suite.Require().NoError(r.err)
	var second dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal([]byte(r.stdout), &second))
	suite.Len(second.Entries, 1)
	suite.Nil(second.NextToken)

	suite.Equal(2, suite.run("entries", "--next", "???").code())
	suite.Equal(2, suite.run("entries", "--code", "42").code())
}

func (suite *CommandsTestSuite) TestStagingClear() {
	suite.Require().NoError(suite.run("stage", suite.writeCSV("lunch.csv", unbalancedCSV)).err)

	r := suite.run("staging", "clear")

	suite.Require().NoError(r.err)
	suite.Contains(r.stdout, "cleared 2 staged entries")
	suite.Contains(suite.run("validate").stdout, "all 0 sets balanced")
}

func (suite *CommandsTestSuite) TestToken() {
	r := suite.run("token", "--subject", "alice")

	suite.Require().NoError(r.err)
	claims, err := utils.ParseAndValidateJWT(string(bytes.TrimSpace([]byte(r.stdout))), "cli-test-secret")
	suite.Require().NoError(err)
	suite.Equal("alice", claims.Subject)
}

func (suite *CommandsTestSuite) TestToken_SubjectRequired() {
	r := suite.run("token")

	suite.Error(r.err)
}

func (suite *CommandsTestSuite) TestExitCode() {
	suite.Equal(0, commands.ExitCode(nil))
	suite.Equal(1, commands.ExitCode(&domain.UnbalancedSetsError{Report: &domain.ValidationReport{}}))
	suite.Equal(2, commands.ExitCode(domain.ErrInvalidPeriod))
	suite.Equal(3, commands.ExitCode(&commands.ExitError{Code: 3, Err: os.ErrClosed}))
	suite.Equal(1, commands.ExitCode(os.ErrPermission))
}
