package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"zgony/adapters/excel"
	"zgony/domain/core"
	"zgony/domain/mortality"
	"zgony/internal/testkit"
)

// CLITestSuite runs commands against a data directory holding 2019 and 2020
type CLITestSuite struct {
	suite.Suite
	dataDir string
	outDir  string
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) SetupTest() {
	s.dataDir = s.T().TempDir()
	s.outDir = s.T().TempDir()
	s.T().Setenv("LOG_LEVEL", "ERROR")

	labels := mortality.DefaultAgeGroups().Labels()
	for _, year := range []int{2019, 2020} {
		table, _ := testkit.NewMortalityGenerator(testkit.DefaultMortalityConfig(year, labels)).Table()
		path := filepath.Join(s.dataDir, fmt.Sprintf("Zgony według tygodni w Polsce_%d.xlsx", year))
		require.NoError(s.T(), testkit.WriteWorkbook(path, excel.SheetTotal, table))
	}
}

func (s *CLITestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--data-dir", s.dataDir, "--out", s.outDir))
	err := cmd.Execute()
	return out.String(), err
}

func (s *CLITestSuite) TestTable() {
	out, err := s.run("table", "--years", "2019-2020", "--locale", "en")
	s.Require().NoError(err)

	s.Contains(out, "2019")
	s.Contains(out, "90 i więcej")
	s.Contains(out, "Total deaths")
}

func (s *CLITestSuite) TestTable_MissingYear() {
	_, err := s.run("table", "--years", "2019,2021")
	s.Require().Error(err)
	s.ErrorIs(err, core.ErrFileNotFound)
}

func (s *CLITestSuite) TestReport() {
	out, err := s.run("report", "--years", "2019,2020", "--parallelism", "2")
	s.Require().NoError(err)
	s.Contains(out, "2 years")

	for _, name := range []string{
		"averages.txt", "summary.md", "summary.html",
		"annual_totals.png", "heatmap_2020.png", "heatmap_animation.gif", "trend_0-4.png",
	} {
		_, err := os.Stat(filepath.Join(s.outDir, name))
		s.NoError(err, name)
	}
}

func (s *CLITestSuite) TestReport_RunID() {
	_, err := s.run("report", "--years", "2019", "--run-id", "nightly-7")
	s.Require().NoError(err)

	md, err := os.ReadFile(filepath.Join(s.outDir, "summary.md"))
	s.Require().NoError(err)
	s.Contains(string(md), "Run `nightly-7`")
}

func (s *CLITestSuite) TestInspect() {
	out, err := s.run("inspect", "2020")
	s.Require().NoError(err)

	s.Contains(out, "OGÓŁEM")
	s.Contains(out, "Ogółem")
	s.Contains(out, "53")
}

func (s *CLITestSuite) TestInspect_BadYear() {
	_, err := s.run("inspect", "twenty")
	s.Error(err)
}

func (s *CLITestSuite) TestFlagsOverrideEnvironment() {
	s.T().Setenv("AVERAGE_POLICY", "simple")

	_, err := s.run("table", "--policy", "median")
	s.Require().Error(err)
	s.Contains(err.Error(), "median")
}
