package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/iota-staffing/modules/staffing/presentation/viewmodels"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeTemplate(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { require.NoError(t, f.Close()) }()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Sigla"))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, f.SaveAs(path))
}

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "positions_current.csv"),
		"unit_code;unit_acronym;type_code;denomination;category;level;quantity;path\n"+
			"A;A;X;Diretor;1;1;2;A\n"+
			"B;B;Y;Analista;1;1;1;A-B\n"+
			"Z;Z;X;Fantasma;1;1;3;\n")
	writeTestFile(t, filepath.Join(dir, "positions_proposed.csv"),
		"unit_code;unit_acronym;type_code;denomination;category;level;quantity;path\n"+
			"A;A;X;Diretor;1;1;3;A\n"+
			"A;A;X;Diretor;1;um;1;A\n")
	writeTestFile(t, filepath.Join(dir, "tariffs.csv"),
		"type_code;category;level;value;points\n"+
			"X;1;1;\"R$ 1.000,00\";1,0\n"+
			"Y;1;1;250,50;0,5\n")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "silent")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", "missing.env"))
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCmd(t *testing.T) {
	dir := dataDir(t)
	out, err := run(t, "summary", "--source", "files", "--data-dir", dir, "--structure", "current")
	require.NoError(t, err)

	var got []viewmodels.StaffingSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	require.Equal(t, "current", got[0].Structure)
	require.Equal(t, 2, got[0].Nodes)
	require.Equal(t, 1, got[0].Rejected)
	require.Equal(t, "2.50", got[0].TotalPoints)
	require.Equal(t, "R$2.250,50", got[0].TotalValue)
	require.NotEmpty(t, got[0].RunID)
}

func TestFilterCmd(t *testing.T) {
	dir := dataDir(t)
	out, err := run(t, "filter", "--source", "files", "--data-dir", dir, "--acronym", "b")
	require.NoError(t, err)

	var tree viewmodels.StaffingTree
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	require.Len(t, tree.Nodes, 2)
	require.Equal(t, "A", tree.Nodes[0].Code)
	require.Equal(t, "B", tree.Nodes[1].Code)
	require.Equal(t, "2.50", tree.Nodes[0].CumulativePts)
}

func TestTreeCmd_Text(t *testing.T) {
	dir := dataDir(t)
	out, err := run(t, "tree", "--source", "files", "--data-dir", dir, "--format", "text")
	require.NoError(t, err)
	require.Contains(t, out, "A  A Diretor  R$2.250,50  2.50 pts")
	require.Contains(t, out, "  B  B Analista")
	require.Contains(t, out, "(rejected 1)")
}

func TestExportCmd(t *testing.T) {
	dir := dataDir(t)
	writeTemplate(t, filepath.Join(dir, "templates", "modelo.active.xlsx"))
	output := filepath.Join(t.TempDir(), "out", "comparativo.xlsx")

	out, err := run(t, "export", "--source", "files", "--data-dir", dir, "--output", output, "--primary-unit", "A")
	require.NoError(t, err)

	var report viewmodels.ComparisonReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 2, report.CurrentRows)
	require.Equal(t, 1, report.ProposedRows)
	require.Len(t, report.Skipped, 1)
	require.Equal(t, "proposed", report.Skipped[0].Structure)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	v, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	require.Equal(t, "Sigla", v)
	v, err = f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	require.Equal(t, "A", v)
	v, err = f.GetCellValue("Sheet1", "M2")
	require.NoError(t, err)
	require.Equal(t, "3", v)
}

func TestExitCodes(t *testing.T) {
	dir := dataDir(t)

	_, err := run(t, "tree", "--source", "files", "--data-dir", dir, "--structure", "draft")
	require.Equal(t, exitUsage, exitCode(err))

	_, err = run(t, "tree", "--source", "files", "--data-dir", dir, "--format", "yaml")
	require.Equal(t, exitUsage, exitCode(err))

	_, err = run(t, "tree", "--source", "s3")
	require.Equal(t, exitUsage, exitCode(err))

	_, err = run(t, "export", "--source", "files", "--data-dir", dir, "--output", filepath.Join(t.TempDir(), "x.xlsx"))
	require.Equal(t, exitTemplate, exitCode(err))

	_, err = run(t, "tree", "--source", "files", "--data-dir", t.TempDir())
	require.Equal(t, exitStorage, exitCode(err))

	cyclic := dataDir(t)
	writeTestFile(t, filepath.Join(cyclic, "positions_current.csv"),
		"type_code;category;level;quantity;path\nX;1;1;1;R\nX;1;1;1;A-A\n")
	_, err = run(t, "tree", "--source", "files", "--data-dir", cyclic)
	require.Equal(t, exitIntegrity, exitCode(err))
	require.ErrorIs(t, err, services.ErrCyclicHierarchy)

	broken := dataDir(t)
	writeTestFile(t, filepath.Join(broken, "positions_current.csv"),
		"type_code;category;level;quantity;path\nX;1;x;1;R\n")
	_, err = run(t, "tree", "--source", "files", "--data-dir", broken)
	require.Equal(t, exitValidation, exitCode(err))
}

func TestExitCode_Unclassified(t *testing.T) {
	require.Equal(t, exitOK, exitCode(nil))
	require.Equal(t, 1, exitCode(errors.New("boom")))
	require.Equal(t, exitStorage, exitCode(withCode(exitStorage, errors.New("boom"))))
	require.Nil(t, withCode(exitStorage, nil))
}
