package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/position"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/tariff"
	"github.com/iota-uz/iota-staffing/pkg/constants"
)

type stubRepo struct {
	positions map[Structure][]position.Raw
	tariffs   []tariff.Raw
	templates []Template
	err       error
}

func (r *stubRepo) ListPositions(_ context.Context, structure Structure) ([]position.Raw, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.positions[structure], nil
}

func (r *stubRepo) ListTariffs(context.Context) ([]tariff.Raw, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.tariffs, nil
}

func (r *stubRepo) ListActiveTemplates(context.Context) ([]Template, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.templates, nil
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		positions: map[Structure][]position.Raw{
			StructureCurrent: {
				{Line: 2, UnitCode: "A", UnitAcronym: "A", TypeCode: "X", Category: "1", Level: "1", Quantity: "2", Path: "A"},
				{Line: 3, UnitCode: "B", UnitAcronym: "B", TypeCode: "Y", Category: "1", Level: "1", Quantity: "1", Path: "A-B"},
				{Line: 4, UnitCode: "Z", UnitAcronym: "Z", TypeCode: "X", Category: "1", Level: "1", Quantity: "9", Path: ""},
			},
			StructureProposed: {
				{Line: 2, UnitCode: "A", UnitAcronym: "A", TypeCode: "X", Category: "1", Level: "1", Quantity: "3", Path: "A"},
			},
		},
		tariffs: []tariff.Raw{
			{Line: 2, TypeCode: "X", Category: "1", Level: "1", Value: "R$ 1.000,00", Points: "1,0"},
			{Line: 3, TypeCode: "Y", Category: "1", Level: "1", Value: "250,50", Points: "0,5"},
		},
		templates: []Template{{ID: "model", Content: []byte("tpl")}},
	}
}

func loggedContext() (context.Context, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return context.WithValue(context.Background(), constants.LoggerKey, logger), hook
}

func TestStaffingService_Hierarchy(t *testing.T) {
	ctx, hook := loggedContext()
	svc := NewStaffingService(newStubRepo(), "")

	aggregated, err := svc.Hierarchy(ctx, StructureCurrent)
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, aggregated.Roots)
	require.Equal(t, 1, aggregated.Rejected)
	requireDecimal(t, "2.5", aggregated.Totals["A"].Cumulative.Points)
	requireDecimal(t, "2250.50", aggregated.GrandTotal().Value)

	var built *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "staffing.hierarchy.built" {
			built = e
		}
	}
	require.NotNil(t, built)
	require.Equal(t, 1, built.Data["rejected"])
	require.Equal(t, 2, built.Data["nodes"])
}

func TestStaffingService_HierarchyRejectsUnknownStructure(t *testing.T) {
	svc := NewStaffingService(newStubRepo(), "")
	_, err := svc.Hierarchy(context.Background(), Structure("draft"))
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "STAFFING_INVALID_STRUCTURE", se.Code)
}

func TestStaffingService_HierarchyFailsOnBadRow(t *testing.T) {
	repo := newStubRepo()
	repo.positions[StructureCurrent] = append(repo.positions[StructureCurrent], position.Raw{
		Line: 9, TypeCode: "X", Category: "1", Level: "x", Quantity: "1", Path: "A",
	})
	svc := NewStaffingService(repo, "")
	_, err := svc.Hierarchy(context.Background(), StructureCurrent)
	var rce *RowConversionError
	require.ErrorAs(t, err, &rce)
	require.Equal(t, 9, rce.Line)
}

func TestStaffingService_RejectedRowIsNotConverted(t *testing.T) {
	repo := newStubRepo()
	repo.positions[StructureCurrent] = append(repo.positions[StructureCurrent], position.Raw{
		Line: 9, UnitCode: "R", Path: "",
	})
	svc := NewStaffingService(repo, "")

	aggregated, err := svc.Hierarchy(context.Background(), StructureCurrent)
	require.NoError(t, err)
	require.Equal(t, 2, aggregated.Rejected)
	requireDecimal(t, "2.5", aggregated.GrandTotal().Points)

	summary, err := svc.Summary(context.Background(), StructureCurrent)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Rejected)
	require.Equal(t, 3, summary.Positions)
}

func TestStaffingService_FilteredHierarchy(t *testing.T) {
	svc := NewStaffingService(newStubRepo(), "")

	filtered, err := svc.FilteredHierarchy(context.Background(), StructureCurrent, Criteria{Acronyms: []string{"B"}})
	require.NoError(t, err)
	require.Len(t, filtered.Nodes, 2)
	require.Contains(t, filtered.Nodes, "A")
	require.Contains(t, filtered.Nodes, "B")
	requireDecimal(t, "2.5", filtered.Totals["A"].Cumulative.Points)

	all, err := svc.FilteredHierarchy(context.Background(), StructureCurrent, Criteria{})
	require.NoError(t, err)
	require.Len(t, all.Nodes, 2)

	none, err := svc.FilteredHierarchy(context.Background(), StructureCurrent, Criteria{Acronyms: []string{"NOPE"}})
	require.NoError(t, err)
	require.Empty(t, none.Nodes)
}

func TestStaffingService_Summary(t *testing.T) {
	repo := newStubRepo()
	repo.positions[StructureProposed] = append(repo.positions[StructureProposed], position.Raw{
		TypeCode: "Q", Category: "1", Level: "1", Quantity: "1", Path: "A-N",
	})
	svc := NewStaffingService(repo, "")

	summary, err := svc.Summary(context.Background(), StructureProposed)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Nodes)
	require.Equal(t, 1, summary.Roots)
	require.Equal(t, 4, summary.Positions)
	require.EqualValues(t, 1, summary.TariffMisses)
	require.Equal(t, []string{"Q 1 01"}, summary.MissedKeys)
	requireDecimal(t, "3000", summary.Total.Value)
}

func TestStaffingService_Comparison(t *testing.T) {
	ctx, hook := loggedContext()
	repo := newStubRepo()
	repo.positions[StructureProposed] = append(repo.positions[StructureProposed], position.Raw{
		Line: 7, TypeCode: "X", Category: "?", Level: "1", Quantity: "1", Path: "A",
	})
	w := &recordingWriter{}
	svc := NewStaffingService(repo, "A")

	result, err := svc.Comparison(ctx, w)
	require.NoError(t, err)
	require.Equal(t, 2, result.CurrentRows)
	require.Equal(t, 1, result.ProposedRows)
	require.Len(t, result.Skipped, 1)
	require.Equal(t, []byte("tpl"), w.template)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Message == "staffing.export.row_skipped" {
			warned = true
			require.Equal(t, logrus.WarnLevel, e.Level)
			require.Equal(t, 7, e.Data["line"])
		}
	}
	require.True(t, warned)
}

func TestStaffingService_ComparisonTemplateErrors(t *testing.T) {
	repo := newStubRepo()
	repo.templates = nil
	svc := NewStaffingService(repo, "")
	_, err := svc.Comparison(context.Background(), &recordingWriter{})
	require.ErrorIs(t, err, ErrTemplateNotFound)

	repo.templates = []Template{{ID: "a"}, {ID: "b"}}
	_, err = svc.Comparison(context.Background(), &recordingWriter{})
	require.ErrorIs(t, err, ErrAmbiguousTemplate)
}

func TestStaffingService_RepositoryErrorPropagates(t *testing.T) {
	repo := newStubRepo()
	repo.err = errors.New("connection refused")
	svc := NewStaffingService(repo, "")
	_, err := svc.Summary(context.Background(), StructureCurrent)
	require.EqualError(t, err, "connection refused")
}
