package detail

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	dsdto "eqviz/internal/modules/dataset/dto"
	"eqviz/internal/ui/fetch"
)

type stubPort struct {
	detail dsdto.DetailOutput
	err    error
	gotID  int
}

func (s *stubPort) Get(_ context.Context, id int) (dsdto.DetailOutput, error) {
	s.gotID = id
	return s.detail, s.err
}

func (s *stubPort) SaveReport(context.Context, int) (dsdto.ReportOutput, error) {
	return dsdto.ReportOutput{}, nil
}

func sampleDetail() dsdto.DetailOutput {
	return dsdto.DetailOutput{
		SummaryOutput: dsdto.SummaryOutput{ID: 7, Filename: "plant_a.csv", TotalCount: 3},
		Equipment: []dsdto.EquipmentOutput{
			{ID: 1, Name: "Pump A", Type: "Pump", Flowrate: 12.34, Pressure: 2.56, Temperature: 81.94},
			{ID: 2, Name: "Valve B", Type: "Valve", Flowrate: 0.5, Pressure: 10, Temperature: 25},
			{ID: 3, Name: "Tank C", Type: "Tank", Flowrate: 99.99, Pressure: 1.04, Temperature: 60.06},
		},
	}
}

// collect flattens a command tree into the messages it would deliver.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestEquipmentRowsRenderWithOneDecimal(t *testing.T) {
	t.Parallel()
	port := &stubPort{detail: sampleDetail()}
	m := New(port, time.Second)

	cmd := m.Load(7)
	var applied bool
	for _, msg := range collect(cmd) {
		if done, ok := msg.(fetch.DoneMsg[dsdto.DetailOutput]); ok {
			m, _ = m.Update(done)
			applied = true
		}
	}
	if !applied {
		t.Fatalf("load produced no completion message")
	}
	if port.gotID != 7 {
		t.Fatalf("fetched dataset %d, want 7", port.gotID)
	}

	rows := m.table.Rows()
	if len(rows) != 3 {
		t.Fatalf("want 3 table rows, got %d", len(rows))
	}
	first := rows[0]
	if first[0] != "Pump A" || first[1] != "Pump" {
		t.Fatalf("unexpected name/type cells: %v", first)
	}
	for i, want := range []string{"12.3", "2.6", "81.9"} {
		if got := first[i+2]; got != want {
			t.Fatalf("cell %d: want %q, got %q", i+2, want, got)
		}
	}
	if rows[1][3] != "10.0" || rows[2][2] != "100.0" {
		t.Fatalf("numeric cells not one-decimal: %v %v", rows[1], rows[2])
	}
}

func TestReloadClearsStaleRows(t *testing.T) {
	t.Parallel()
	port := &stubPort{detail: sampleDetail()}
	m := New(port, time.Second)

	cmd := m.Load(7)
	for _, msg := range collect(cmd) {
		if done, ok := msg.(fetch.DoneMsg[dsdto.DetailOutput]); ok {
			m, _ = m.Update(done)
		}
	}
	if len(m.table.Rows()) != 3 {
		t.Fatalf("precondition: rows not loaded")
	}

	m.Load(8)
	if len(m.table.Rows()) != 0 {
		t.Fatalf("rows from the previous dataset must be cleared while loading")
	}
}
