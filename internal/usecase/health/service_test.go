package health

import (
	"context"
	"errors"
	"testing"

	"github.com/tilemart/tilequery/internal/domain"
)

type staticSource struct {
	catalog domain.Catalog
}

func (s *staticSource) Load(context.Context) domain.Catalog { return s.catalog }

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

type fakeOracle struct {
	err error
}

func (o *fakeOracle) HealthCheck(context.Context) error { return o.err }

func loadedSource() *staticSource {
	return &staticSource{catalog: domain.Catalog{{ID: "tile-0001-aria", Name: "Aria"}}}
}

func TestCheck_Healthy(t *testing.T) {
	svc := New(loadedSource(), &fakePinger{}, &fakeOracle{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Fatalf("status = %q, want %q", report.Status, Healthy)
	}
	for name, result := range report.Checks {
		if result != CheckOK {
			t.Errorf("check %q = %q", name, result)
		}
	}
	if len(report.Checks) != 3 {
		t.Errorf("got %d checks, want 3", len(report.Checks))
	}
}

func TestCheck_EmptyCatalog(t *testing.T) {
	svc := New(&staticSource{}, nil, nil)

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Fatalf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["catalog"] != CheckError {
		t.Errorf("catalog check = %q", report.Checks["catalog"])
	}
}

func TestCheck_CacheDown(t *testing.T) {
	svc := New(loadedSource(), &fakePinger{err: errors.New("refused")}, nil)

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Fatalf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["cache"] != CheckError {
		t.Errorf("cache check = %q", report.Checks["cache"])
	}
}

func TestCheck_NilComponentsSkipped(t *testing.T) {
	svc := New(loadedSource(), nil, nil)

	report := svc.Check(context.Background())
	if len(report.Checks) != 1 {
		t.Fatalf("got %d checks, want only the catalog check", len(report.Checks))
	}
	if report.Status != Healthy {
		t.Errorf("status = %q, want %q", report.Status, Healthy)
	}
}
