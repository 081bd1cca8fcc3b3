package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogSource
	db      DBPinger
	oracle  OracleChecker
}

// New creates a Service. db and oracle can be nil.
func New(catalog CatalogSource, db DBPinger, oracle OracleChecker) *Service {
	return &Service{catalog: catalog, db: db, oracle: oracle}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.catalog.Load(ctx).Empty() {
		checks["catalog"] = CheckError
	} else {
		checks["catalog"] = CheckOK
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if s.oracle != nil {
		if err := s.oracle.HealthCheck(ctx); err != nil {
			checks["oracle"] = CheckError
		} else {
			checks["oracle"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
