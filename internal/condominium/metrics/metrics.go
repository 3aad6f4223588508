package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the orchestration core.
// Tracks registrations, ledger saga outcomes, consistency warnings and the
// reconciliation backlog.
type Metrics struct {
	CondominiumsRegistered prometheus.Counter
	ProvisionOutcomes      *prometheus.CounterVec
	ElectionsCreated       prometheus.Counter
	VotesForwarded         prometheus.Counter
	ElectionsClosed        prometheus.Counter
	ConsistencyWarnings    *prometheus.CounterVec
	ReconcileAttempts      *prometheus.CounterVec
	PendingActions         *prometheus.GaugeVec
}

// New registers the orchestration metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CondominiumsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "condovote_condominiums_registered_total",
			Help: "Total number of condominiums registered off-chain",
		}),
		ProvisionOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "condovote_provision_outcomes_total",
			Help: "Contract provisioning attempts by outcome (deployed, recovered, already, failed)",
		}, []string{"outcome"}),
		ElectionsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "condovote_elections_created_total",
			Help: "Total number of elections confirmed on the ledger",
		}),
		VotesForwarded: f.NewCounter(prometheus.CounterOpts{
			Name: "condovote_votes_forwarded_total",
			Help: "Total number of votes accepted by the ledger",
		}),
		ElectionsClosed: f.NewCounter(prometheus.CounterOpts{
			Name: "condovote_elections_closed_total",
			Help: "Total number of elections closed on the ledger",
		}),
		ConsistencyWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "condovote_consistency_warnings_total",
			Help: "Secondary ledger steps that failed and left a partial state, by action kind",
		}, []string{"kind"}),
		ReconcileAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "condovote_reconcile_attempts_total",
			Help: "Reconciler retries of pending ledger actions by kind and outcome",
		}, []string{"kind", "outcome"}),
		PendingActions: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "condovote_pending_actions",
			Help: "Open pending ledger actions by kind, as of the last sweep or report",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncrementCondominiumsRegistered() {
	if m == nil {
		return
	}
	m.CondominiumsRegistered.Inc()
}

func (m *Metrics) IncrementProvisionOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ProvisionOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementElectionsCreated() {
	if m == nil {
		return
	}
	m.ElectionsCreated.Inc()
}

func (m *Metrics) IncrementVotesForwarded() {
	if m == nil {
		return
	}
	m.VotesForwarded.Inc()
}

func (m *Metrics) IncrementElectionsClosed() {
	if m == nil {
		return
	}
	m.ElectionsClosed.Inc()
}

func (m *Metrics) IncrementConsistencyWarning(kind string) {
	if m == nil {
		return
	}
	m.ConsistencyWarnings.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementReconcileAttempt(kind, outcome string) {
	if m == nil {
		return
	}
	m.ReconcileAttempts.WithLabelValues(kind, outcome).Inc()
}

// SetPendingActions replaces the backlog gauge with counts per kind. Kinds
// absent from counts are reset to zero.
func (m *Metrics) SetPendingActions(counts map[string]int, kinds []string) {
	if m == nil {
		return
	}
	for _, k := range kinds {
		m.PendingActions.WithLabelValues(k).Set(float64(counts[k]))
	}
}
