package orchestrator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/metrics"
)

// Refresh fetches all six operational collections concurrently and applies
// them as one batch: either every slice is replaced or none is. On any fetch
// failure the whole batch is discarded and the previous snapshot stays
// authoritative. There is no retry and no sequencing: when two refreshes
// overlap, whichever finishes last wins the swap wholesale.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	start := time.Now()

	var (
		alerts        []domain.EmergencyAlert
		inpatients    []domain.Inpatient
		pharmacy      []domain.PharmacyItem
		prescriptions []domain.Prescription
		meetings      []domain.BoardMeeting
		schedules     []domain.ScheduleItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		alerts, err = o.client.GetEmergencyAlerts(gctx)
		return err
	})
	g.Go(func() (err error) {
		inpatients, err = o.client.GetInpatients(gctx)
		return err
	})
	g.Go(func() (err error) {
		pharmacy, err = o.client.GetPharmacyStock(gctx)
		return err
	})
	g.Go(func() (err error) {
		prescriptions, err = o.client.GetPrescriptions(gctx)
		return err
	})
	g.Go(func() (err error) {
		meetings, err = o.client.GetBoardMeetings(gctx)
		return err
	})
	g.Go(func() (err error) {
		schedules, err = o.client.GetSchedules(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		metrics.RefreshesTotal.WithLabelValues("discarded").Inc()
		o.log.Error().Err(err).Msg("refresh batch discarded, keeping previous snapshot")
		return fmt.Errorf("refresh: %w", err)
	}

	o.mu.Lock()
	o.st.alerts = indexByID(alerts, func(a domain.EmergencyAlert) string { return a.ID })
	o.st.inpatients = indexByID(inpatients, func(p domain.Inpatient) string { return p.ID })
	o.st.pharmacy = indexByID(pharmacy, func(i domain.PharmacyItem) string { return i.ID })
	o.st.prescriptions = indexByID(prescriptions, func(p domain.Prescription) string { return p.ID })
	o.st.meetings = indexByID(meetings, func(m domain.BoardMeeting) string { return m.ID })
	o.st.schedules = indexByID(schedules, func(s domain.ScheduleItem) string { return s.ID })
	o.mu.Unlock()

	metrics.RefreshesTotal.WithLabelValues("applied").Inc()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	o.log.Debug().
		Int("alerts", len(alerts)).
		Int("inpatients", len(inpatients)).
		Dur("took", time.Since(start)).
		Msg("refresh batch applied")
	return nil
}

func indexByID[V any](items []V, id func(V) string) map[string]V {
	m := make(map[string]V, len(items))
	for _, item := range items {
		m[id(item)] = item
	}
	return m
}
