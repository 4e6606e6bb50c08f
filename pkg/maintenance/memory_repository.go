package maintenance

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps machines in process memory. Suitable for
// development and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	machines map[string]Machine
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(machines ...Machine) *MemoryRepository {
	r := &MemoryRepository{machines: make(map[string]Machine, len(machines))}
	for _, m := range machines {
		r.machines[m.ID] = cloneMachine(m)
	}
	return r
}

// Put adds or replaces a machine.
func (r *MemoryRepository) Put(m Machine) {
	r.mu.Lock()
	r.machines[m.ID] = cloneMachine(m)
	r.mu.Unlock()
}

// Machine returns a copy of the stored machine.
func (r *MemoryRepository) Machine(id string) (Machine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.machines[id]
	if !ok {
		return Machine{}, false
	}
	return cloneMachine(m), true
}

// FindEligibleForDay implements Repository. Machines are ordered by id.
func (r *MemoryRepository) FindEligibleForDay(ctx context.Context, day time.Weekday) ([]Machine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Machine, 0, len(r.machines))
	for _, m := range r.machines {
		if m.OperatesOn(day) {
			out = append(out, cloneMachine(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveAlarm implements Repository.
func (r *MemoryRepository) SaveAlarm(ctx context.Context, machineID string, alarm Alarm) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.machines[machineID]
	if !ok {
		return fmt.Errorf("%w: machine %s", ErrAlarmNotFound, machineID)
	}
	idx := slices.IndexFunc(m.Alarms, func(a Alarm) bool { return a.ID == alarm.ID })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrAlarmNotFound, alarm.ID)
	}

	stored := &m.Alarms[idx]
	stored.AccumulatedHours = alarm.AccumulatedHours
	stored.LastTriggeredAt = cloneTime(alarm.LastTriggeredAt)
	stored.TimesTriggered = alarm.TimesTriggered
	return nil
}

func cloneMachine(m Machine) Machine {
	m.OperatingDays = slices.Clone(m.OperatingDays)
	m.Alarms = slices.Clone(m.Alarms)
	for i := range m.Alarms {
		m.Alarms[i].LastTriggeredAt = cloneTime(m.Alarms[i].LastTriggeredAt)
	}
	return m
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
