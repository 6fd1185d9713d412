package realtime

import "shopfloor/internal/core/domain/model/group"

// Observer receives counters from the broadcast core.
type Observer interface {
	SessionsChanged(total int, groupSizes map[group.Name]int)
	Broadcast(event string, recipients int)
	SweepEvicted(n int)
}

type nopObserver struct{}

func (nopObserver) SessionsChanged(int, map[group.Name]int) {}
func (nopObserver) Broadcast(string, int)                  {}
func (nopObserver) SweepEvicted(int)                       {}
