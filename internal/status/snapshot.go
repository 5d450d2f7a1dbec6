// internal/status/snapshot.go
package status

// Snapshot represents exactly what the status writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health              Health
	ConsecutiveFailures int
	PointsWithData      int
}

// FromCycle derives a snapshot from one cycle's counts.
func FromCycle(linkDown bool, pointsWithData, pointsTotal, failures int) Snapshot {
	s := Snapshot{
		ConsecutiveFailures: failures,
		PointsWithData:      pointsWithData,
	}
	switch {
	case linkDown || pointsWithData == 0:
		s.Health = HealthError
	case pointsWithData < pointsTotal:
		s.Health = HealthDegraded
	default:
		s.Health = HealthOK
	}
	return s
}
