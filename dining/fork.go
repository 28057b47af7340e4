package dining

import "log"

// LeftOf returns the fork on the left of a philosopher.
func LeftOf(philosopherID, _ int) int {
	return philosopherID
}

// RightOf returns the fork on the right of a philosopher. It is the left
// fork of the next philosopher around the ring.
func RightOf(philosopherID, n int) int {
	return (philosopherID + 1) % n
}

// A Fork is a resource shared by two neighbouring philosophers.
type Fork struct {
	ID    int
	Owner int
	Held  bool
}

// ForkSnapshot is the read-only view of a fork.
type ForkSnapshot struct {
	ID      int  `json:"id"`
	OwnerID *int `json:"owner_id"`
}

// ForkPool holds the ring of forks. Fork i is the left fork of philosopher i
// and the right fork of philosopher i-1.
type ForkPool struct {
	forks []Fork
}

// NewForkPool creates n free forks.
func NewForkPool(n int) *ForkPool {
	p := &ForkPool{forks: make([]Fork, n)}
	for i := range p.forks {
		p.forks[i].ID = i
	}

	return p
}

// Len returns the number of forks.
func (p *ForkPool) Len() int {
	return len(p.forks)
}

// Fork returns a copy of the fork with the given ID.
func (p *ForkPool) Fork(id int) Fork {
	return p.forks[id]
}

// TryAcquireBoth gives both forks to the philosopher if neither is held.
// Otherwise nothing changes and false is returned. A philosopher therefore
// never holds exactly one fork.
func (p *ForkPool) TryAcquireBoth(left, right, philosopherID int) bool {
	p.mustBeForksOf(left, right, philosopherID)

	if p.forks[left].Held || p.forks[right].Held {
		return false
	}

	p.forks[left].Owner, p.forks[left].Held = philosopherID, true
	p.forks[right].Owner, p.forks[right].Held = philosopherID, true

	return true
}

// ReleaseBoth frees both forks. The philosopher must hold both.
func (p *ForkPool) ReleaseBoth(left, right, philosopherID int) {
	p.mustBeForksOf(left, right, philosopherID)

	for _, id := range []int{left, right} {
		f := p.forks[id]
		if !f.Held || f.Owner != philosopherID {
			log.Panicf("philosopher %d releases fork %d it does not hold",
				philosopherID, id)
		}
	}

	p.forks[left] = Fork{ID: left}
	p.forks[right] = Fork{ID: right}
}

func (p *ForkPool) mustBeForksOf(left, right, philosopherID int) {
	n := len(p.forks)
	if left != LeftOf(philosopherID, n) ||
		right != RightOf(philosopherID, n) {
		log.Panicf("forks %d and %d do not belong to philosopher %d",
			left, right, philosopherID)
	}
}

// Snapshot returns the state of every fork in ID order.
func (p *ForkPool) Snapshot() []ForkSnapshot {
	out := make([]ForkSnapshot, len(p.forks))
	for i, f := range p.forks {
		out[i].ID = f.ID
		if f.Held {
			owner := f.Owner
			out[i].OwnerID = &owner
		}
	}

	return out
}
