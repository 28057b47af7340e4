// Package dining models the dining philosophers as a discrete-time simulation.
//
// A Table owns every piece of run state: the logical clock, the philosophers,
// the ring of forks and the event log. Each call to Table.Tick advances the
// clock, runs the starvation monitor over all philosophers and, unless
// somebody starved, applies one transition per philosopher in ascending ID
// order. Lower IDs therefore win contested forks, and the lowest starving ID
// is the one that dies.
//
// Forks are taken both-or-neither, so no philosopher ever waits while holding
// a single fork and the table cannot deadlock. Starvation is still possible
// and halts the table.
package dining
