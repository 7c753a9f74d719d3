// Package many implements BLAKE2b's batched multi-state hashing facility:
// hash_many and update_many, which amortize the cost of several concurrent
// compressions by advancing them in lockstep groups sized by the widest
// multi-state lane width this process has dispatched to (internal/simd,
// fed by internal/dispatch's one-shot CPU probe).
package many

import (
	"github.com/blake2x/blake2x/blake2b"
	"github.com/blake2x/blake2x/internal/dispatch"
	"github.com/blake2x/blake2x/internal/simd"
)

// Job is a fully buffered input to be hashed by HashMany.
type Job struct {
	Params *blake2b.Params
	Input  []byte
	Digest *blake2b.Digest

	state  *blake2b.State
	offset int
}

// MakeHashManyJob builds a Job from parameters and a complete input slice.
func MakeHashManyJob(p *blake2b.Params, input []byte) *Job {
	return &Job{Params: p, Input: input}
}

// StateJob pairs a live streaming State with a slice of new input, for
// UpdateMany's "(state, bytes)" job shape.
type StateJob struct {
	State *blake2b.State
	Input []byte

	offset int
}

// pending reports how many bytes a state still has to absorb: its held
// buffer (a keyed state's key block included) plus unconsumed input. A
// job is eligible for lockstep rounds only while pending exceeds a full
// block, so the block dispatched is never the final one.
func pending(s *blake2b.State, input []byte, offset int) int {
	return s.Buffered() + len(input) - offset
}

// HashMany computes the digest of every job. Writes to distinct jobs
// never interleave, and every job's digest equals what a sequential
// single-state hash of the same input would produce: HashMany only
// changes the order full blocks are grouped and dispatched in, never the
// arithmetic.
func HashMany(jobs []*Job) error {
	for _, j := range jobs {
		s, err := j.Params.ToState()
		if err != nil {
			return err
		}
		j.state = s
		j.offset = 0
	}

	width := simd.BlakeBWidth(dispatch.Selected())
	runRounds(jobs, width)

	for _, j := range jobs {
		if err := j.state.Update(j.Input[j.offset:]); err != nil {
			return err
		}
		j.offset = len(j.Input)
		j.Digest = j.state.Finalize()
	}
	return nil
}

// runRounds advances every job that still has more than one block of
// pending bytes, one full block per job per round, grouping up to width
// jobs into a single lockstep CompressMany dispatch. Jobs whose pending
// tail no longer exceeds a block drop out of the active set and wait for
// the single-state tail pass; jobs never regroup mid-round, only between
// rounds.
func runRounds(jobs []*Job, width int) {
	states := make([]*blake2b.State, width)
	inputs := make([][]byte, width)
	consumed := make([]int, width)
	for {
		active := make([]*Job, 0, len(jobs))
		for _, j := range jobs {
			if pending(j.state, j.Input, j.offset) > blake2b.BlockSize {
				active = append(active, j)
			}
		}
		if len(active) == 0 {
			return
		}
		for i := 0; i < len(active); i += width {
			end := i + width
			if end > len(active) {
				end = len(active)
			}
			group := active[i:end]
			for k, j := range group {
				states[k] = j.state
				inputs[k] = j.Input[j.offset:]
			}
			blake2b.CompressMany(states[:len(group)], inputs[:len(group)], consumed[:len(group)])
			for k, j := range group {
				j.offset += consumed[k]
			}
		}
	}
}

// UpdateMany advances a set of live states by their paired input slices,
// using the same lockstep grouping as HashMany. It does not finalize:
// every state ends with its pending tail in the hold buffer, exactly as
// a sequential Update of the same bytes would leave it.
func UpdateMany(jobs []*StateJob) error {
	for _, j := range jobs {
		if j.State.Finalized() {
			return blake2b.ErrUpdateAfterFinalize
		}
	}
	width := simd.BlakeBWidth(dispatch.Selected())
	states := make([]*blake2b.State, width)
	inputs := make([][]byte, width)
	consumed := make([]int, width)
	for {
		active := make([]*StateJob, 0, len(jobs))
		for _, j := range jobs {
			if pending(j.State, j.Input, j.offset) > blake2b.BlockSize {
				active = append(active, j)
			}
		}
		if len(active) == 0 {
			break
		}
		for i := 0; i < len(active); i += width {
			end := i + width
			if end > len(active) {
				end = len(active)
			}
			group := active[i:end]
			for k, j := range group {
				states[k] = j.State
				inputs[k] = j.Input[j.offset:]
			}
			blake2b.CompressMany(states[:len(group)], inputs[:len(group)], consumed[:len(group)])
			for k, j := range group {
				j.offset += consumed[k]
			}
		}
	}
	for _, j := range jobs {
		if err := j.State.Update(j.Input[j.offset:]); err != nil {
			return err
		}
		j.offset = len(j.Input)
	}
	return nil
}
