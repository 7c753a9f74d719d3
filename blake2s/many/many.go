// Package many implements BLAKE2s's batched multi-state hashing facility.
// See blake2b/many for the full design discussion; the grouping/regrouping
// algorithm is identical, only the word size and lane width differ.
package many

import (
	"github.com/blake2x/blake2x/blake2s"
	"github.com/blake2x/blake2x/internal/dispatch"
	"github.com/blake2x/blake2x/internal/simd"
)

// Job is a fully buffered input to be hashed by HashMany.
type Job struct {
	Params *blake2s.Params
	Input  []byte
	Digest *blake2s.Digest

	state  *blake2s.State
	offset int
}

// MakeHashManyJob builds a Job from parameters and a complete input slice.
func MakeHashManyJob(p *blake2s.Params, input []byte) *Job {
	return &Job{Params: p, Input: input}
}

// StateJob pairs a live streaming State with a slice of new input.
type StateJob struct {
	State *blake2s.State
	Input []byte

	offset int
}

// pending reports how many bytes a state still has to absorb: held
// buffer plus unconsumed input. A job stays in the lockstep rounds only
// while pending exceeds a full block.
func pending(s *blake2s.State, input []byte, offset int) int {
	return s.Buffered() + len(input) - offset
}

// HashMany computes the digest of every job, grouping the jobs that still
// have more than one block pending, in job order, into lockstep groups of
// up to the widest available lane width each round. Each digest equals what a sequential single-state
// hash of the same input would produce.
func HashMany(jobs []*Job) error {
	for _, j := range jobs {
		s, err := j.Params.ToState()
		if err != nil {
			return err
		}
		j.state = s
		j.offset = 0
	}

	width := simd.BlakeSWidth(dispatch.Selected())
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

// runRounds advances every eligible job one full block per round through
// lockstep CompressMany groups of up to width states, regrouping between
// rounds as jobs run out of surplus blocks.
func runRounds(jobs []*Job, width int) {
	states := make([]*blake2s.State, width)
	inputs := make([][]byte, width)
	consumed := make([]int, width)
	for {
		active := make([]*Job, 0, len(jobs))
		for _, j := range jobs {
			if pending(j.state, j.Input, j.offset) > blake2s.BlockSize {
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
			blake2s.CompressMany(states[:len(group)], inputs[:len(group)], consumed[:len(group)])
			for k, j := range group {
				j.offset += consumed[k]
			}
		}
	}
}

// UpdateMany advances a set of live states by their paired input slices,
// using the same lockstep grouping as HashMany. It does not finalize.
func UpdateMany(jobs []*StateJob) error {
	for _, j := range jobs {
		if j.State.Finalized() {
			return blake2s.ErrUpdateAfterFinalize
		}
	}
	width := simd.BlakeSWidth(dispatch.Selected())
	states := make([]*blake2s.State, width)
	inputs := make([][]byte, width)
	consumed := make([]int, width)
	for {
		active := make([]*StateJob, 0, len(jobs))
		for _, j := range jobs {
			if pending(j.State, j.Input, j.offset) > blake2s.BlockSize {
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
			blake2s.CompressMany(states[:len(group)], inputs[:len(group)], consumed[:len(group)])
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
