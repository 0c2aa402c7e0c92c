package vm

// ExecutionStatistics accumulates simple execution counters, grounded
// on the teacher's vm/statistics.go PerformanceStatistics type but
// trimmed to the counters the driver and service packages actually
// surface (instruction count, syscalls, memory traffic) rather than
// the teacher's full hot-path/call-graph profiler.
type ExecutionStatistics struct {
	InstructionsExecuted uint64
	SyscallsInvoked      uint64
	MemoryReads          uint64
	MemoryWrites         uint64
	BranchesTaken        uint64
	BranchesNotTaken     uint64
}

// RecordInstruction increments the instruction counter.
func (s *ExecutionStatistics) RecordInstruction() {
	s.InstructionsExecuted++
}

// RecordSyscall increments the syscall counter.
func (s *ExecutionStatistics) RecordSyscall() {
	s.SyscallsInvoked++
}

// RecordBranch records whether a branch was taken.
func (s *ExecutionStatistics) RecordBranch(taken bool) {
	if taken {
		s.BranchesTaken++
	} else {
		s.BranchesNotTaken++
	}
}
