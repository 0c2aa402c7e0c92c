package driver

// StageCount is the number of stages in the didactic pipeline overlay:
// fetch, decode, execute, memory, write-back.
const StageCount = 5

const (
	StageIF = iota
	StageID
	StageEX
	StageMEM
	StageWB
)

// StageInfo describes which instruction, if any, occupies a pipeline
// stage at the moment of display. Valid is false for a bubble (fill
// or drain).
type StageInfo struct {
	Valid     bool
	WordIndex uint32
	Mnemonic  string
}

// PipelineState is five plain stage records advanced together by one
// function, in place of the linked pipeline-register objects the
// source used (Design Notes §9: no pointer graph between stages).
// It exists purely for visualization — Driver.Tick always performs
// the same single-cycle semantic execution regardless of whether the
// overlay is enabled; PipelineState never feeds back into it.
type PipelineState struct {
	Stages [StageCount]StageInfo
}

// Advance shifts every stage one step toward write-back and inserts
// the instruction just fetched into IF. Called once per tick when the
// pipeline overlay is enabled.
func (p *PipelineState) Advance(wordIndex uint32, mnemonic string) {
	p.Stages[StageWB] = p.Stages[StageMEM]
	p.Stages[StageMEM] = p.Stages[StageEX]
	p.Stages[StageEX] = p.Stages[StageID]
	p.Stages[StageID] = p.Stages[StageIF]
	p.Stages[StageIF] = StageInfo{Valid: true, WordIndex: wordIndex, Mnemonic: mnemonic}
}

// Reset clears every stage to a bubble, as required on driver reset
// and when the overlay is switched off.
func (p *PipelineState) Reset() {
	*p = PipelineState{}
}
