// Package emit turns computed feature vectors into output records with safe
// flow metadata.
package emit

import (
	"QuicSieve/internal/core/model"
	"QuicSieve/internal/engine/stats"
	"QuicSieve/internal/engine/window"
)

// Emitter produces the output records of one capture file. Metadata is
// limited to the flow's identity and addressing; windowed records never
// carry a field derived from the total flow length.
type Emitter struct {
	sourceFile string
}

// New creates an emitter for a capture file identifier.
func New(sourceFile string) *Emitter {
	return &Emitter{sourceFile: sourceFile}
}

// Full emits the whole-flow record.
func (e *Emitter) Full(f *model.Flow) *model.OutputRecord {
	return e.record(f, model.VariantFull, stats.Compute(f.Events))
}

// Window emits the record for one window size. The flow is sliced before the
// statistics engine ever sees it, so the computation cannot observe packets
// beyond the window. Flows shorter than the window return
// window.ErrInsufficientData and are excluded from that variant.
func (e *Emitter) Window(f *model.Flow, n int) (*model.OutputRecord, error) {
	events, err := window.Slice(f, n)
	if err != nil {
		return nil, err
	}
	return e.record(f, model.VariantForWindow(n), stats.Compute(events)), nil
}

func (e *Emitter) record(f *model.Flow, variant string, features model.FeatureVector) *model.OutputRecord {
	return &model.OutputRecord{
		SourceFile: e.sourceFile,
		FlowKey:    f.Key,
		Variant:    variant,
		ClientIP:   f.Client.IP,
		ClientPort: f.Client.Port,
		ServerIP:   f.Server.IP,
		ServerPort: f.Server.Port,
		Features:   features,
	}
}
