package stab

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaskrrish/Go-QStab/internal/models/stab"
	"github.com/jaskrrish/Go-QStab/internal/stab/circuit"
	"github.com/jaskrrish/Go-QStab/internal/stab/clifford"
	"github.com/jaskrrish/Go-QStab/internal/stab/sim"
)

const (
	backendName    = "StabilizerSampler"
	backendVersion = "1.0.0"
)

// Handle is an opaque token identifying one completed sampling job. A
// handle pairs the job's slot in the backend's record arena with a unique
// id minted at submission, so a handle forged or issued by another backend
// never resolves.
type Handle struct {
	slot int
	id   uuid.UUID
}

func (h Handle) String() string {
	return fmt.Sprintf("%d/%s", h.slot, h.id)
}

// record is one arena entry; immutable after insertion
type record struct {
	id     uuid.UUID
	result *Result
}

// Backend accepts batches of circuits, samples each synchronously, and
// caches the results for retrieval by handle. Submission is blocking: by
// the time Submit returns, every returned handle already resolves to a
// completed result, so Status never reports an in-progress state.
type Backend struct {
	exec    sim.Executor
	records []*record
	mutex   sync.RWMutex
	logger  *zap.Logger
}

// NewBackend creates a backend sampling on exec. A nil exec uses an
// entropy-seeded sim.Engine.
func NewBackend(exec sim.Executor) *Backend {
	if exec == nil {
		exec = sim.NewEngine()
	}
	return &Backend{
		exec:   exec,
		logger: zap.NewNop(),
	}
}

// SetLogger replaces the backend's logger. The default discards everything.
func (bk *Backend) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bk.logger = logger
}

// Name returns the backend's name
func (bk *Backend) Name() string {
	return backendName
}

// Version returns the backend's version string
func (bk *Backend) Version() string {
	return backendVersion
}

// SupportedOps returns the closed set of operation types the translator
// accepts, in declaration order of the type constants. Rotations are not in
// the set; CompileCircuit rewrites them into it.
func (bk *Backend) SupportedOps() []circuit.OpType {
	ops := make([]circuit.OpType, 0, len(primitives))
	for t := circuit.OpNoop; t <= circuit.OpRy; t++ {
		if _, ok := primitives[t]; ok {
			ops = append(ops, t)
		}
	}
	return ops
}

// CompileCircuit rewrites circ so every operation belongs to the supported
// set, decomposing parameterized rotations into S and H sequences. Circuits
// with non-Clifford rotation angles fail with ErrNonCliffordAngle.
func (bk *Backend) CompileCircuit(circ *circuit.Circuit) (*circuit.Circuit, error) {
	return clifford.Rebase(circ)
}

// Submit samples each circuit for its paired shot count and returns one
// handle per circuit in submission order. The shots slice must have one
// entry per circuit (ErrShotCountMismatch) and every entry must be at least
// 1 (ErrInvalidShotCount); both are checked before anything runs. The batch
// is all-or-nothing: if any circuit fails to translate or sample, no
// results are cached and no handles are minted.
func (bk *Backend) Submit(circs []*circuit.Circuit, shots []int) ([]Handle, error) {
	if len(shots) != len(circs) {
		return nil, fmt.Errorf("%d circuits but %d shot counts: %w",
			len(circs), len(shots), stab.ErrShotCountMismatch)
	}
	for i, n := range shots {
		if n < 1 {
			return nil, fmt.Errorf("circuit %d requests %d shots: %w", i, n, stab.ErrInvalidShotCount)
		}
	}

	results := make([]*Result, len(circs))
	for i, circ := range circs {
		start := time.Now()
		res, err := bk.runOne(circ, shots[i])
		if err != nil {
			bk.logger.Warn("circuit rejected",
				zap.Int("circuit", i),
				zap.String("name", circ.Name()),
				zap.Error(err))
			return nil, fmt.Errorf("circuit %d: %w", i, err)
		}
		bk.logger.Info("circuit sampled",
			zap.Int("circuit", i),
			zap.String("name", circ.Name()),
			zap.Int("shots", shots[i]),
			zap.Int("bits", res.NumBits()),
			zap.Duration("elapsed", time.Since(start)))
		results[i] = res
	}

	// Every circuit completed; commit the batch and mint handles
	bk.mutex.Lock()
	defer bk.mutex.Unlock()
	handles := make([]Handle, len(results))
	for i, res := range results {
		rec := &record{id: uuid.New(), result: res}
		handles[i] = Handle{slot: len(bk.records), id: rec.id}
		bk.records = append(bk.records, rec)
	}
	return handles, nil
}

// SubmitN samples every circuit for the same shot count
func (bk *Backend) SubmitN(circs []*circuit.Circuit, shots int) ([]Handle, error) {
	counts := make([]int, len(circs))
	for i := range counts {
		counts[i] = shots
	}
	return bk.Submit(circs, counts)
}

// runOne takes one circuit through translate, sample and assemble
func (bk *Backend) runOne(circ *circuit.Circuit, shots int) (*Result, error) {
	tr, err := translate(circ)
	if err != nil {
		return nil, err
	}
	raw, err := sample(bk.exec, tr, shots)
	if err != nil {
		return nil, err
	}
	return assemble(circ.Bits(), tr.ledger, raw)
}

// Status reports the job state for h. Valid handles are always
// JobCompleted; a handle this backend never minted is ErrUnknownHandle.
func (bk *Backend) Status(h Handle) (stab.JobStatus, error) {
	if _, err := bk.lookup(h); err != nil {
		return "", err
	}
	return stab.JobCompleted, nil
}

// Result returns the cached outcome table for h, or ErrUnknownHandle
func (bk *Backend) Result(h Handle) (*Result, error) {
	rec, err := bk.lookup(h)
	if err != nil {
		return nil, err
	}
	return rec.result, nil
}

func (bk *Backend) lookup(h Handle) (*record, error) {
	bk.mutex.RLock()
	defer bk.mutex.RUnlock()
	if h.slot < 0 || h.slot >= len(bk.records) || bk.records[h.slot].id != h.id {
		return nil, fmt.Errorf("handle %s: %w", h, stab.ErrUnknownHandle)
	}
	return bk.records[h.slot], nil
}
