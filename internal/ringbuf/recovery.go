package ringbuf

// Outcome classifies how Recover brought the region up, for diagnostics and
// for property tests: fresh vs. repaired classification is deliberate and
// testable.
type Outcome int

const (
	// OutcomeFresh means the header did not read back as MAGIC: the region
	// was treated as never-initialized and reset to empty.
	OutcomeFresh Outcome = iota
	// OutcomeValid means the header was MAGIC and both indices were already
	// in range: nothing was repaired.
	OutcomeValid
	// OutcomeRepaired means the header was MAGIC but at least one index was
	// out of range and had to be collapsed to a consistent, empty-or-valid
	// state.
	OutcomeRepaired
)

// Recover runs the one-shot recovery/reinit procedure over mem and
// returns the split Producer/Consumer, the outcome classification, and the
// identifier recovered from the region before newIdentifier(recovered) was
// used to stamp its replacement.
//
// Recover does not enforce the "runs exactly once" rule itself — see
// internal/initentry, which owns the process-wide once-flag. Other callers
// (cmd/ringtool replay, tests) call Recover directly, without that flag.
func Recover(mem []byte, newIdentifier func(recovered Identifier) Identifier) (*Producer, *Consumer, Outcome, Identifier, error) {
	region, err := NewRegion(mem)
	if err != nil {
		return nil, nil, OutcomeFresh, Identifier{}, err
	}

	outcome := OutcomeValid

	if !region.headerIsMagic() {
		outcome = OutcomeFresh

		// The intermediate state doesn't matter until header == MAGIC, so
		// order between these two stores is irrelevant.
		region.readIndexPtr().Store(0)
		eccFlush(mem, FieldRead)
		region.writeIndexPtr().Store(0)
		eccFlush(mem, FieldWrite)

		fullFence()

		region.headerVolatileStore()
	} else {
		dataLen := uint32(region.dataLen)
		read := region.readIndexPtr().Load()
		write := region.writeIndexPtr().Load()
		readOK := read < dataLen
		writeOK := write < dataLen

		switch {
		case readOK && writeOK:
			// Accept as-is.
		case readOK && !writeOK:
			outcome = OutcomeRepaired
			// write advertises bytes not yet written; collapse to empty by
			// pulling write up to the trusted read value.
			region.writeIndexPtr().Store(read)
		case !readOK && writeOK:
			outcome = OutcomeRepaired
			// read points outside the buffer; the only safe, data-loss-free
			// correction is to treat the buffer as empty by pulling read up
			// to write.
			region.readIndexPtr().Store(write)
		default:
			outcome = OutcomeRepaired
			region.readIndexPtr().Store(0)
			// write is still invalid between these two stores; a reset here
			// leaves header valid with write out of range, which the next
			// boot's repair path handles identically (readOK, !writeOK).
			region.writeIndexPtr().Store(0)
		}

		// Flush unconditionally: cheap, and uniform with the fresh path.
		eccFlush(mem, FieldRead)
		eccFlush(mem, FieldWrite)
	}

	fullFence()

	producer := &Producer{region: region}
	consumer := &Consumer{region: region}

	recovered := region.loadIdentifier()
	next := newIdentifier(recovered)
	region.storeIdentifier(next)

	return producer, consumer, outcome, recovered, nil
}
