// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

// State is the carry-over state of a streaming [Encoder] or [Decoder].
type State uint8

const (
	// StateIdle means nothing is carried over.
	StateIdle State = iota
	// StateLeftover means a partial sequence or undrained fallback output is
	// carried into the next call.
	StateLeftover
	// StateMustFlush means the last flushing call did not complete; the next
	// call must also flush.
	StateMustFlush
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLeftover:
		return "Leftover"
	case StateMustFlush:
		return "MustFlush"
	}
	return "State(?)"
}

// Encoder encodes UTF-16 incrementally. A high surrogate at the end of a
// chunk is held until the next chunk supplies its partner or a flush routes
// it through the fallback. An Encoder must not be used concurrently.
type Encoder struct {
	enc       *Encoding
	st        encState
	mustFlush bool
}

// Encoding returns the encoding e was created from.
func (e *Encoder) Encoding() *Encoding { return e.enc }

// Convert encodes as much of src into dst as fits.
//
// It returns the units read, the bytes written, and whether all input was
// consumed with no fallback output left undrained (and, when flush is set,
// no partial sequence left either). A full dst is not an error.
func (e *Encoder) Convert(dst []byte, src []uint16, flush bool) (nSrc, nDst int, completed bool, err error) {
	if e.mustFlush && !flush {
		return 0, 0, false, ErrMustFlush
	}
	nSrc, nDst, _, err = e.enc.encode(dst, src, flush, &e.st, false)
	if err != nil {
		e.mustFlush = false
		return nSrc, nDst, false, err
	}
	completed = nSrc == len(src) && e.st.pending() == 0 && (!flush || e.st.hi == 0)
	e.mustFlush = flush && !completed
	return nSrc, nDst, completed, nil
}

// Encode encodes all of src into dst. It returns [ErrDestinationTooSmall]
// if dst cannot hold the output, in which case the state is unspecified and
// the Encoder should be Reset.
func (e *Encoder) Encode(dst []byte, src []uint16, flush bool) (int, error) {
	nSrc, nDst, completed, err := e.Convert(dst, src, flush)
	if err != nil {
		return nDst, err
	}
	if nSrc < len(src) || (flush && !completed) || e.st.pending() > 0 {
		return nDst, ErrDestinationTooSmall
	}
	return nDst, nil
}

// ByteCount returns the number of bytes Encode would write for src without
// changing the state of e.
func (e *Encoder) ByteCount(src []uint16, flush bool) (int, error) {
	st := encState{hi: e.st.hi}
	_, n, _, err := e.enc.encode(nil, src, flush, &st, true)
	if err != nil {
		return 0, err
	}
	if e.st.pending() == 0 {
		return n, nil
	}
	pn, _, err := e.enc.encodePending(nil, 0, e.st.fb.Pending(), true)
	if err != nil {
		return 0, err
	}
	return checkedAdd(n, pn)
}

// State reports the carry-over state.
func (e *Encoder) State() State {
	switch {
	case e.mustFlush:
		return StateMustFlush
	case e.st.hi != 0 || e.st.pending() > 0:
		return StateLeftover
	}
	return StateIdle
}

// Reset discards all carry-over state.
func (e *Encoder) Reset() {
	e.st.hi = 0
	if e.st.fb != nil {
		e.st.fb.Reset()
	}
	e.mustFlush = false
}

// Decoder decodes bytes incrementally. Up to three bytes of a partial
// sequence are held until the next chunk completes them or a flush routes
// them through the fallback. A Decoder must not be used concurrently.
type Decoder struct {
	enc       *Encoding
	st        decState
	mustFlush bool
}

// Encoding returns the encoding d was created from.
func (d *Decoder) Encoding() *Encoding { return d.enc }

// Convert decodes as much of src into dst as fits. See [Encoder.Convert].
func (d *Decoder) Convert(dst []uint16, src []byte, flush bool) (nSrc, nDst int, completed bool, err error) {
	if d.mustFlush && !flush {
		return 0, 0, false, ErrMustFlush
	}
	nSrc, nDst, _, err = d.enc.decode(dst, src, flush, &d.st, false)
	if err != nil {
		d.mustFlush = false
		return nSrc, nDst, false, err
	}
	completed = nSrc == len(src) && d.st.pending() == 0 && (!flush || d.st.n == 0)
	d.mustFlush = flush && !completed
	return nSrc, nDst, completed, nil
}

// Decode decodes all of src into dst. See [Encoder.Encode].
func (d *Decoder) Decode(dst []uint16, src []byte, flush bool) (int, error) {
	nSrc, nDst, completed, err := d.Convert(dst, src, flush)
	if err != nil {
		return nDst, err
	}
	if nSrc < len(src) || (flush && !completed) || d.st.pending() > 0 {
		return nDst, ErrDestinationTooSmall
	}
	return nDst, nil
}

// CharCount returns the number of units Decode would write for src without
// changing the state of d.
func (d *Decoder) CharCount(src []byte, flush bool) (int, error) {
	st := decState{buf: d.st.buf, n: d.st.n}
	_, n, _, err := d.enc.decode(nil, src, flush, &st, true)
	if err != nil {
		return 0, err
	}
	return checkedAdd(n, d.st.pending())
}

// State reports the carry-over state.
func (d *Decoder) State() State {
	switch {
	case d.mustFlush:
		return StateMustFlush
	case d.st.n > 0 || d.st.pending() > 0:
		return StateLeftover
	}
	return StateIdle
}

// Reset discards all carry-over state.
func (d *Decoder) Reset() {
	d.st.n = 0
	if d.st.fb != nil {
		d.st.fb.Reset()
	}
	d.mustFlush = false
}
