package engine

import (
	"strings"

	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/gateway"
	"github.com/pryce-dev/vantage/pkg/logger"
	"github.com/pryce-dev/vantage/pkg/report"
)

// accumulator is the single in-flight turn. turnID is the server-issued
// correlation key; msgID is the streaming store message the buffer renders
// into. explicit holds a report delivered as discrete final-result fields
// rather than embedded in the text. detected remembers the last report
// extracted from the buffer itself: once the buffer grows past a bare
// whole-body payload, re-extraction comes up empty, and without the cache
// an already-rendered report would vanish mid-stream.
type accumulator struct {
	turnID   string
	buf      strings.Builder
	msgID    string
	explicit *report.Report
	detected *report.Report
}

// extract runs report extraction over the full buffer, caching any hit so a
// report survives trailing narrative that breaks re-extraction. The explicit
// final-result report is the fallback of last resort.
func (a *accumulator) extract() (*report.Report, string) {
	r, cleaned := report.Extract(a.buf.String())
	if r != nil {
		a.detected = r
	} else if a.detected != nil {
		r = a.detected
	} else {
		r = a.explicit
	}
	return r, cleaned
}

func (e *Engine) applyChunk(turnID, content string) {
	if e.acc == nil || e.acc.turnID != turnID {
		e.openTurn(turnID)
	}
	e.acc.buf.WriteString(content)
	e.sync()
}

// applyFinal absorbs the authoritative complete content and, when present,
// the structured report fields. The turn stays streaming until its
// completion event arrives.
func (e *Engine) applyFinal(ev gateway.FinalResult) {
	e.confirmConversation(ev.ConversationID)
	if e.acc == nil || e.acc.turnID != ev.MessageID {
		e.openTurn(ev.MessageID)
	}
	if ev.Content != "" {
		e.acc.buf.Reset()
		e.acc.buf.WriteString(ev.Content)
		e.acc.detected = nil
	}
	if ev.ReportKind != "" {
		if r, ok := report.FromParts(ev.ReportKind, ev.ReportData, ev.Insights); ok {
			e.acc.explicit = r
		} else {
			logger.Warn("Discarding unusable report payload: kind=%q", ev.ReportKind)
		}
	}
	e.sync()
}

func (e *Engine) completeTurn(turnID string) {
	e.store.SetTyping(false)
	if e.acc == nil {
		logger.Debug("Completion for turn %s with no open accumulator", turnID)
		return
	}
	if turnID != "" && e.acc.turnID != turnID {
		logger.Warn("Completion for turn %s while %s is streaming; finalizing anyway", turnID, e.acc.turnID)
	}
	e.finalize("")
	e.scheduleRefresh()
}

// openTurn starts a fresh streaming message. A still-open accumulator for a
// different turn means its completion event never arrived; finalize it with
// whatever content it collected rather than losing it.
func (e *Engine) openTurn(turnID string) {
	if e.acc != nil {
		logger.Warn("Turn %s arrived while %s still streaming; finalizing the old turn", turnID, e.acc.turnID)
		e.finalize("")
	}
	e.store.SetTyping(false)
	msg := chat.NewStreamingMessage("")
	e.store.Append(msg)
	e.acc = &accumulator{turnID: turnID, msgID: msg.ID}
}

// sync re-runs report extraction over the full buffer and pushes the result
// into the store. Extraction runs on every fragment so a report renders the
// moment its payload is complete, without waiting for the turn to end.
func (e *Engine) sync() {
	r, cleaned := e.acc.extract()
	e.updateOrRebind(func(m *chat.Message) {
		m.Content = cleaned
		m.Report = r
	})
}

func (e *Engine) finalize(note string) {
	r, cleaned := e.acc.extract()
	if note != "" {
		if cleaned != "" {
			cleaned += "\n\n" + note
		} else {
			cleaned = note
		}
	}
	e.updateOrRebind(func(m *chat.Message) {
		m.Content = cleaned
		m.Report = r
		m.IsStreaming = false
	})
	e.acc = nil
}

// updateOrRebind applies fn to the accumulator's message. When the target id
// is gone, for instance after the working set was cleared mid-turn, it
// rebinds to the most recent streaming assistant message, or appends a fresh
// one as a last resort. Buffered content is never dropped.
func (e *Engine) updateOrRebind(fn func(*chat.Message)) {
	if e.store.Update(e.acc.msgID, fn) {
		return
	}
	if m, ok := e.store.LastStreamingAssistant(); ok {
		logger.Warn("Rebinding turn %s from message %s to %s", e.acc.turnID, e.acc.msgID, m.ID)
		e.acc.msgID = m.ID
		e.store.Update(e.acc.msgID, fn)
		return
	}
	msg := chat.NewStreamingMessage("")
	fn(&msg)
	e.store.Append(msg)
	e.acc.msgID = msg.ID
}
