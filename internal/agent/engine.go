package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-recruit-assistant/internal/llm"
)

// Fixed conversation-level replies.
const (
	WelcomeMessage = "Hello! I'm an AI recruitment assistant. I help you find and schedule interviews, and provide information about positions. How can I assist you today? (type 'exit' to quit)"

	msgGoodbye  = "Goodbye! Have a great day."
	msgModelEnd = "It was nice talking with you. Goodbye!"
)

var (
	// ErrEmptyMessage is returned for a blank inbound message.
	ErrEmptyMessage = errors.New("message must not be empty")
	// ErrEngineClosed is returned after Close.
	ErrEngineClosed = errors.New("engine is shut down")
)

// Reply is one assistant turn. End marks the conversation as finished; the
// transport decides what that means (HTTP marks the row ended, the console
// loop exits).
type Reply struct {
	Text   string
	Intent Intent
	End    bool
}

// InfoAdvisor answers questions about open roles. It never fails; failures
// come back as fixed apology text.
type InfoAdvisor interface {
	Answer(query string) string
}

// Responder produces the open-domain fallback reply.
type Responder interface {
	Complete(ctx context.Context, turns []llm.Turn) string
}

// Transcript persists the message exchange. Recording failures are logged
// and never interrupt the conversation.
type Transcript interface {
	RecordUser(ctx context.Context, conversationID, content string) error
	RecordAssistant(ctx context.Context, conversationID, content, intent string) error
	End(ctx context.Context, conversationID string) error
}

// Engine runs one worker goroutine per live conversation. Each worker
// consumes its inbox strictly sequentially, so session state is never
// touched concurrently; the slot store is the only shared resource.
type Engine struct {
	Router     *Router
	Flow       *Flow
	Info       InfoAdvisor
	Chat       Responder
	Transcript Transcript

	mu      sync.Mutex
	workers map[string]*worker
	quit    chan struct{}
	closed  bool
	wg      sync.WaitGroup
}

type inbound struct {
	ctx  context.Context
	text string
	resp chan Reply
}

type worker struct {
	session *Session
	inbox   chan inbound
	done    chan struct{}
}

// NewEngine wires the engine. Info, Chat and Transcript may be nil in tests;
// a nil Chat answers fallbacks with the fixed apology.
func NewEngine(router *Router, flow *Flow, info InfoAdvisor, chat Responder, transcript Transcript) *Engine {
	return &Engine{
		Router:     router,
		Flow:       flow,
		Info:       info,
		Chat:       chat,
		Transcript: transcript,
		workers:    make(map[string]*worker),
		quit:       make(chan struct{}),
	}
}

// Handle dispatches one user message into the conversation's worker and
// waits for the reply. Messages for the same conversation are processed in
// arrival order; different conversations proceed in parallel.
func (e *Engine) Handle(ctx context.Context, conversationID, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyMessage
	}

	msg := inbound{ctx: ctx, text: text, resp: make(chan Reply, 1)}
	for {
		w, err := e.workerFor(conversationID)
		if err != nil {
			return Reply{}, err
		}
		select {
		case w.inbox <- msg:
		case <-w.done:
			// The session ended while we held the worker; grab a fresh one.
			continue
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		}

		select {
		case r := <-msg.resp:
			return r, nil
		case <-w.done:
			// The worker exited. A reply may still sit in the buffer if it
			// answered this message on its final turn; otherwise the message
			// was never consumed and is re-dispatched, which fails with
			// ErrEngineClosed once the engine is shut down.
			select {
			case r := <-msg.resp:
				return r, nil
			default:
				continue
			}
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		}
	}
}

func (e *Engine) workerFor(conversationID string) (*worker, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	if w, ok := e.workers[conversationID]; ok {
		return w, nil
	}
	w := &worker{
		session: NewSession(conversationID),
		inbox:   make(chan inbound, 8),
		done:    make(chan struct{}),
	}
	e.workers[conversationID] = w
	e.wg.Add(1)
	activeSessions.Inc()
	go e.run(w)
	return w, nil
}

func (e *Engine) run(w *worker) {
	defer e.wg.Done()
	defer activeSessions.Dec()
	defer close(w.done)
	defer e.remove(w.session.ID)

	for {
		select {
		case m := <-w.inbox:
			reply := e.step(m.ctx, w.session, m.text)
			m.resp <- reply
			if reply.End {
				return
			}
		case <-e.quit:
			return
		}
	}
}

func (e *Engine) remove(conversationID string) {
	e.mu.Lock()
	delete(e.workers, conversationID)
	e.mu.Unlock()
}

// Close stops all workers. The message a worker is processing finishes;
// queued messages no worker reached, and any later Handle calls, fail with
// ErrEngineClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.quit)
	e.mu.Unlock()
	e.wg.Wait()
}

var greetCaser = cases.Title(language.English)

// step processes one message against the session: an in-progress scheduling
// flow owns the message outright, otherwise the intent cascade decides.
func (e *Engine) step(ctx context.Context, s *Session, text string) Reply {
	e.recordUser(ctx, s.ID, text)

	var reply Reply
	if s.InFlow() {
		reply = Reply{Text: e.Flow.Resume(ctx, s, text), Intent: IntentScheduleStart}
	} else {
		intent := e.Router.Route(ctx, text, s.History)
		intentsRouted.WithLabelValues(intent.String()).Inc()
		if intent == IntentModelEnd || intent == IntentFallback {
			// Only messages that reached the learned check become oracle
			// context for later turns.
			s.Remember(text)
		}
		reply = e.act(ctx, s, intent, text)
		reply.Intent = intent
	}

	e.recordAssistant(ctx, s.ID, reply)
	if reply.End {
		e.endTranscript(ctx, s.ID)
	}
	log.Debug().
		Str("conversation_id", s.ID).
		Stringer("intent", reply.Intent).
		Stringer("stage", s.Stage).
		Bool("end", reply.End).
		Msg("message handled")
	return reply
}

func (e *Engine) act(ctx context.Context, s *Session, intent Intent, text string) Reply {
	switch intent {
	case IntentExit:
		return Reply{Text: msgGoodbye, End: true}
	case IntentGreeting:
		return Reply{Text: fmt.Sprintf("%s! How can I assist you today?", greetCaser.String(normalize(text)))}
	case IntentScheduleStart:
		return Reply{Text: e.Flow.Start(ctx, s, text)}
	case IntentInfoQuery:
		if e.Info != nil {
			return Reply{Text: e.Info.Answer(text)}
		}
		return e.fallback(ctx, text)
	case IntentModelEnd:
		return Reply{Text: msgModelEnd, End: true}
	default:
		return e.fallback(ctx, text)
	}
}

func (e *Engine) fallback(ctx context.Context, text string) Reply {
	if e.Chat == nil {
		return Reply{Text: llm.ChatApology}
	}
	return Reply{Text: e.Chat.Complete(ctx, []llm.Turn{{Role: "user", Text: text}})}
}

func (e *Engine) recordUser(ctx context.Context, conversationID, content string) {
	if e.Transcript == nil {
		return
	}
	if err := e.Transcript.RecordUser(ctx, conversationID, content); err != nil {
		log.Warn().Err(err).Str("conversation_id", conversationID).Msg("recording user message failed")
	}
}

func (e *Engine) recordAssistant(ctx context.Context, conversationID string, r Reply) {
	if e.Transcript == nil {
		return
	}
	if err := e.Transcript.RecordAssistant(ctx, conversationID, r.Text, r.Intent.String()); err != nil {
		log.Warn().Err(err).Str("conversation_id", conversationID).Msg("recording assistant message failed")
	}
}

func (e *Engine) endTranscript(ctx context.Context, conversationID string) {
	if e.Transcript == nil {
		return
	}
	if err := e.Transcript.End(ctx, conversationID); err != nil {
		log.Warn().Err(err).Str("conversation_id", conversationID).Msg("marking conversation ended failed")
	}
}
