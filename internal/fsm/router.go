package fsm

import "context"

// Handler processes one inbound text within a conversation's current
// state and returns the next state (StateNone ends the flow implicitly).
type Handler func(ctx context.Context, sess Session, text string) (next State, data Data, reply string, err error)

// Router dispatches to the Handler registered for a conversation's current
// state; unrecognised text at StateNone is the caller's job to route to
// quick-commands or AI chat, not this router's.
type Router struct {
	store    Store
	handlers map[State]Handler
}

func NewRouter(store Store) *Router {
	return &Router{store: store, handlers: make(map[State]Handler)}
}

// On registers the handler invoked while a conversation sits in state.
func (r *Router) On(state State, h Handler) {
	r.handlers[state] = h
}

// Start opens a new flow at state, replacing whatever session (if any)
// already occupied this conversation. Callers use this to enter a wizard
// from a command outside the router's own Dispatch loop.
func (r *Router) Start(ctx context.Context, platform, chatID, userID string, state State, data Data) error {
	return r.store.Set(ctx, platform, chatID, userID, Session{State: state, Data: data})
}

// Dispatch loads the conversation's session, runs the handler for its
// current state (a no-op passthrough if none is registered, which leaves
// the stored session unchanged and returns an empty reply so the caller can
// fall through to quick-commands), and persists the resulting transition.
func (r *Router) Dispatch(ctx context.Context, platform, chatID, userID, text string) (reply string, err error) {
	sess, ok, err := r.store.Get(ctx, platform, chatID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		sess = Session{State: StateNone, Data: NewData()}
	}

	h, registered := r.handlers[sess.State]
	if !registered {
		return "", nil
	}

	next, data, reply, err := h(ctx, sess, text)
	if err != nil {
		return "", err
	}

	if next == StateNone {
		return reply, r.store.Clear(ctx, platform, chatID, userID)
	}
	return reply, r.store.Set(ctx, platform, chatID, userID, Session{State: next, Data: data})
}

// InFlow reports whether a conversation currently sits in any state other
// than StateNone — used by bot.Pipeline.Handle, after the mention gate has
// passed a message, to route it to Dispatch as the next step of an active
// wizard before any command parsing or context resolution.
func (r *Router) InFlow(ctx context.Context, platform, chatID, userID string) (bool, error) {
	sess, ok, err := r.store.Get(ctx, platform, chatID, userID)
	if err != nil {
		return false, err
	}
	return ok && sess.State != StateNone, nil
}
