package fx

import "github.com/AnatoleLucet/tea/internal/scheduler"

// Manager interprets the effects of one home. Its state lives in a dedicated
// process: Init produces the first state, then every effects batch and self
// message is folded into a new state.
type Manager struct {
	Init *scheduler.Task

	OnEffects func(r *Router, cmds, subs []any, state any) *scheduler.Task
	OnSelfMsg func(r *Router, msg, state any) *scheduler.Task

	// CmdMap and SubMap rewrap a value so the messages it produces go through
	// tagger. Nil when the manager has no commands or subscriptions.
	CmdMap func(tagger func(any) any, value any) any
	SubMap func(tagger func(any) any, value any) any
}

// Router lets a manager process talk to the app and to itself.
type Router struct {
	home      string
	self      scheduler.ID
	sendToApp func(any)
}

func (r *Router) Home() string { return r.home }

// Self is the ID of the manager process.
func (r *Router) Self() scheduler.ID { return r.self }

// SendToApp delivers msg to the app's update function and succeeds with nil.
func (r *Router) SendToApp(msg any) *scheduler.Task {
	return scheduler.Binding(func(resolve func(*scheduler.Task)) func() {
		r.sendToApp(msg)
		resolve(scheduler.Succeed(nil))
		return nil
	})
}

// SendToSelf posts msg to the manager's own mailbox, where it is handed to
// OnSelfMsg.
func (r *Router) SendToSelf(msg any) *scheduler.Task {
	return scheduler.SendTask(r.self, selfMsg{msg})
}

type selfMsg struct {
	value any
}

type effectsMsg struct {
	cmds []any
	subs []any
}
