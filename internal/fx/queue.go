package fx

// Dispatcher sends one gathered pair of bags to the managers.
type Dispatcher interface {
	Dispatch(cmd, sub Bag)
}

type batch struct {
	cmd Bag
	sub Bag
}

// Queue serializes dispatches. A dispatch can synchronously cause another one
// (a manager answering the app during the first); the nested batch is queued
// and runs after every manager got the current one, so managers observe
// effects in the order they were produced.
type Queue struct {
	dispatcher Dispatcher

	pending []batch
	active  bool
}

func NewQueue(d Dispatcher) *Queue {
	return &Queue{dispatcher: d}
}

func (q *Queue) Enqueue(cmd, sub Bag) {
	q.pending = append(q.pending, batch{cmd, sub})
	if q.active {
		return
	}

	q.active = true
	defer func() { q.active = false }()

	for len(q.pending) > 0 {
		next := q.pending[0]
		q.pending[0] = batch{}
		q.pending = q.pending[1:]

		q.dispatcher.Dispatch(next.cmd, next.sub)
	}
}

// Len returns the number of batches waiting for the running drain.
func (q *Queue) Len() int {
	return len(q.pending)
}
