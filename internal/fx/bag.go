package fx

// Bag is a tree of effect descriptions. Leaves name the manager that
// interprets them; Batch and Mapped only shape the tree.
type Bag interface {
	isBag()
}

// Leaf is a single command or subscription for the manager registered
// under Home.
type Leaf struct {
	Home  string
	Value any
}

// Batch groups bags. A nil or empty Batch is the empty bag.
type Batch []Bag

// Mapped wraps every message produced by Bag with Tagger.
type Mapped struct {
	Tagger func(any) any
	Bag    Bag
}

func (Leaf) isBag()   {}
func (Batch) isBag()  {}
func (Mapped) isBag() {}

// Effects is what a manager receives for one dispatch, in issuance order.
type Effects struct {
	Cmds []any
	Subs []any
}

// compose folds taggers, listed outermost first, into one func applying the
// innermost tagger first.
func compose(taggers []func(any) any) func(any) any {
	chain := append([]func(any) any(nil), taggers...)
	return func(msg any) any {
		for i := len(chain) - 1; i >= 0; i-- {
			msg = chain[i](msg)
		}
		return msg
	}
}
