package tea

import "github.com/AnatoleLucet/tea/internal/fx"

// Cmd describes effects for the runtime to perform. The zero Cmd does nothing.
type Cmd struct {
	bag fx.Bag
}

// Sub describes events to listen to. The zero Sub listens to nothing.
type Sub struct {
	bag fx.Bag
}

func None() Cmd { return Cmd{} }

func NoSub() Sub { return Sub{} }

// Batch groups commands. They are handed to their managers in order.
func Batch(cmds ...Cmd) Cmd {
	bags := make(fx.Batch, len(cmds))
	for i, c := range cmds {
		bags[i] = c.bag
	}
	return Cmd{bags}
}

// BatchSubs groups subscriptions.
func BatchSubs(subs ...Sub) Sub {
	bags := make(fx.Batch, len(subs))
	for i, s := range subs {
		bags[i] = s.bag
	}
	return Sub{bags}
}

// Map passes the messages produced by c through tagger.
func (c Cmd) Map(tagger func(any) any) Cmd {
	if c.bag == nil {
		return c
	}
	return Cmd{fx.Mapped{Tagger: tagger, Bag: c.bag}}
}

// Map passes the messages produced by s through tagger.
func (s Sub) Map(tagger func(any) any) Sub {
	if s.bag == nil {
		return s
	}
	return Sub{fx.Mapped{Tagger: tagger, Bag: s.bag}}
}

// Command makes a command for the manager registered under home.
func Command(home string, v any) Cmd {
	return Cmd{fx.Leaf{Home: home, Value: v}}
}

// Subscription makes a subscription for the manager registered under home.
func Subscription(home string, v any) Sub {
	return Sub{fx.Leaf{Home: home, Value: v}}
}
