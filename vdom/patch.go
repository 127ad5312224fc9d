package vdom

import (
	"fmt"

	"github.com/AnatoleLucet/tea/dom"
)

type Kind uint8

const (
	// PatchRedraw replaces the node with a fresh render of Node.
	PatchRedraw Kind = iota
	// PatchFacts applies Facts to the node.
	PatchFacts
	// PatchText replaces the character data of a text node.
	PatchText
	// PatchThunk applies Patches, indexed from the thunk's own subtree.
	PatchThunk
	// PatchTagger swaps the taggers of a Mapped group without touching the tree.
	PatchTagger
	// PatchRemoveLast removes the last Count children.
	PatchRemoveLast
	// PatchAppend renders Children[Length:] at the end.
	PatchAppend
	// PatchRemove removes a keyed child, or detaches it to be moved when Entry is set.
	PatchRemove
	// PatchReorder applies the child patches of a keyed element then its inserts.
	PatchReorder
	// PatchCustom runs Apply on the node of a custom subtree. When Apply returns
	// another node it takes the old one's place and gets Facts in full.
	PatchCustom
)

func (k Kind) String() string {
	switch k {
	case PatchRedraw:
		return "redraw"
	case PatchFacts:
		return "facts"
	case PatchText:
		return "text"
	case PatchThunk:
		return "thunk"
	case PatchTagger:
		return "tagger"
	case PatchRemoveLast:
		return "removeLast"
	case PatchAppend:
		return "append"
	case PatchRemove:
		return "remove"
	case PatchReorder:
		return "reorder"
	case PatchCustom:
		return "custom"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Patch is one mutation of the live tree. Index is the pre-order position of
// the target in the old tree, the root being 0.
type Patch struct {
	Kind  Kind
	Index int

	Node     Node
	Facts    *FactsDiff
	Text     string
	Patches  []*Patch
	Taggers  []func(any) any
	Length   int
	Count    int
	Children []Node
	Entry    *Entry

	Inserts    []Insert
	EndInserts []Insert

	Apply func(*dom.Node) *dom.Node

	// filled in when the patch is resolved against the live tree
	node   *dom.Node
	events *eventNode
	depth  int
}

type EntryState uint8

const (
	EntryInsert EntryState = iota
	EntryRemove
	EntryMove
)

func (s EntryState) String() string {
	switch s {
	case EntryInsert:
		return "insert"
	case EntryRemove:
		return "remove"
	case EntryMove:
		return "move"
	}
	return fmt.Sprintf("EntryState(%d)", uint8(s))
}

// Entry tracks one key of a keyed diff. A key both removed and inserted is
// a move.
type Entry struct {
	State EntryState
	Node  Node
	// old index for a removal, new child position for an insert, -1 for an
	// insert at the end
	Index int

	dom   *dom.Node
	patch *Patch
}

type Insert struct {
	Index int
	Entry *Entry
}
