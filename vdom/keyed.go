package vdom

// KeySuffix is appended to a duplicate key until it no longer collides with
// an entry of the same diff.
const KeySuffix = "_teaW6BL"

// diffKeyedKids matches children by key, looking one child ahead on both
// sides to recognize swaps, single inserts and single removals. Whatever is
// left once the look-ahead cannot explain a mismatch is removed and inserted;
// a key that is both removed and inserted becomes a move.
func diffKeyedKids(x, y *KeyedElement, patches *[]*Patch, rootIndex int) {
	var local []*Patch
	changes := make(map[string]*Entry)
	var inserts []Insert

	xKids, yKids := x.Children, y.Children
	xLen, yLen := len(xKids), len(yKids)
	xi, yi := 0, 0
	index := rootIndex

loop:
	for xi < xLen && yi < yLen {
		xk, yk := xKids[xi], yKids[yi]

		if xk.Key == yk.Key {
			index++
			diffHelp(xk.Node, yk.Node, &local, index)
			index += xk.Node.DescendantCount() - 1
			xi++
			yi++
			continue
		}

		var xNext, yNext *KeyedChild
		var oldMatch, newMatch bool
		if xi+1 < xLen {
			xNext = &xKids[xi+1]
			oldMatch = yk.Key == xNext.Key
		}
		if yi+1 < yLen {
			yNext = &yKids[yi+1]
			newMatch = xk.Key == yNext.Key
		}

		switch {
		case oldMatch && newMatch:
			// swap
			index++
			diffHelp(xk.Node, yNext.Node, &local, index)
			insertNode(changes, yk.Key, yk.Node, yi, &inserts)
			index += xk.Node.DescendantCount() - 1

			index++
			removeNode(changes, &local, xNext.Key, xNext.Node, index)
			index += xNext.Node.DescendantCount() - 1

			xi += 2
			yi += 2

		case newMatch:
			// y was inserted
			index++
			insertNode(changes, yk.Key, yk.Node, yi, &inserts)
			diffHelp(xk.Node, yNext.Node, &local, index)
			index += xk.Node.DescendantCount() - 1

			xi++
			yi += 2

		case oldMatch:
			// x was removed
			index++
			removeNode(changes, &local, xk.Key, xk.Node, index)
			index += xk.Node.DescendantCount() - 1

			index++
			diffHelp(xNext.Node, yk.Node, &local, index)
			index += xNext.Node.DescendantCount() - 1

			xi += 2
			yi++

		case xNext != nil && yNext != nil && xNext.Key == yNext.Key:
			// x was replaced by y
			index++
			removeNode(changes, &local, xk.Key, xk.Node, index)
			insertNode(changes, yk.Key, yk.Node, yi, &inserts)
			index += xk.Node.DescendantCount() - 1

			index++
			diffHelp(xNext.Node, yNext.Node, &local, index)
			index += xNext.Node.DescendantCount() - 1

			xi += 2
			yi += 2

		default:
			break loop
		}
	}

	for ; xi < xLen; xi++ {
		index++
		xk := xKids[xi]
		removeNode(changes, &local, xk.Key, xk.Node, index)
		index += xk.Node.DescendantCount() - 1
	}

	var endInserts []Insert
	for ; yi < yLen; yi++ {
		yk := yKids[yi]
		insertNode(changes, yk.Key, yk.Node, -1, &endInserts)
	}

	if len(local) > 0 || len(inserts) > 0 || len(endInserts) > 0 {
		push(patches, &Patch{
			Kind:       PatchReorder,
			Index:      rootIndex,
			Patches:    local,
			Inserts:    inserts,
			EndInserts: endInserts,
		})
	}
}

func insertNode(changes map[string]*Entry, key string, n Node, yIndex int, inserts *[]Insert) {
	for {
		e, ok := changes[key]
		if !ok {
			e = &Entry{State: EntryInsert, Node: n, Index: yIndex}
			*inserts = append(*inserts, Insert{Index: yIndex, Entry: e})
			changes[key] = e
			return
		}

		if e.State == EntryRemove {
			// removed earlier: a move
			*inserts = append(*inserts, Insert{Index: yIndex, Entry: e})
			e.State = EntryMove

			var sub []*Patch
			diffHelp(e.Node, n, &sub, e.Index)
			e.Index = yIndex
			e.patch.Entry = e
			e.patch.Patches = sub
			return
		}

		key += KeySuffix
	}
}

func removeNode(changes map[string]*Entry, local *[]*Patch, key string, n Node, index int) {
	for {
		e, ok := changes[key]
		if !ok {
			p := push(local, &Patch{Kind: PatchRemove, Index: index})
			changes[key] = &Entry{State: EntryRemove, Node: n, Index: index, patch: p}
			return
		}

		if e.State == EntryInsert {
			// inserted earlier: a move
			e.State = EntryMove

			var sub []*Patch
			diffHelp(n, e.Node, &sub, index)
			push(local, &Patch{Kind: PatchRemove, Index: index, Entry: e, Patches: sub})
			return
		}

		key += KeySuffix
	}
}
